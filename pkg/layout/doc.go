// Package layout derives canvas coordinates for every location of a dataset.
//
// The layout is a plain grid per region. For location index i of a region
// with c columns the grid cell is (i mod c, i div c), and the position is the
// region origin plus cell times gap. One region may be marked dense; it gets a
// small drift (see [Jitter]) so its grid does not look rigid.
//
// Everything here is pure. The same dataset always produces the same
// positions, and each coordinate is rounded to one decimal place.
//
//	eng := layout.NewEngine(dataset.Builtin())
//	p, err := eng.ComputePosition("Marmara", 5) // {178, 144}
package layout
