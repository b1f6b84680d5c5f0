// Package render turns a laid-out dataset into markers on a rendering surface.
//
// # Overview
//
// [Build] walks the dataset in its declared order (regions first, then the
// locations of each region), asks the layout engine for each position, and
// creates one focusable point primitive per location on a [Surface]. It
// returns the typed [Marker] list that the interaction controller works on.
//
// The surface is abstract. The [sink] subpackage implements it for SVG, and
// [Recorder] records the calls for tests and JSON export.
//
//	eng := layout.NewEngine(dataset.Builtin())
//	rec := render.NewRecorder()
//	markers, err := render.Build(eng, rec)
//
// # Format Conversion
//
// [ToPDF] converts SVG output with the external rsvg-convert tool
// (from librsvg).
//
// [sink]: github.com/matzehuels/pointmap/pkg/render/sink
package render
