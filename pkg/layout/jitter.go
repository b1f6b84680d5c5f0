package layout

import (
	"math"

	"github.com/matzehuels/pointmap/pkg/dataset"
)

// Jitter returns a deterministic offset for a grid cell of a region.
// Implementations must not depend on anything but their arguments.
type Jitter interface {
	Offset(region string, c Cell) (dx, dy float64)
}

// NoJitter lays every region out as an exact grid.
type NoJitter struct{}

// Offset always returns zero.
func (NoJitter) Offset(string, Cell) (float64, float64) { return 0, 0 }

// DenseJitter drifts one region: dx grows linearly with the row, dy follows
// a sine of the column.
//
//	dx = DriftX * row
//	dy = Amplitude * sin(column)
//
// Every other region is left on its grid.
type DenseJitter dataset.Dense

// Offset implements Jitter.
func (j DenseJitter) Offset(region string, c Cell) (float64, float64) {
	if j.Region == "" || region != j.Region {
		return 0, 0
	}
	return j.DriftX * float64(c.Row), j.Amplitude * math.Sin(float64(c.Column))
}
