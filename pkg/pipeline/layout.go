package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/layout"
)

// NewEngine returns the layout engine for ds under opts.
func NewEngine(ds *dataset.Dataset, opts Options) *layout.Engine {
	if opts.NoJitter {
		return layout.NewEngine(ds, layout.WithJitter(layout.NoJitter{}))
	}
	return layout.NewEngine(ds)
}

// GenerateLayout computes every marker position of ds in build order.
func GenerateLayout(ds *dataset.Dataset, opts Options) []layout.Placement {
	return NewEngine(ds, opts).Place()
}

// MarshalPlacements serializes placements for caching and hashing.
func MarshalPlacements(placed []layout.Placement) ([]byte, error) {
	return json.Marshal(placed)
}

// UnmarshalPlacements reverses MarshalPlacements.
func UnmarshalPlacements(data []byte) ([]layout.Placement, error) {
	var placed []layout.Placement
	if err := json.Unmarshal(data, &placed); err != nil {
		return nil, err
	}
	return placed, nil
}
