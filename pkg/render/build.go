package render

import (
	"github.com/matzehuels/pointmap/pkg/errors"
	"github.com/matzehuels/pointmap/pkg/layout"
)

// Marker is the interactive representation of one location.
type Marker struct {
	// ID is the marker's position in build order, starting at 0.
	ID           int
	LocationName string
	RegionName   string
	Index        int
	Cell         layout.Cell
	Position     layout.Point
	Radius       float64
	// Handle is the primitive created for this marker on the surface.
	Handle Primitive
}

// Option configures Build.
type Option func(*builder)

type builder struct {
	radius float64
	class  string
}

// WithRadius sets the marker radius (default DefaultRadius).
func WithRadius(r float64) Option {
	return func(b *builder) { b.radius = r }
}

// WithClass replaces the style class given to marker primitives.
func WithClass(class string) Option {
	return func(b *builder) { b.class = class }
}

// Build creates one marker per location and appends it to s.
//
// Regions are visited in declared order, locations in declared order within
// each region, so the primitive sequence on s is stable across runs. All
// positions are computed before s is touched; Build either appends every
// marker or none.
func Build(eng *layout.Engine, s Surface, opts ...Option) ([]Marker, error) {
	if eng == nil {
		return nil, errors.New(errors.ErrCodeInternal, "render: nil layout engine")
	}
	return Attach(eng.Place(), s, opts...)
}

// Attach creates markers for placements computed earlier, in the order
// given. It is Build for callers that cache placements.
func Attach(placed []layout.Placement, s Surface, opts ...Option) ([]Marker, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInternal, "render: nil surface")
	}

	b := builder{radius: DefaultRadius, class: ClassMarker}
	for _, opt := range opts {
		opt(&b)
	}
	if b.radius <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render: radius must be positive, got %v", b.radius)
	}

	markers := make([]Marker, len(placed))
	for i, p := range placed {
		markers[i] = Marker{
			ID:           i,
			LocationName: p.Name,
			RegionName:   p.Region,
			Index:        p.Index,
			Cell:         p.Cell,
			Position:     p.Point,
			Radius:       b.radius,
		}
	}

	for i := range markers {
		m := &markers[i]
		prim := s.CreatePoint()
		prim.SetPosition(m.Position.X, m.Position.Y)
		prim.SetRadius(m.Radius)
		prim.Tag(TagName, m.LocationName)
		prim.Tag(TagRegion, m.RegionName)
		if b.class != "" {
			prim.AddClass(b.class)
		}
		prim.SetFocusable(true)
		s.Append(prim)
		m.Handle = prim
	}
	return markers, nil
}
