package layout

import (
	"math"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/errors"
)

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell is a grid cell inside a region.
type Cell struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// Rect is an axis-aligned rectangle in canvas space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Pad returns r grown by m on every side.
func (r Rect) Pad(m float64) Rect {
	return Rect{MinX: r.MinX - m, MinY: r.MinY - m, MaxX: r.MaxX + m, MaxY: r.MaxY + m}
}

// Engine computes positions for a dataset. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	ds     *dataset.Dataset
	jitter Jitter
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithJitter replaces the drift applied to positions. Pass NoJitter{} to lay
// out every region as a rigid grid.
func WithJitter(j Jitter) EngineOption {
	return func(e *Engine) { e.jitter = j }
}

// NewEngine creates an engine whose drift comes from the dataset's dense
// region settings.
func NewEngine(ds *dataset.Dataset, opts ...EngineOption) *Engine {
	e := &Engine{ds: ds, jitter: DenseJitter(ds.Dense())}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dataset returns the dataset the engine lays out.
func (e *Engine) Dataset() *dataset.Dataset { return e.ds }

// Cell returns the grid cell of index inside region.
func (e *Engine) Cell(region string, index int) (Cell, error) {
	r, err := e.lookup(region, index)
	if err != nil {
		return Cell{}, err
	}
	return cellOf(r.Layout, index), nil
}

// ComputePosition returns the canvas position of the index-th location of
// region. It fails with INVALID_INDEX when index is outside
// [0, len(locations)) and NOT_FOUND for an unknown region.
func (e *Engine) ComputePosition(region string, index int) (Point, error) {
	r, err := e.lookup(region, index)
	if err != nil {
		return Point{}, err
	}
	return e.position(r, index), nil
}

func (e *Engine) lookup(region string, index int) (dataset.Region, error) {
	r, ok := e.ds.Region(region)
	if !ok {
		return dataset.Region{}, errors.New(errors.ErrCodeNotFound, "unknown region %q", region)
	}
	if index < 0 || index >= len(r.Locations) {
		return dataset.Region{}, errors.New(errors.ErrCodeInvalidIndex,
			"region %q: index %d out of range [0, %d)", region, index, len(r.Locations))
	}
	return r, nil
}

func (e *Engine) position(r dataset.Region, index int) Point {
	cfg := r.Layout
	c := cellOf(cfg, index)
	dx, dy := e.jitter.Offset(r.Name, c)
	return Point{
		X: Round1(cfg.OriginX + float64(c.Column)*cfg.GapX + dx),
		Y: Round1(cfg.OriginY + float64(c.Row)*cfg.GapY + dy),
	}
}

func cellOf(cfg dataset.LayoutConfig, index int) Cell {
	return Cell{Column: index % cfg.Columns, Row: index / cfg.Columns}
}

// Placement is a located point: the dataset location with its cell and
// rounded position.
type Placement struct {
	dataset.Location
	Cell
	Point
}

// Place lays out every location of the dataset in build order.
func (e *Engine) Place() []Placement {
	locs := e.ds.Locations()
	out := make([]Placement, 0, len(locs))
	var current dataset.Region
	for _, loc := range locs {
		if current.Name != loc.Region {
			current, _ = e.ds.Region(loc.Region)
		}
		out = append(out, Placement{
			Location: loc,
			Cell:     cellOf(current.Layout, loc.Index),
			Point:    e.position(current, loc.Index),
		})
	}
	return out
}

// Bounds returns the smallest rectangle containing every position. An empty
// dataset yields the zero Rect.
func (e *Engine) Bounds() Rect {
	placed := e.Place()
	if len(placed) == 0 {
		return Rect{}
	}
	b := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range placed {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// Round1 rounds v to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
