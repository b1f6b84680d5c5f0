package render

import "maps"

// RecordedPoint is a point primitive as captured by a Recorder.
type RecordedPoint struct {
	X, Y      float64
	Radius    float64
	Tags      map[string]string
	Classes   []string
	Focusable bool
	Active    bool
}

func (p *RecordedPoint) SetPosition(x, y float64) { p.X, p.Y = x, y }
func (p *RecordedPoint) SetRadius(r float64)      { p.Radius = r }
func (p *RecordedPoint) AddClass(class string)    { p.Classes = append(p.Classes, class) }
func (p *RecordedPoint) SetFocusable(f bool)      { p.Focusable = f }
func (p *RecordedPoint) SetActive(a bool)         { p.Active = a }

func (p *RecordedPoint) Tag(key, value string) {
	if p.Tags == nil {
		p.Tags = make(map[string]string)
	}
	p.Tags[key] = value
}

// Recorder is an in-memory Surface. It counts created primitives separately
// from appended ones so callers can tell whether anything was attached.
type Recorder struct {
	created int
	points  []*RecordedPoint
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// CreatePoint implements Surface.
func (r *Recorder) CreatePoint() Primitive {
	r.created++
	return &RecordedPoint{}
}

// Append implements Surface. Primitives from other surfaces are ignored.
func (r *Recorder) Append(p Primitive) {
	if rp, ok := p.(*RecordedPoint); ok {
		r.points = append(r.points, rp)
	}
}

// Created returns how many primitives were created.
func (r *Recorder) Created() int { return r.created }

// Active returns the indexes of appended primitives currently marked active.
func (r *Recorder) Active() []int {
	var out []int
	for i, p := range r.points {
		if p.Active {
			out = append(out, i)
		}
	}
	return out
}

// Points returns copies of the appended primitives in append order.
func (r *Recorder) Points() []RecordedPoint {
	out := make([]RecordedPoint, len(r.points))
	for i, p := range r.points {
		out[i] = *p
		out[i].Tags = maps.Clone(p.Tags)
	}
	return out
}
