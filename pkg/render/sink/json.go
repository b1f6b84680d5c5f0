package sink

import (
	"encoding/json"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	viewBox *layout.Rect
	dense   bool
}

// WithJSONViewBox records the canvas area shown by the map. Without it the
// bounds of the markers grown by DefaultMargin are used.
func WithJSONViewBox(r layout.Rect) JSONOption {
	return func(j *jsonRenderer) { j.viewBox = &r }
}

// WithJSONDense includes the dense region settings in the output.
func WithJSONDense() JSONOption { return func(j *jsonRenderer) { j.dense = true } }

// Document is the JSON representation of a built map.
type Document struct {
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	ViewBox [4]float64     `json:"view_box"`
	Dense   *dataset.Dense `json:"dense,omitempty"`
	Regions []RegionInfo   `json:"regions"`
	Markers []MarkerInfo   `json:"markers"`
}

// RegionInfo describes one region and its grid parameters.
type RegionInfo struct {
	Name   string               `json:"name"`
	Count  int                  `json:"count"`
	Layout dataset.LayoutConfig `json:"layout"`
}

// MarkerInfo describes one marker.
type MarkerInfo struct {
	ID       int     `json:"id"`
	Location string  `json:"location"`
	Region   string  `json:"region"`
	Index    int     `json:"index"`
	Column   int     `json:"column"`
	Row      int     `json:"row"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
}

// NewDocument assembles the JSON representation of markers built from ds.
func NewDocument(ds *dataset.Dataset, markers []render.Marker, opts ...JSONOption) Document {
	j := jsonRenderer{}
	for _, opt := range opts {
		opt(&j)
	}

	vb := markerBounds(markers)
	if j.viewBox != nil {
		vb = *j.viewBox
	}

	doc := Document{
		Width:   vb.Width(),
		Height:  vb.Height(),
		ViewBox: [4]float64{vb.MinX, vb.MinY, vb.Width(), vb.Height()},
		Regions: make([]RegionInfo, 0, ds.RegionCount()),
		Markers: make([]MarkerInfo, len(markers)),
	}
	if d := ds.Dense(); j.dense && d.Region != "" {
		doc.Dense = &d
	}
	for _, r := range ds.Regions() {
		doc.Regions = append(doc.Regions, RegionInfo{Name: r.Name, Count: len(r.Locations), Layout: r.Layout})
	}
	for i, m := range markers {
		doc.Markers[i] = MarkerInfo{
			ID:       m.ID,
			Location: m.LocationName,
			Region:   m.RegionName,
			Index:    m.Index,
			Column:   m.Cell.Column,
			Row:      m.Cell.Row,
			X:        m.Position.X,
			Y:        m.Position.Y,
			Radius:   m.Radius,
		}
	}
	return doc
}

// RenderJSON renders markers built from ds as indented JSON.
func RenderJSON(ds *dataset.Dataset, markers []render.Marker, opts ...JSONOption) ([]byte, error) {
	return json.MarshalIndent(NewDocument(ds, markers, opts...), "", "  ")
}

// ParseJSON decodes a document written by RenderJSON.
func ParseJSON(data []byte) (Document, error) {
	var doc Document
	err := json.Unmarshal(data, &doc)
	return doc, err
}

// markerBounds matches the viewBox the SVG surface derives for the same
// markers.
func markerBounds(markers []render.Marker) layout.Rect {
	s := NewSVG()
	for _, m := range markers {
		p := s.CreatePoint()
		p.SetPosition(m.Position.X, m.Position.Y)
		p.SetRadius(m.Radius)
		s.Append(p)
	}
	return s.ViewBox()
}
