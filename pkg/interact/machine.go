package interact

import (
	"github.com/matzehuels/pointmap/pkg/errors"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/render"
)

// MarkerState is the interaction state of one marker.
type MarkerState int

const (
	Idle MarkerState = iota
	Engaged
)

func (s MarkerState) String() string {
	if s == Engaged {
		return "engaged"
	}
	return "idle"
}

// Tooltip is the single shared tooltip of a map.
type Tooltip struct {
	Text    string       `json:"text"`
	Pos     layout.Point `json:"pos"`
	Visible bool         `json:"visible"`
}

// State is the interaction state of a whole map. The zero value has every
// marker idle and the tooltip hidden.
type State struct {
	// Engaged is true when Active names the engaged marker.
	Engaged bool    `json:"engaged"`
	Active  int     `json:"active"`
	Tooltip Tooltip `json:"tooltip"`
}

// MarkerState returns the state of marker id.
func (s State) MarkerState(id int) MarkerState {
	if s.Engaged && s.Active == id {
		return Engaged
	}
	return Idle
}

// Viewport is the map's bounding box in host pixels together with the canvas
// area it displays.
//
// Left and Top locate the box in client coordinates. Width and Height are its
// rendered size. ViewBox is the canvas rectangle shown in the box; when it or
// the rendered size is empty, canvas units map 1:1 onto pixels.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
	ViewBox       layout.Rect
}

// Local translates client coordinates into map-relative pixels.
func (v Viewport) Local(client layout.Point) layout.Point {
	return layout.Point{X: client.X - v.Left, Y: client.Y - v.Top}
}

// Project maps a canvas coordinate into map-relative pixels.
func (v Viewport) Project(canvas layout.Point) layout.Point {
	sx, sy := 1.0, 1.0
	if vw, vh := v.ViewBox.Width(), v.ViewBox.Height(); vw > 0 && vh > 0 && v.Width > 0 && v.Height > 0 {
		sx, sy = v.Width/vw, v.Height/vh
	}
	return layout.Point{
		X: layout.Round1((canvas.X - v.ViewBox.MinX) * sx),
		Y: layout.Round1((canvas.Y - v.ViewBox.MinY) * sy),
	}
}

// Env is the static context transitions run in.
type Env struct {
	// Markers indexed by Marker.ID.
	Markers  []render.Marker
	Viewport Viewport
}

func (env Env) marker(id int) (render.Marker, error) {
	if id < 0 || id >= len(env.Markers) {
		return render.Marker{}, errors.New(errors.ErrCodeInvalidEvent, "unknown marker %d", id)
	}
	return env.Markers[id], nil
}

// Transition applies ev to s and returns the next state with the commands a
// host must run, in order. Unknown marker IDs fail with INVALID_EVENT and
// leave s unchanged.
//
// A leave or blur aimed at a marker that is not engaged produces no commands:
// that marker is already idle and the tooltip belongs to another marker.
func Transition(env Env, s State, ev Event) (State, []Command, error) {
	m, err := env.marker(ev.Target())
	if err != nil {
		return s, nil, err
	}

	switch e := ev.(type) {
	case PointerEngage:
		next, cmds := engage(s, m, env.Viewport.Local(e.Client))
		return next, cmds, nil

	case KeyboardEngage:
		next, cmds := engage(s, m, env.Viewport.Project(m.Position))
		return next, cmds, nil

	case KeyDown:
		if !IsActivationKey(e.Key) {
			return s, nil, nil
		}
		next, cmds := engage(s, m, env.Viewport.Project(m.Position))
		return next, append([]Command{PreventDefault{}}, cmds...), nil

	case PointerLeave, Blur:
		next, cmds := disengage(s, m)
		return next, cmds, nil
	}
	return s, nil, errors.New(errors.ErrCodeInvalidEvent, "unsupported event %T", ev)
}

func engage(s State, m render.Marker, pos layout.Point) (State, []Command) {
	cmds := make([]Command, 0, 3)
	if s.Engaged && s.Active != m.ID {
		cmds = append(cmds, ClearActive{Marker: s.Active})
	}
	cmds = append(cmds, ShowTooltip{Text: m.LocationName, Pos: pos}, SetActive{Marker: m.ID})

	return State{
		Engaged: true,
		Active:  m.ID,
		Tooltip: Tooltip{Text: m.LocationName, Pos: pos, Visible: true},
	}, cmds
}

func disengage(s State, m render.Marker) (State, []Command) {
	if !s.Engaged || s.Active != m.ID {
		return s, nil
	}
	tip := s.Tooltip
	tip.Visible = false
	return State{Tooltip: tip}, []Command{HideTooltip{}, ClearActive{Marker: m.ID}}
}
