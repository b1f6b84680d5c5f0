package interact

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/observability"
	"github.com/matzehuels/pointmap/pkg/render"
)

// Controller owns the interaction state and the tooltip of one map instance.
// Several controllers can coexist; they share nothing.
type Controller struct {
	env     Env
	state   State
	tooltip TooltipSurface
	logger  *log.Logger
	byName  map[markerKey]int
}

type markerKey struct{ region, name string }

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithViewport sets the initial viewport.
func WithViewport(v Viewport) ControllerOption {
	return func(c *Controller) { c.env.Viewport = v }
}

// WithLogger attaches a logger for debug tracing of transitions.
func WithLogger(l *log.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// NewController returns a controller over markers, which must be indexed by
// their ID as returned by render.Build.
func NewController(markers []render.Marker, tooltip TooltipSurface, opts ...ControllerOption) *Controller {
	c := &Controller{
		env:     Env{Markers: markers},
		tooltip: tooltip,
		byName:  make(map[markerKey]int, len(markers)),
	}
	for _, m := range markers {
		c.byName[markerKey{m.RegionName, m.LocationName}] = m.ID
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle runs ev through Transition, applies the resulting commands and
// returns them. Hosts look for PreventDefault in the result to decide
// whether to suppress the key's default action.
func (c *Controller) Handle(ev Event) ([]Command, error) {
	prev := c.state
	next, cmds, err := Transition(c.env, c.state, ev)
	if err != nil {
		observability.Interaction().OnRejected(err)
		return nil, err
	}
	c.state = next
	c.apply(cmds)
	c.report(prev, next, ev)
	return cmds, nil
}

func (c *Controller) apply(cmds []Command) {
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case ShowTooltip:
			if c.tooltip != nil {
				c.tooltip.SetText(cmd.Text)
				c.tooltip.SetPosition(cmd.Pos.X, cmd.Pos.Y)
				c.tooltip.SetVisible(true)
			}
		case HideTooltip:
			if c.tooltip != nil {
				c.tooltip.SetVisible(false)
			}
		case SetActive:
			c.setActive(cmd.Marker, true)
		case ClearActive:
			c.setActive(cmd.Marker, false)
		}
	}
}

func (c *Controller) setActive(id int, active bool) {
	if a, ok := c.env.Markers[id].Handle.(render.Activatable); ok {
		a.SetActive(active)
	}
}

func (c *Controller) report(prev, next State, ev Event) {
	hooks := observability.Interaction()
	if prev.Engaged && (!next.Engaged || prev.Active != next.Active) {
		m := c.env.Markers[prev.Active]
		hooks.OnDisengage(m.RegionName, m.LocationName)
	}
	if next.Engaged && (!prev.Engaged || prev.Active != next.Active) {
		m := c.env.Markers[next.Active]
		hooks.OnEngage(m.RegionName, m.LocationName, sourceOf(ev))
	}
	if c.logger != nil {
		c.logger.Debug("interaction", "event", sourceOf(ev), "marker", ev.Target(),
			"engaged", next.Engaged, "tooltip", next.Tooltip.Text)
	}
}

func pointAt(x, y float64) layout.Point { return layout.Point{X: x, Y: y} }

func sourceOf(ev Event) string {
	switch ev.(type) {
	case PointerEngage, PointerLeave:
		return "pointer"
	default:
		return "keyboard"
	}
}

// PointerEnter handles a pointer entering marker id at client (x, y).
func (c *Controller) PointerEnter(id int, x, y float64) ([]Command, error) {
	return c.Handle(PointerEngage{Marker: id, Client: pointAt(x, y)})
}

// PointerMove handles the pointer moving over marker id.
func (c *Controller) PointerMove(id int, x, y float64) ([]Command, error) {
	return c.Handle(PointerEngage{Marker: id, Client: pointAt(x, y)})
}

// PointerLeave handles the pointer leaving marker id.
func (c *Controller) PointerLeave(id int) ([]Command, error) {
	return c.Handle(PointerLeave{Marker: id})
}

// Focus handles keyboard focus landing on marker id.
func (c *Controller) Focus(id int) ([]Command, error) {
	return c.Handle(KeyboardEngage{Marker: id})
}

// Blur handles keyboard focus leaving marker id.
func (c *Controller) Blur(id int) ([]Command, error) {
	return c.Handle(Blur{Marker: id})
}

// KeyDown handles a key press on marker id.
func (c *Controller) KeyDown(id int, key string) ([]Command, error) {
	return c.Handle(KeyDown{Marker: id, Key: key})
}

// SetViewport updates the map's bounding box, for example after a resize.
func (c *Controller) SetViewport(v Viewport) { c.env.Viewport = v }

// Viewport returns the current viewport.
func (c *Controller) Viewport() Viewport { return c.env.Viewport }

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// Tooltip returns the current tooltip.
func (c *Controller) Tooltip() Tooltip { return c.state.Tooltip }

// Active returns the engaged marker, if any.
func (c *Controller) Active() (render.Marker, bool) {
	if !c.state.Engaged {
		return render.Marker{}, false
	}
	return c.env.Markers[c.state.Active], true
}

// Markers returns the markers the controller manages.
func (c *Controller) Markers() []render.Marker { return c.env.Markers }

// Lookup finds a marker ID by region and location name.
func (c *Controller) Lookup(region, name string) (int, bool) {
	id, ok := c.byName[markerKey{region, name}]
	return id, ok
}

// Reset disengages any engaged marker, applying the commands, and returns
// them.
func (c *Controller) Reset() []Command {
	if !c.state.Engaged {
		return nil
	}
	cmds, _ := c.Handle(PointerLeave{Marker: c.state.Active})
	return cmds
}
