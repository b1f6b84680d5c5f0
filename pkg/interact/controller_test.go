package interact

import (
	"testing"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/errors"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/observability"
	"github.com/matzehuels/pointmap/pkg/render"
)

func newTestController(t *testing.T, opts ...ControllerOption) (*Controller, *render.Recorder, *RecordingTooltip) {
	t.Helper()
	rec := render.NewRecorder()
	markers, err := render.Build(layout.NewEngine(dataset.Builtin()), rec)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	tip := &RecordingTooltip{}
	return NewController(markers, tip, opts...), rec, tip
}

func TestControllerPointerFlow(t *testing.T) {
	c, rec, tip := newTestController(t, WithViewport(Viewport{Left: 100, Top: 50}))

	if _, err := c.PointerEnter(0, 260, 180); err != nil {
		t.Fatal(err)
	}
	if !tip.Visible || tip.Text != "Balıkesir" || tip.Pos != (layout.Point{X: 160, Y: 130}) {
		t.Errorf("tooltip = %+v", tip.Tooltip)
	}
	if got := rec.Active(); len(got) != 1 || got[0] != 0 {
		t.Errorf("active primitives = %v, want [0]", got)
	}

	if _, err := c.PointerMove(0, 270, 185); err != nil {
		t.Fatal(err)
	}
	if tip.Pos != (layout.Point{X: 170, Y: 135}) {
		t.Errorf("tooltip did not follow pointer: %+v", tip.Pos)
	}

	if _, err := c.PointerLeave(0); err != nil {
		t.Fatal(err)
	}
	if tip.Visible {
		t.Error("tooltip still visible after leave")
	}
	if got := rec.Active(); len(got) != 0 {
		t.Errorf("active primitives after leave = %v", got)
	}
	if _, ok := c.Active(); ok {
		t.Error("Active() reports an engaged marker")
	}
}

func TestControllerSwitchMarkers(t *testing.T) {
	c, rec, tip := newTestController(t)

	a, _ := c.Lookup("Marmara", "Bursa")
	b, ok := c.Lookup("Karadeniz", "Rize")
	if !ok {
		t.Fatal("Lookup(Karadeniz, Rize) failed")
	}

	c.PointerEnter(a, 0, 0)
	c.PointerEnter(b, 0, 0)
	if got := rec.Active(); len(got) != 1 || got[0] != b {
		t.Errorf("active = %v, want [%d]", got, b)
	}
	if tip.Text != "Rize" {
		t.Errorf("tooltip text = %q", tip.Text)
	}

	c.PointerLeave(b)
	if tip.Visible || len(rec.Active()) != 0 {
		t.Errorf("after leaving B: visible=%v active=%v", tip.Visible, rec.Active())
	}
}

func TestControllerKeyboard(t *testing.T) {
	c, rec, tip := newTestController(t)
	id, _ := c.Lookup("Marmara", "Edirne")
	m := c.Markers()[id]

	if _, err := c.Focus(id); err != nil {
		t.Fatal(err)
	}
	if !tip.Visible || tip.Pos != m.Position {
		t.Errorf("focus tooltip = %+v, want at %+v", tip.Tooltip, m.Position)
	}
	if tip.Pos == (layout.Point{}) {
		t.Error("keyboard tooltip placed at origin")
	}

	c.Blur(id)
	if tip.Visible {
		t.Error("tooltip visible after blur")
	}

	cmds, err := c.KeyDown(id, " ")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmds[0].(PreventDefault); !ok {
		t.Errorf("first command = %v, want PreventDefault", cmds[0])
	}
	if got := rec.Active(); len(got) != 1 || got[0] != id {
		t.Errorf("active = %v", got)
	}

	cmds, _ = c.KeyDown(id, "x")
	if len(cmds) != 0 {
		t.Errorf("KeyDown(x) = %v", cmds)
	}
}

func TestControllerUnknownMarker(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetInteractionHooks(hooks)
	defer observability.Reset()

	c, _, tip := newTestController(t)
	_, err := c.PointerEnter(len(c.Markers()), 0, 0)
	if !errors.Is(err, errors.ErrCodeInvalidEvent) {
		t.Errorf("error = %v, want INVALID_EVENT", err)
	}
	if tip.Updates != 0 {
		t.Errorf("tooltip touched %d times", tip.Updates)
	}
	if hooks.rejected != 1 {
		t.Errorf("rejected = %d, want 1", hooks.rejected)
	}
}

func TestControllerHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetInteractionHooks(hooks)
	defer observability.Reset()

	c, _, _ := newTestController(t)
	c.Focus(0)
	c.PointerEnter(0, 1, 1)
	c.PointerEnter(1, 1, 1)
	c.Blur(0)
	c.PointerLeave(1)

	if hooks.engaged != 2 || hooks.disengaged != 2 {
		t.Errorf("engaged=%d disengaged=%d, want 2/2", hooks.engaged, hooks.disengaged)
	}
	if hooks.sources[0] != "keyboard" || hooks.sources[1] != "pointer" {
		t.Errorf("sources = %v", hooks.sources)
	}
}

func TestControllerReset(t *testing.T) {
	c, rec, tip := newTestController(t)
	if cmds := c.Reset(); cmds != nil {
		t.Errorf("Reset() on idle = %v", cmds)
	}
	c.Focus(5)
	c.Reset()
	if tip.Visible || len(rec.Active()) != 0 || c.State().Engaged {
		t.Error("Reset() left the map engaged")
	}
}

func TestControllersAreIndependent(t *testing.T) {
	c1, _, tip1 := newTestController(t)
	c2, _, tip2 := newTestController(t)

	c1.Focus(3)
	if c2.State().Engaged || tip2.Visible {
		t.Error("engaging one controller affected another")
	}
	if !tip1.Visible {
		t.Error("tooltip 1 hidden")
	}
}

type countingHooks struct {
	observability.NoopInteractionHooks
	engaged, disengaged, rejected int
	sources                       []string
}

func (h *countingHooks) OnEngage(_, _, source string) {
	h.engaged++
	h.sources = append(h.sources, source)
}

func (h *countingHooks) OnDisengage(_, _ string) { h.disengaged++ }
func (h *countingHooks) OnRejected(error)        { h.rejected++ }
