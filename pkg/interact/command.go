package interact

import (
	"fmt"

	"github.com/matzehuels/pointmap/pkg/layout"
)

// Command is a side effect requested by Transition.
type Command interface {
	fmt.Stringer
	isCommand()
}

// ShowTooltip sets the tooltip text and map-relative pixel position and makes
// it visible.
type ShowTooltip struct {
	Text string
	Pos  layout.Point
}

// HideTooltip hides the tooltip. Text and position are left as they were.
type HideTooltip struct{}

// SetActive gives a marker its active visual state.
type SetActive struct {
	Marker int
}

// ClearActive removes a marker's active visual state.
type ClearActive struct {
	Marker int
}

// PreventDefault asks the host to suppress the default action of the key
// that produced the event.
type PreventDefault struct{}

func (c ShowTooltip) String() string {
	return fmt.Sprintf("show(%q @ %.1f,%.1f)", c.Text, c.Pos.X, c.Pos.Y)
}
func (HideTooltip) String() string    { return "hide" }
func (c SetActive) String() string    { return fmt.Sprintf("activate(%d)", c.Marker) }
func (c ClearActive) String() string  { return fmt.Sprintf("deactivate(%d)", c.Marker) }
func (PreventDefault) String() string { return "prevent-default" }

func (ShowTooltip) isCommand()    {}
func (HideTooltip) isCommand()    {}
func (SetActive) isCommand()      {}
func (ClearActive) isCommand()    {}
func (PreventDefault) isCommand() {}
