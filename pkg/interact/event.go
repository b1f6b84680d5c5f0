package interact

import "github.com/matzehuels/pointmap/pkg/layout"

// Event is an input delivered to a marker.
type Event interface {
	// Target returns the ID of the marker the event was delivered to.
	Target() int
	isEvent()
}

// PointerEngage is a pointer entering or moving over a marker. Client is the
// pointer position in host (client) pixels.
type PointerEngage struct {
	Marker int
	Client layout.Point
}

// PointerLeave is the pointer leaving a marker.
type PointerLeave struct {
	Marker int
}

// KeyboardEngage is keyboard focus landing on a marker. It carries no
// coordinates.
type KeyboardEngage struct {
	Marker int
}

// Blur is keyboard focus leaving a marker.
type Blur struct {
	Marker int
}

// KeyDown is a key press while a marker has focus.
type KeyDown struct {
	Marker int
	Key    string
}

func (e PointerEngage) Target() int  { return e.Marker }
func (e PointerLeave) Target() int   { return e.Marker }
func (e KeyboardEngage) Target() int { return e.Marker }
func (e Blur) Target() int           { return e.Marker }
func (e KeyDown) Target() int        { return e.Marker }

func (PointerEngage) isEvent()  {}
func (PointerLeave) isEvent()   {}
func (KeyboardEngage) isEvent() {}
func (Blur) isEvent()           {}
func (KeyDown) isEvent()        {}

// IsActivationKey reports whether key engages a focused marker. Both the
// DOM spellings (" ", "Spacebar") and the readable "Space" are accepted.
func IsActivationKey(key string) bool {
	switch key {
	case "Enter", " ", "Space", "Spacebar":
		return true
	}
	return false
}
