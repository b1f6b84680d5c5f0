// Package interact implements the tooltip interaction over map markers.
//
// Each marker is either Idle or Engaged. Pointer hover, pointer movement,
// keyboard focus and the Enter/Space keys engage a marker; pointer leave and
// blur disengage it. There is one tooltip per map, so at most one marker is
// engaged at any time. Engaging a new marker disengages the previous one.
//
// The rules live in [Transition], a pure function from a [State] and an
// [Event] to the next State and a list of [Command] values. Commands are data
// ([ShowTooltip], [HideTooltip], [SetActive], [ClearActive],
// [PreventDefault]); a [Controller] applies them to a [TooltipSurface] and to
// the marker primitives. Tests can drive Transition directly without any
// surface.
//
// Pointer and keyboard engagement are different events. [PointerEngage]
// carries client coordinates; [KeyboardEngage] carries none, and the tooltip
// is placed by projecting the marker's canvas position through the map's
// [Viewport].
//
// Nothing in this package blocks, spawns goroutines or uses timers. A
// Controller is not safe for concurrent use.
package interact
