package interact

// TooltipSurface is the host element that displays the tooltip.
type TooltipSurface interface {
	SetText(text string)
	SetPosition(x, y float64)
	SetVisible(visible bool)
}

// RecordingTooltip is a TooltipSurface that keeps the last values it was
// given. The zero value is ready to use.
type RecordingTooltip struct {
	Tooltip
	// Updates counts calls to any setter.
	Updates int
}

func (t *RecordingTooltip) SetText(text string) {
	t.Text = text
	t.Updates++
}

func (t *RecordingTooltip) SetPosition(x, y float64) {
	t.Pos.X, t.Pos.Y = x, y
	t.Updates++
}

func (t *RecordingTooltip) SetVisible(visible bool) {
	t.Visible = visible
	t.Updates++
}
