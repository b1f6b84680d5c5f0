package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pointmap/pkg/interact"
	"github.com/matzehuels/pointmap/pkg/pointmap"
	"github.com/matzehuels/pointmap/pkg/render"
)

// Explore styles
var (
	exploreRegionStyle = lipgloss.NewStyle().Foreground(colorGray).Width(20)
	exploreActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	exploreMarkerStyle = lipgloss.NewStyle().Foreground(colorCyan)
	exploreLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	exploreDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

const exploreLogSize = 6

// =============================================================================
// ExploreModel - keyboard walk through a mounted map
// =============================================================================

// ExploreModel is the bubbletea model of the explore command. Tab and
// Shift+Tab move focus between markers the way a browser does (blur, then
// focus), Enter and Space send the activation keys, Esc blurs.
type ExploreModel struct {
	Map     *pointmap.Map
	Tooltip *interact.RecordingTooltip
	Surface *render.Recorder

	// Focus is the focused marker ID, or -1.
	Focus int
	// Log holds the most recent commands, oldest first.
	Log []string

	groups []markerGroup
}

type markerGroup struct {
	region string
	ids    []int
}

// NewExploreModel creates a model over a map mounted on surface and tooltip.
func NewExploreModel(m *pointmap.Map, tooltip *interact.RecordingTooltip, surface *render.Recorder) ExploreModel {
	var groups []markerGroup
	for _, mk := range m.Markers {
		if n := len(groups); n == 0 || groups[n-1].region != mk.RegionName {
			groups = append(groups, markerGroup{region: mk.RegionName})
		}
		g := &groups[len(groups)-1]
		g.ids = append(g.ids, mk.ID)
	}
	return ExploreModel{
		Map:     m,
		Tooltip: tooltip,
		Surface: surface,
		Focus:   -1,
		groups:  groups,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m = m.moveTo(m.step(1))
		case "shift+tab", "left", "h":
			m = m.moveTo(m.step(-1))
		case "down", "j":
			m = m.moveTo(m.regionStep(1))
		case "up", "k":
			m = m.moveTo(m.regionStep(-1))
		case "enter":
			m = m.key("Enter")
		case " ":
			m = m.key(" ")
		case "esc":
			m = m.blur()
		}
	}
	return m, nil
}

func (m ExploreModel) step(delta int) int {
	n := len(m.Map.Markers)
	if n == 0 {
		return -1
	}
	if m.Focus < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return ((m.Focus+delta)%n + n) % n
}

// regionStep returns the first marker of the region delta groups away.
func (m ExploreModel) regionStep(delta int) int {
	n := len(m.groups)
	if n == 0 {
		return -1
	}
	cur := -1
	if m.Focus >= 0 {
		region := m.Map.Markers[m.Focus].RegionName
		for i, g := range m.groups {
			if g.region == region {
				cur = i
				break
			}
		}
	}
	var next int
	switch {
	case cur < 0 && delta > 0:
		next = 0
	case cur < 0:
		next = n - 1
	default:
		next = ((cur+delta)%n + n) % n
	}
	return m.groups[next].ids[0]
}

func (m ExploreModel) moveTo(id int) ExploreModel {
	if id < 0 || id == m.Focus {
		return m
	}
	m = m.blur()
	cmds, err := m.Map.Controller.Focus(id)
	m = m.record(cmds, err)
	m.Focus = id
	return m
}

func (m ExploreModel) blur() ExploreModel {
	if m.Focus < 0 {
		return m
	}
	cmds, err := m.Map.Controller.Blur(m.Focus)
	m.Focus = -1
	return m.record(cmds, err)
}

func (m ExploreModel) key(k string) ExploreModel {
	if m.Focus < 0 {
		return m
	}
	cmds, err := m.Map.Controller.KeyDown(m.Focus, k)
	return m.record(cmds, err)
}

func (m ExploreModel) record(cmds []interact.Command, err error) ExploreModel {
	log := append([]string(nil), m.Log...)
	if err != nil {
		log = append(log, "error: "+err.Error())
	}
	for _, c := range cmds {
		log = append(log, c.String())
	}
	if len(log) > exploreLogSize {
		log = log[len(log)-exploreLogSize:]
	}
	m.Log = log
	return m
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Point Map"))
	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render("tab/shift+tab marker  ↑/↓ region  ⏎/space activate  esc blur  q quit"))
	b.WriteString("\n\n")

	points := m.Surface.Points()
	for _, g := range m.groups {
		b.WriteString(exploreRegionStyle.Render(g.region))
		for _, id := range g.ids {
			switch {
			case id < len(points) && points[id].Active:
				b.WriteString(exploreActiveStyle.Render("◉"))
			case id == m.Focus:
				b.WriteString(exploreMarkerStyle.Render("○"))
			default:
				b.WriteString(exploreMarkerStyle.Render("•"))
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	tip := m.Tooltip.Tooltip
	b.WriteString(exploreLabelStyle.Render("Tooltip"))
	if tip.Visible {
		b.WriteString(StyleValue.Render(tip.Text))
		b.WriteString(exploreDimStyle.Render(fmt.Sprintf(" @ (%.1f, %.1f)", tip.Pos.X, tip.Pos.Y)))
	} else {
		b.WriteString(exploreDimStyle.Render("hidden"))
	}
	b.WriteString("\n")

	b.WriteString(exploreLabelStyle.Render("Focus"))
	if m.Focus >= 0 {
		mk := m.Map.Markers[m.Focus]
		b.WriteString(StyleHighlight.Render(mk.RegionName + " / " + mk.LocationName))
		b.WriteString(exploreDimStyle.Render(fmt.Sprintf("  col %d, row %d, canvas (%.1f, %.1f)",
			mk.Cell.Column, mk.Cell.Row, mk.Position.X, mk.Position.Y)))
	} else {
		b.WriteString(exploreDimStyle.Render("none"))
	}
	b.WriteString("\n\n")

	for _, line := range m.Log {
		b.WriteString(exploreDimStyle.Render("  " + line))
		b.WriteString("\n")
	}
	return b.String()
}
