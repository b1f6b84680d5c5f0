package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/pipeline"
)

func newTestExplore(t *testing.T) ExploreModel {
	t.Helper()
	m, err := newExploreModel(context.Background(), dataset.Builtin(), pipeline.Options{})
	if err != nil {
		t.Fatalf("newExploreModel: %v", err)
	}
	return m
}

func press(t *testing.T, m ExploreModel, keys ...tea.KeyMsg) ExploreModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(ExploreModel)
	}
	return m
}

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyUp       = tea.KeyMsg{Type: tea.KeyUp}
)

func TestExploreTabFocusesFirstMarker(t *testing.T) {
	m := press(t, newTestExplore(t), keyTab)

	if m.Focus != 0 {
		t.Fatalf("Focus = %d, want 0", m.Focus)
	}
	tip := m.Tooltip.Tooltip
	if !tip.Visible || tip.Text != "Balıkesir" {
		t.Errorf("tooltip = %+v, want visible Balıkesir", tip)
	}
	if tip.Pos.X != 150 || tip.Pos.Y != 120 {
		t.Errorf("tooltip pos = %+v, want (150, 120)", tip.Pos)
	}
	if active := m.Surface.Active(); len(active) != 1 || active[0] != 0 {
		t.Errorf("active markers = %v, want [0]", active)
	}
}

func TestExploreShiftTabWraps(t *testing.T) {
	m := press(t, newTestExplore(t), keyShiftTab)
	if m.Focus != 80 {
		t.Errorf("Focus = %d, want 80", m.Focus)
	}

	m = press(t, m, keyTab)
	if m.Focus != 0 {
		t.Errorf("Focus after tab from last = %d, want 0", m.Focus)
	}
}

func TestExploreMoveBlursPrevious(t *testing.T) {
	m := press(t, newTestExplore(t), keyTab, keyTab)

	if m.Focus != 1 {
		t.Fatalf("Focus = %d, want 1", m.Focus)
	}
	if active := m.Surface.Active(); len(active) != 1 || active[0] != 1 {
		t.Errorf("active markers = %v, want [1]", active)
	}
	if m.Tooltip.Text != "Bilecik" {
		t.Errorf("tooltip text = %q, want Bilecik", m.Tooltip.Text)
	}
}

func TestExploreRegionStep(t *testing.T) {
	m := press(t, newTestExplore(t), keyDown)
	if m.Focus != 0 {
		t.Fatalf("first region step Focus = %d, want 0", m.Focus)
	}

	m = press(t, m, keyDown)
	if got := m.Map.Markers[m.Focus]; got.RegionName != "Ege" || got.LocationName != "Afyonkarahisar" {
		t.Errorf("focused %s / %s, want Ege / Afyonkarahisar", got.RegionName, got.LocationName)
	}

	m = press(t, m, keyUp, keyUp)
	if got := m.Map.Markers[m.Focus].RegionName; got != "Güneydoğu Anadolu" {
		t.Errorf("region after wrapping up = %q, want Güneydoğu Anadolu", got)
	}
}

func TestExploreEnterPreventsDefault(t *testing.T) {
	m := press(t, newTestExplore(t), keyTab, keyEnter)

	if len(m.Log) == 0 || m.Log[len(m.Log)-1] != "activate(0)" {
		t.Fatalf("log = %v, want to end with activate(0)", m.Log)
	}
	found := false
	for _, line := range m.Log {
		if line == "prevent-default" {
			found = true
		}
	}
	if !found {
		t.Errorf("log = %v, want prevent-default", m.Log)
	}
}

func TestExploreEscBlurs(t *testing.T) {
	m := press(t, newTestExplore(t), keyTab, keyEsc)

	if m.Focus != -1 {
		t.Errorf("Focus = %d, want -1", m.Focus)
	}
	if m.Tooltip.Visible {
		t.Error("tooltip visible after esc")
	}
	if active := m.Surface.Active(); len(active) != 0 {
		t.Errorf("active markers = %v, want none", active)
	}
}

func TestExploreKeysWithoutFocus(t *testing.T) {
	m := press(t, newTestExplore(t), keyEnter, keyEsc)
	if m.Focus != -1 || len(m.Log) != 0 {
		t.Errorf("Focus = %d, log = %v, want no effect", m.Focus, m.Log)
	}
}

func TestExploreLogIsBounded(t *testing.T) {
	m := newTestExplore(t)
	for i := 0; i < 10; i++ {
		m = press(t, m, keyTab)
	}
	if len(m.Log) != exploreLogSize {
		t.Errorf("log size = %d, want %d", len(m.Log), exploreLogSize)
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplore(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestExploreView(t *testing.T) {
	m := press(t, newTestExplore(t), keyTab)
	view := m.View()

	for _, want := range []string{"Marmara", "Karadeniz", "Balıkesir", "activate(0)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
