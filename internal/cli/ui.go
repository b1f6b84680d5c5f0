package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight for the focused region and location.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber for counts and coordinates.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(18)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printLine(icon, format string, args ...any) {
	fmt.Fprintln(stdout, icon+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess.Render(iconSuccess), format, args...)
}

func printError(format string, args ...any) {
	printLine(styleIconError.Render(iconError), format, args...)
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo.Render(iconInfo), format, args...)
}

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "N regions · M markers · cached|fresh". Zero counts are
// left out.
func printStats(regionCount, markerCount int, cached bool) {
	var parts []string
	if regionCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d regions", regionCount)))
	}
	if markerCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d markers", markerCount)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command after a blank line.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
