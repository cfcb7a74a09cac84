package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dijkstraviz/pkg/render"
)

// =============================================================================
// Palette
// =============================================================================

// Terminal colors are taken from the frame palette: green marks the source
// and success, red the target and failure, amber the shortest path and
// warnings.
var (
	colorSource   = lipgloss.Color(render.NodeSource.Color())
	colorTarget   = lipgloss.Color(render.NodeTarget.Color())
	colorSettled  = lipgloss.Color(render.NodeSettled.Color())
	colorAccepted = lipgloss.Color(render.EdgeAccepted.Color())
	colorPath     = lipgloss.Color(render.EdgePath.Color())
	colorMuted    = lipgloss.Color(render.EdgeSettled.Color())
	colorValue    = lipgloss.Color(render.Foreground)
)

var (
	styleHighlight = lipgloss.NewStyle().Foreground(colorAccepted)
	styleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	styleValue     = lipgloss.NewStyle().Foreground(colorValue)
	styleWarning   = lipgloss.NewStyle().Foreground(colorPath)
	styleKey       = lipgloss.NewStyle().Foreground(colorMuted).Width(10)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorSource)
	styleIconError   = lipgloss.NewStyle().Foreground(colorTarget)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorSettled)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccepted)
	styleCached      = lipgloss.NewStyle().Foreground(colorSource)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// out is where the print helpers write. Tests swap it for a buffer.
var out io.Writer = os.Stdout

// =============================================================================
// Status lines
// =============================================================================

func printLine(icon string, style lipgloss.Style, msg string) {
	fmt.Fprintln(out, style.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printLine(iconSuccess, styleIconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(iconError, styleIconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(iconWarning, styleWarning, styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(iconInfo, styleIconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// =============================================================================
// Graph and run output
// =============================================================================

// printFile prints the path of a written file.
func printFile(path string) {
	fmt.Fprintln(out, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printStats prints "N nodes · M edges · avg degree D · cached|fresh".
func printStats(nodes, edges int, cached bool) {
	parts := []string{fmt.Sprintf("%d nodes", nodes), fmt.Sprintf("%d edges", edges)}
	if nodes > 0 {
		parts = append(parts, fmt.Sprintf("avg degree %.1f", 2*float64(edges)/float64(nodes)))
	}
	for i, p := range parts {
		parts[i] = styleDim.Render(p)
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleDim.Render(iconFresh))
	}
	fmt.Fprintln(out, "  "+strings.Join(parts, styleDim.Render(" · ")))
}

// printPath prints a shortest path with its endpoints in the source and
// target colors.
func printPath(path []int) {
	text := formatPath(path)
	if len(path) > 1 {
		first, last := fmt.Sprint(path[0]), fmt.Sprint(path[len(path)-1])
		mid := strings.TrimSuffix(strings.TrimPrefix(text, first), last)
		text = lipgloss.NewStyle().Foreground(colorSource).Render(first) +
			styleValue.Render(mid) +
			lipgloss.NewStyle().Foreground(colorTarget).Render(last)
	}
	fmt.Fprintln(out, styleKey.Render("Path")+" "+text)
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, styleDim.Render(description+":")+" "+styleHighlight.Render(cmd))
}
