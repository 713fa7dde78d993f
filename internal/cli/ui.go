package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/outsider987/Patlytics-hotfix/pkg/cycle"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - cycles, errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleCycle for loop paths and back-edges.
	StyleCycle = lipgloss.NewStyle().Bold(true).Foreground(colorRed)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconCycle   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconCycle   = "↻"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printCycle(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconCycle.Render(iconCycle)+" "+StyleCycle.Render(fmt.Sprintf(format, args...)))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints graph size and cache status on a single line.
func printStats(w io.Writer, nodeCount, edgeCount int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", nodeCount),
		fmt.Sprintf("%d edges", edgeCount),
	}
	status, style := iconFresh, styleComputed
	if cached {
		status, style = iconCached, styleCached
	}

	line := "  " + StyleDim.Render(strings.Join(parts, " · "))
	line += StyleDim.Render(" · ") + style.Render(status)
	fmt.Fprintln(w, line)
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Domain Output
// =============================================================================

// printResult reports a detection outcome.
func printResult(w io.Writer, start string, res cycle.Result) {
	switch {
	case res.Error != "":
		printWarning(w, "%s", res.Error)
	case res.Found:
		printCycle(w, "Cycle reachable from %s: %s", start, formatPath(res.LoopPath))
		if res.CycleEdge != nil {
			printDetail(w, "back-edge %s", res.CycleEdge)
		}
	default:
		printSuccess(w, "No cycle reachable from %s", start)
	}
	if res.Handled {
		printDetail(w, "back-edges were skipped and the walk completed")
	}
}

// printSteps lists every step of a trace, one per line.
func printSteps(w io.Writer, tr cycle.Trace) {
	width := len(fmt.Sprint(tr.Len()))
	for _, st := range tr.Steps {
		fmt.Fprintf(w, "%*d  %-16s  %s\n", width, st.Index, st.Action, st.LocalizedMessage)
	}
}

func printEdges(w io.Writer, label string, edges []graph.Edge) {
	if len(edges) == 0 {
		printDetail(w, "%s: none", label)
		return
	}
	names := make([]string, len(edges))
	for i, e := range edges {
		names[i] = e.String()
	}
	printDetail(w, "%s: %s", label, strings.Join(names, ", "))
}

func formatPath(path []string) string {
	return strings.Join(path, " "+iconArrow+" ")
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
