package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/outsider987/Patlytics-hotfix/pkg/cycle"
)

var (
	viewerActionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewerLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	viewerBarStyle    = lipgloss.NewStyle().Foreground(colorCyan)
)

const viewerBarWidth = 40

// stepViewer is the bubbletea model for stepping through a trace. Any step
// can be reached directly: arrows move by one, g/G jump to the ends, c jumps
// to the next cycle event and ":" seeks to an index.
type stepViewer struct {
	trace   cycle.Trace
	index   int
	english bool

	seeking bool
	seek    string
}

func newStepViewer(tr cycle.Trace) stepViewer {
	return stepViewer{trace: tr}
}

// runViewer opens the viewer on the terminal until the user quits or ctx ends.
func runViewer(ctx context.Context, tr cycle.Trace) error {
	p := tea.NewProgram(newStepViewer(tr), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("step viewer: %w", err)
	}
	return nil
}

func (m stepViewer) Init() tea.Cmd {
	return nil
}

func (m stepViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.seeking {
		return m.updateSeek(key), nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", "n", " ":
		m.goTo(m.index + 1)
	case "left", "h", "p":
		m.goTo(m.index - 1)
	case "home", "g":
		m.goTo(0)
	case "end", "G":
		m.goTo(m.trace.Len() - 1)
	case "c":
		m.goTo(m.nextCycleEvent())
	case "e":
		m.english = !m.english
	case ":":
		m.seeking, m.seek = true, ""
	}
	return m, nil
}

func (m stepViewer) updateSeek(key tea.KeyMsg) stepViewer {
	switch key.Type {
	case tea.KeyEnter:
		if i, err := strconv.Atoi(m.seek); err == nil {
			m.goTo(i)
		}
		m.seeking = false
	case tea.KeyEsc, tea.KeyCtrlC:
		m.seeking = false
	case tea.KeyBackspace:
		if m.seek != "" {
			m.seek = m.seek[:len(m.seek)-1]
		}
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if r >= '0' && r <= '9' {
				m.seek += string(r)
			}
		}
	}
	return m
}

// goTo moves to step i, clamped to the trace.
func (m *stepViewer) goTo(i int) {
	m.index = max(0, min(i, m.trace.Len()-1))
}

// nextCycleEvent returns the index of the next CYCLE_FOUND or SKIP_CYCLE
// step after the current one, wrapping around, or the current index if
// there is none.
func (m stepViewer) nextCycleEvent() int {
	n := m.trace.Len()
	for k := 1; k <= n; k++ {
		i := (m.index + k) % n
		switch m.trace.Steps[i].Action {
		case cycle.ActionCycleFound, cycle.ActionSkipCycle:
			return i
		}
	}
	return m.index
}

func (m stepViewer) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Trace " + shortID(m.trace.ID)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  start %s · policy %s · %s", m.trace.Start, m.trace.Policy, m.trace.Locale)))
	b.WriteString("\n\n")

	st, ok := m.trace.At(m.index)
	if !ok {
		b.WriteString(StyleDim.Render("no steps recorded"))
		b.WriteString("\n\n")
		b.WriteString(StyleDim.Render("q quit"))
		return b.String()
	}

	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render(fmt.Sprintf("Step %d/%d", st.Index, m.trace.Len()-1)), actionStyle(st.Action).Render(string(st.Action)))
	b.WriteString(StyleValue.Render(st.LocalizedMessage))
	b.WriteString("\n")
	if m.english && st.Message != st.LocalizedMessage {
		b.WriteString(StyleDim.Render(st.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(stateTable(st).Render())
	b.WriteString("\n\n")
	b.WriteString(progressBar(m.index, m.trace.Len()))
	b.WriteString("\n")

	if m.seeking {
		b.WriteString(StyleWarning.Render("go to step: " + m.seek + "_"))
	} else {
		b.WriteString(StyleDim.Render("←/→ step  g/G first/last  c next cycle  : seek  e english  q quit"))
	}
	return b.String()
}

func stateTable(st cycle.Step) *table.Table {
	rows := [][]string{
		{"path", orDash(formatPath(st.PathStack))},
		{"on path", orDash(strings.Join(st.OnPath, ", "))},
		{"visited", orDash(strings.Join(st.Visited, ", "))},
	}
	if st.Neighbor != "" {
		rows = append(rows, []string{"neighbor", st.Neighbor})
	}
	if st.BackEdge != nil {
		rows = append(rows, []string{"back-edge", st.BackEdge.String()})
	}
	if len(st.LoopPath) > 0 {
		rows = append(rows, []string{"loop", formatPath(st.LoopPath)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return s.Inherit(viewerLabelStyle)
			}
			if row >= 0 && row < len(rows) && (rows[row][0] == "back-edge" || rows[row][0] == "loop") {
				return s.Inherit(StyleCycle)
			}
			return s.Foreground(colorWhite)
		})
}

func actionStyle(a cycle.Action) lipgloss.Style {
	switch a {
	case cycle.ActionCycleFound, cycle.ActionSkipCycle:
		return StyleCycle
	case cycle.ActionComplete, cycle.ActionMarkSafe:
		return viewerActionStyle.Foreground(colorGreen)
	}
	return viewerActionStyle
}

func progressBar(index, total int) string {
	if total <= 1 {
		return viewerBarStyle.Render(strings.Repeat("━", viewerBarWidth))
	}
	filled := (index * viewerBarWidth) / (total - 1)
	return viewerBarStyle.Render(strings.Repeat("━", filled)) + StyleDim.Render(strings.Repeat("─", viewerBarWidth-filled))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
