package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outsider987/Patlytics-hotfix/pkg/cycle"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

func viewerTrace(t *testing.T, policy cycle.Policy) cycle.Trace {
	t.Helper()
	g, err := graph.FromMap(map[string][]string{
		"1": {"2", "7"},
		"2": {"3", "4"},
		"3": {"2", "1"},
	})
	require.NoError(t, err)
	tr, err := cycle.DetectWithTrace(g, "1", cycle.WithPolicy(policy))
	require.NoError(t, err)
	return tr
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestViewerStepsAndClamps(t *testing.T) {
	tr := viewerTrace(t, cycle.PolicyStop)
	m := press(newStepViewer(tr), "left")
	assert.Equal(t, 0, m.(stepViewer).index)

	m = press(m, "right", "l", "n")
	assert.Equal(t, 3, m.(stepViewer).index)

	m = press(m, "G")
	assert.Equal(t, tr.Len()-1, m.(stepViewer).index)
	m = press(m, "right")
	assert.Equal(t, tr.Len()-1, m.(stepViewer).index)

	m = press(m, "g")
	assert.Equal(t, 0, m.(stepViewer).index)
}

func TestViewerSeek(t *testing.T) {
	tr := viewerTrace(t, cycle.PolicyStop)

	m := press(newStepViewer(tr), ":", "5", "enter")
	assert.Equal(t, 5, m.(stepViewer).index)
	assert.False(t, m.(stepViewer).seeking)

	m = press(m, ":", "9", "9", "9", "enter")
	assert.Equal(t, tr.Len()-1, m.(stepViewer).index)

	m = press(m, ":", "1", "esc")
	assert.Equal(t, tr.Len()-1, m.(stepViewer).index, "esc cancels the seek")
}

func TestViewerJumpsToCycleEvents(t *testing.T) {
	tr := viewerTrace(t, cycle.PolicySkip)

	m := press(newStepViewer(tr), "c")
	first := m.(stepViewer).index
	assert.Equal(t, cycle.ActionCycleFound, tr.Steps[first].Action)

	m = press(m, "c")
	assert.Equal(t, cycle.ActionSkipCycle, tr.Steps[m.(stepViewer).index].Action)
}

func TestViewerView(t *testing.T) {
	tr := viewerTrace(t, cycle.PolicyStop)
	m := press(newStepViewer(tr), "G")

	view := m.View()
	assert.Contains(t, view, "CYCLE_FOUND")
	assert.Contains(t, view, "back-edge")
	assert.Contains(t, view, "3->2")
	assert.Contains(t, view, "Trace "+tr.ID[:8])

	m = press(m, "e")
	assert.Contains(t, m.View(), "is already on the current path")

	m = press(m, ":", "4")
	assert.Contains(t, m.View(), "go to step: 4_")
}

func TestViewerQuits(t *testing.T) {
	_, cmd := newStepViewer(viewerTrace(t, cycle.PolicyStop)).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewerEmptyTrace(t *testing.T) {
	m := press(newStepViewer(cycle.Trace{}), "right", "c", "G")
	assert.Contains(t, m.View(), "no steps recorded")
}
