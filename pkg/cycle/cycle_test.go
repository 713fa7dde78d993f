package cycle

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

func mustGraph(t *testing.T, m map[string][]string) *graph.Graph {
	t.Helper()
	g, err := graph.FromMap(m)
	require.NoError(t, err)
	return g
}

var (
	citeLoop  = map[string][]string{"1": {"2", "7"}, "2": {"3", "4"}, "3": {"2", "1"}}
	selfCite  = map[string][]string{"1": {"1", "2"}, "2": {"3"}, "3": {}}
	diamond   = map[string][]string{"1": {"2", "3"}, "2": {"4"}, "3": {"4"}, "4": {}}
	longRing  = map[string][]string{"1": {"2"}, "2": {"3"}, "3": {"4"}, "4": {"1"}}
	twoCycles = map[string][]string{"a": {"b", "c"}, "b": {"a"}, "c": {"d"}, "d": {"c", "b"}}
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		graph     map[string][]string
		start     string
		wantFound bool
		wantLoop  []string
		wantEdge  *graph.Edge
	}{
		{"citation loop", citeLoop, "1", true, []string{"2", "3", "2"}, &graph.Edge{From: "3", To: "2"}},
		{"self citation", selfCite, "1", true, []string{"1", "1"}, &graph.Edge{From: "1", To: "1"}},
		{"diamond", diamond, "1", false, nil, nil},
		{"long ring", longRing, "1", true, []string{"1", "2", "3", "4", "1"}, &graph.Edge{From: "4", To: "1"}},
		{"cycle below start", longRing, "3", true, []string{"3", "4", "1", "2", "3"}, &graph.Edge{From: "2", To: "3"}},
		{"dangling leaf", map[string][]string{"1": {"x", "y"}}, "1", false, nil, nil},
		{"unreachable cycle", map[string][]string{"1": {"2"}, "2": {}, "8": {"9"}, "9": {"8"}}, "1", false, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Detect(mustGraph(t, tt.graph), tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, res.Found)
			assert.Equal(t, tt.wantLoop, res.LoopPath)
			assert.Equal(t, tt.wantEdge, res.CycleEdge)
			assert.False(t, res.Handled)
			assert.Empty(t, res.Error)
		})
	}
}

func TestDetectMissingStart(t *testing.T) {
	for _, m := range []map[string][]string{citeLoop, selfCite, diamond, longRing} {
		res, err := Detect(mustGraph(t, m), "99")
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrCodeNodeNotFound))
		assert.True(t, errors.Is(err, ErrNodeNotFound))
		assert.False(t, res.Found)
		assert.Contains(t, res.Error, "99")
	}

	// Referenced but never declared.
	res, err := Detect(mustGraph(t, citeLoop), "7")
	assert.Error(t, err)
	assert.False(t, res.Found)
}

func TestDetectNilGraph(t *testing.T) {
	_, err := Detect(nil, "1")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidGraph))
}

func TestDetectDoesNotMutate(t *testing.T) {
	g := mustGraph(t, citeLoop)
	before := g.ToMap()
	_, _ = Detect(g, "1")
	_, _ = DetectWithTrace(g, "1", WithPolicy(PolicySkip))
	assert.Equal(t, before, g.ToMap())
}

func TestLoopPathProperties(t *testing.T) {
	for name, m := range map[string]map[string][]string{
		"citeLoop": citeLoop, "selfCite": selfCite, "longRing": longRing, "twoCycles": twoCycles,
	} {
		g := mustGraph(t, m)
		for _, start := range g.Nodes() {
			res, err := Detect(g, start)
			require.NoError(t, err)
			if !res.Found {
				continue
			}
			loop := res.LoopPath
			require.GreaterOrEqual(t, len(loop), 2, "%s from %s", name, start)
			assert.Equal(t, loop[0], loop[len(loop)-1], "%s from %s: loop not closed", name, start)
			for i := 0; i+1 < len(loop); i++ {
				assert.True(t, g.HasEdge(loop[i], loop[i+1]), "%s from %s: missing edge %s->%s", name, start, loop[i], loop[i+1])
			}
			assert.Equal(t, res.CycleEdge.To, loop[0])
			assert.Equal(t, res.CycleEdge.From, loop[len(loop)-2])
		}
	}
}

func TestTraceMatchesDetect(t *testing.T) {
	for _, m := range []map[string][]string{citeLoop, selfCite, diamond, longRing, twoCycles} {
		g := mustGraph(t, m)
		for _, start := range g.Nodes() {
			want, err := Detect(g, start)
			require.NoError(t, err)
			tr, err := DetectWithTrace(g, start)
			require.NoError(t, err)
			assert.Equal(t, want, tr.Result)
		}
	}
}

func TestTraceStopPolicy(t *testing.T) {
	tr, err := DetectWithTrace(mustGraph(t, citeLoop), "1", WithLocale(language.English))
	require.NoError(t, err)

	require.NotEmpty(t, tr.ID)
	assert.Equal(t, PolicyStop, tr.Policy)

	first, _ := tr.At(0)
	assert.Equal(t, ActionStart, first.Action)

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, ActionCycleFound, last.Action)
	assert.Equal(t, "2", last.CycleNode)
	assert.Equal(t, &graph.Edge{From: "3", To: "2"}, last.BackEdge)
	assert.Equal(t, []string{"2", "3", "2"}, last.LoopPath)
	assert.Equal(t, []string{"1", "2", "3"}, last.PathStack)

	for _, s := range tr.Steps {
		assert.NotEqual(t, ActionComplete, s.Action)
	}
}

func TestTraceCleanGraphCompletes(t *testing.T) {
	tr, err := DetectWithTrace(mustGraph(t, diamond), "1")
	require.NoError(t, err)

	assert.False(t, tr.Result.Found)
	last, _ := tr.Last()
	assert.Equal(t, ActionComplete, last.Action)
	assert.Empty(t, last.PathStack)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, last.Visited)

	// 4 is reached twice; the second visit short-circuits.
	var skips []string
	for _, s := range tr.Steps {
		if s.Action == ActionSkipVisited {
			skips = append(skips, s.Node)
		}
	}
	assert.Equal(t, []string{"4"}, skips)
}

func TestTraceStepInvariants(t *testing.T) {
	for _, policy := range []Policy{PolicyStop, PolicySkip} {
		for _, m := range []map[string][]string{citeLoop, selfCite, diamond, longRing, twoCycles} {
			g := mustGraph(t, m)
			for _, start := range g.Nodes() {
				tr, err := DetectWithTrace(g, start, WithPolicy(policy))
				require.NoError(t, err)

				prevVisited := []string{}
				for i, s := range tr.Steps {
					assert.Equal(t, i, s.Index)
					assert.NotEmpty(t, s.Message)
					assert.NotEmpty(t, s.LocalizedMessage)

					onPath := slices.Clone(s.PathStack)
					slices.Sort(onPath)
					assert.Equal(t, onPath, s.OnPath, "step %d: onPath and pathStack disagree", i)

					for _, v := range s.Visited {
						assert.NotContains(t, s.PathStack, v, "step %d: %s both visited and on path", i, v)
					}

					// visited only grows, in marking order
					require.GreaterOrEqual(t, len(s.Visited), len(prevVisited))
					assert.Equal(t, prevVisited, s.Visited[:len(prevVisited)], "step %d", i)
					prevVisited = s.Visited
				}
			}
		}
	}
}

func TestTraceSnapshotsAreIndependent(t *testing.T) {
	tr, err := DetectWithTrace(mustGraph(t, longRing), "1")
	require.NoError(t, err)

	s4, _ := tr.At(4)
	require.Equal(t, ActionAddToStack, s4.Action)
	require.Equal(t, []string{"1"}, s4.PathStack)

	// Later steps grew the path; step 4 must still show its own state.
	last, _ := tr.Last()
	assert.Equal(t, []string{"1", "2", "3", "4"}, last.PathStack)
	assert.Equal(t, []string{"1"}, s4.PathStack)

	// Mutating one snapshot must not leak into another.
	s5, _ := tr.At(5)
	s4.PathStack[0] = "mutated"
	assert.Equal(t, "1", s5.PathStack[0])
}

func TestTraceSkipPolicy(t *testing.T) {
	g := mustGraph(t, citeLoop)
	tr, err := DetectWithTrace(g, "1", WithPolicy(PolicySkip), WithLocale(language.English))
	require.NoError(t, err)

	assert.Equal(t, []graph.Edge{{From: "3", To: "2"}, {From: "3", To: "1"}}, tr.SkippedEdges)
	assert.True(t, tr.Result.Found)
	assert.True(t, tr.Result.Handled)
	assert.Equal(t, []string{"2", "3", "2"}, tr.Result.LoopPath)

	var skipped int
	for i, s := range tr.Steps {
		if s.Action != ActionSkipCycle {
			continue
		}
		skipped++
		prev, _ := tr.At(i - 1)
		assert.Equal(t, ActionCycleFound, prev.Action)
		assert.Equal(t, prev.BackEdge, s.BackEdge)
	}
	assert.Equal(t, 2, skipped)

	last, _ := tr.Last()
	assert.Equal(t, ActionComplete, last.Action)
	assert.Equal(t, 2, last.Skipped)
	assert.Contains(t, last.Message, "2")
	assert.Empty(t, last.PathStack)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "7"}, last.Visited)
}

func TestTraceSkipPolicyNeverReexplores(t *testing.T) {
	tr, err := DetectWithTrace(mustGraph(t, twoCycles), "a", WithPolicy(PolicySkip))
	require.NoError(t, err)

	pushes := map[string]int{}
	for _, s := range tr.Steps {
		if s.Action == ActionAddToStack {
			pushes[s.Node]++
		}
	}
	for node, n := range pushes {
		assert.Equal(t, 1, n, "node %s pushed %d times", node, n)
	}
	assert.Len(t, tr.SkippedEdges, 2)
}

func TestTraceSkipPolicyOnAcyclicGraph(t *testing.T) {
	tr, err := DetectWithTrace(mustGraph(t, diamond), "1", WithPolicy(PolicySkip))
	require.NoError(t, err)
	assert.False(t, tr.Result.Found)
	assert.False(t, tr.Result.Handled)
	assert.Empty(t, tr.SkippedEdges)
}

func TestTraceMissingStart(t *testing.T) {
	tr, err := DetectWithTrace(mustGraph(t, citeLoop), "99")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeNodeNotFound))
	assert.Equal(t, 0, tr.Len())
	assert.Contains(t, tr.Result.Error, "99")

	_, ok := tr.At(0)
	assert.False(t, ok)
}

func TestTraceLocalizedMessages(t *testing.T) {
	g := mustGraph(t, selfCite)

	zh, err := DetectWithTrace(g, "1")
	require.NoError(t, err)
	en, err := DetectWithTrace(g, "1", WithLocale(language.English))
	require.NoError(t, err)

	first, _ := zh.At(0)
	assert.Equal(t, "Start depth-first search from node 1", first.Message)
	assert.Equal(t, "從節點 1 開始深度優先搜尋", first.LocalizedMessage)
	assert.Equal(t, "zh-Hant", zh.Locale)

	enFirst, _ := en.At(0)
	assert.Equal(t, enFirst.Message, enFirst.LocalizedMessage)

	last, _ := zh.Last()
	assert.True(t, strings.Contains(last.LocalizedMessage, "1 -> 1"))
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyStop, false},
		{"stop", PolicyStop, false},
		{"skip", PolicySkip, false},
		{"SKIP", "", true},
		{"continue", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidPolicy), "ParsePolicy(%q)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseLocale(t *testing.T) {
	tag, err := ParseLocale("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, tag)

	tag, err = ParseLocale("en-US")
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)

	tag, err = ParseLocale("zh-Hant-TW")
	require.NoError(t, err)
	assert.Equal(t, language.TraditionalChinese, tag)

	_, err = ParseLocale("not a tag!")
	assert.Error(t, err)
}

func TestEliminate(t *testing.T) {
	g := mustGraph(t, citeLoop)
	before := g.ToMap()

	out := Eliminate(g, "1")

	assert.Equal(t, []graph.Edge{{From: "3", To: "1"}, {From: "3", To: "2"}}, out.RemovedEdges)
	assert.Equal(t, before, g.ToMap(), "input graph was modified")
	assert.Empty(t, out.DAG.Successors("3"))
	assert.Equal(t, []string{"2", "7"}, out.DAG.Successors("1"))

	res, err := Detect(out.DAG, "1")
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestEliminateProperties(t *testing.T) {
	for name, m := range map[string]map[string][]string{
		"citeLoop": citeLoop, "selfCite": selfCite, "diamond": diamond, "longRing": longRing, "twoCycles": twoCycles,
	} {
		g := mustGraph(t, m)
		for _, start := range g.Nodes() {
			out := Eliminate(g, start)

			assert.False(t, out.DAG.HasCycleFrom(start), "%s from %s: cycle survived", name, start)
			assert.Equal(t, g.EdgeCount()-len(out.RemovedEdges), out.DAG.EdgeCount())
			for _, e := range out.RemovedEdges {
				assert.True(t, g.HasEdge(e.From, e.To), "%s: removed edge %s not in input", name, e)
			}

			// Running again on the result removes nothing.
			again := Eliminate(out.DAG, start)
			assert.Empty(t, again.RemovedEdges, "%s from %s: not idempotent", name, start)
			assert.Equal(t, out.DAG.ToMap(), again.DAG.ToMap())
		}
	}
}

func TestEliminateLeavesUnreachableAlone(t *testing.T) {
	g := mustGraph(t, map[string][]string{"1": {"2"}, "2": {}, "8": {"9"}, "9": {"8"}})
	out := Eliminate(g, "1")
	assert.Empty(t, out.RemovedEdges)
	assert.Equal(t, []string{"9"}, out.DAG.Successors("8"))
}

func TestEliminateMissingStart(t *testing.T) {
	g := mustGraph(t, citeLoop)
	out := Eliminate(g, "99")
	assert.Empty(t, out.RemovedEdges)
	assert.NotNil(t, out.RemovedEdges)
	assert.Equal(t, g.ToMap(), out.DAG.ToMap())

	_ = out.DAG.RemoveEdgeAt("1", 0)
	assert.Equal(t, []string{"2", "7"}, g.Successors("1"))

	nilOut := Eliminate(nil, "1")
	assert.Equal(t, 0, nilOut.DAG.Len())
}

func TestDeepChainDoesNotOverflow(t *testing.T) {
	const n = 200_000
	g := graph.New()
	for i := range n {
		_ = g.AddEdge(nodeName(i), nodeName(i+1))
	}
	_ = g.AddEdge(nodeName(n), nodeName(0))

	res, err := Detect(g, nodeName(0))
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Len(t, res.LoopPath, n+2)

	out := Eliminate(g, nodeName(0))
	assert.Equal(t, []graph.Edge{{From: nodeName(n), To: nodeName(0)}}, out.RemovedEdges)
}

func nodeName(i int) string {
	return "n" + strconv.Itoa(i)
}
