package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

func citeLoop(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.FromMap(map[string][]string{
		"1": {"2", "7"},
		"2": {"3", "4"},
		"3": {"2", "1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOTBasic(t *testing.T) {
	dot := ToDOT(citeLoop(t), Options{})

	for _, want := range []string{"digraph G", `"1" -> "2";`, `"3" -> "1";`, `"7" [label="7"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s", want)
		}
	}
	if strings.Contains(dot, "penwidth") {
		t.Error("ToDOT() without options should not emphasize anything")
	}
}

func TestToDOTDanglingNodesAreDashed(t *testing.T) {
	dot := ToDOT(citeLoop(t), Options{})
	if !strings.Contains(dot, `"4" [label="4", style="rounded,dashed"`) {
		t.Errorf("dangling node not dashed:\n%s", dot)
	}
}

func TestToDOTHighlightsLoop(t *testing.T) {
	edge := graph.Edge{From: "3", To: "2"}
	dot := ToDOT(citeLoop(t), Options{Start: "1", Loop: []string{"2", "3", "2"}, CycleEdge: &edge})

	if !strings.Contains(dot, `"1" [label="1", penwidth=3]`) {
		t.Error("start node not bold")
	}
	if !strings.Contains(dot, `"2" -> "3" [color="#c0392b"]`) {
		t.Error("loop edge not highlighted")
	}
	if !strings.Contains(dot, `"3" -> "2" [color="#c0392b", penwidth=3, label="back-edge"`) {
		t.Error("back-edge not emphasized")
	}
	if strings.Contains(dot, `"1" -> "2" [`) {
		t.Error("edge off the loop was highlighted")
	}
}

func TestToDOTRemovedEdges(t *testing.T) {
	g := citeLoop(t)
	removed := []graph.Edge{{From: "3", To: "1"}, {From: "3", To: "2"}}
	for _, e := range removed {
		succ := g.Successors(e.From)
		for i, s := range succ {
			if s == e.To {
				_ = g.RemoveEdgeAt(e.From, i)
				break
			}
		}
	}

	dot := ToDOT(g, Options{Removed: removed})
	if strings.Count(dot, "style=dashed") != 2 {
		t.Errorf("want two dashed edges:\n%s", dot)
	}
	if !strings.Contains(dot, `"3" -> "1" [style=dashed`) {
		t.Error("removed edge 3->1 missing")
	}
}

func TestToDOTNilGraph(t *testing.T) {
	if dot := ToDOT(nil, Options{}); !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("ToDOT(nil) = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(citeLoop(t), Options{Start: "1"}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not svg")
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() should reject malformed DOT")
	}
}
