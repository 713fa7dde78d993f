package cycle

import (
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

// Elimination is the output of [Eliminate].
type Elimination struct {
	DAG          *graph.Graph `json:"dag"`
	RemovedEdges []graph.Edge `json:"removedEdges"`
}

// Eliminate returns a copy of g with every back-edge reachable from start
// removed, together with the removed edges in the order they were met.
//
// Successors are explored last to first, so the edge kept in a cycle is the
// one reached through the later-listed successor. Parts of the graph not
// reachable from start are copied unchanged. g itself is never modified.
//
// A start node that is not a key of g returns an unchanged copy and no
// removed edges. The result is not a minimum feedback arc set.
func Eliminate(g *graph.Graph, start string) Elimination {
	if g == nil {
		return Elimination{DAG: graph.New(), RemovedEdges: []graph.Edge{}}
	}

	dag := g.Clone()
	removed := []graph.Edge{}
	if !dag.Has(start) {
		return Elimination{DAG: dag, RemovedEdges: removed}
	}

	st := newState()
	st.push(start)
	stack := []frame{{node: start, next: len(dag.Successors(start)) - 1}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < 0 {
			stack = stack[:len(stack)-1]
			st.markSafe(st.pop())
			continue
		}

		i := top.next
		top.next--
		next := dag.Successors(top.node)[i]

		switch {
		case st.onPath[next]:
			// Removing index i leaves the unvisited indices below it intact.
			_ = dag.RemoveEdgeAt(top.node, i)
			removed = append(removed, graph.Edge{From: top.node, To: next})
		case !st.visited[next]:
			st.push(next)
			stack = append(stack, frame{node: next, next: len(dag.Successors(next)) - 1})
		}
	}

	return Elimination{DAG: dag, RemovedEdges: removed}
}
