package cycle

import (
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

// frame is one level of the explicit DFS stack: the node being expanded and
// the index of the next successor to try.
type frame struct {
	node string
	next int
}

// hit describes a back-edge found during the walk.
type hit struct {
	node string
	loop []string
	edge graph.Edge
}

// walker runs the detection state machine. Detect and DetectWithTrace share
// it; with rec == nil no steps are recorded and the decisions are identical.
type walker struct {
	g      *graph.Graph
	st     *state
	policy Policy
	rec    *recorder

	first   *hit
	skipped []graph.Edge
}

func newWalker(g *graph.Graph, policy Policy, rec *recorder) *walker {
	return &walker{g: g, st: newState(), policy: policy, rec: rec}
}

// run walks from start, which must be a key of the graph. It returns the
// first back-edge found, or nil when the reachable subgraph is acyclic
// (or every back-edge was skipped).
func (w *walker) run(start string) *hit {
	w.emit(ActionStart, start, nil, msgStart, start)

	var stack []frame
	if _, pushed := w.enter(start); pushed {
		stack = append(stack, frame{node: start})
	}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succ := w.g.Successors(top.node)

		if top.next < len(succ) {
			next := succ[top.next]
			top.next++
			w.emit(ActionExploreNeighbor, top.node, func(s *Step) { s.Neighbor = next }, msgExplore, top.node, next)

			h, pushed := w.enter(next)
			switch {
			case h != nil:
				if w.first == nil {
					w.first = h
				}
				if w.policy == PolicyStop {
					return w.first
				}
				w.skip(h)
			case pushed:
				stack = append(stack, frame{node: next})
			}
			continue
		}

		node := top.node
		stack = stack[:len(stack)-1]
		w.st.pop()
		w.emit(ActionBacktrack, node, nil, msgBacktrack, node)
		w.st.markSafe(node)
		w.emit(ActionMarkSafe, node, nil, msgMarkSafe, node)
	}

	if w.policy == PolicySkip {
		n := len(w.skipped)
		w.emit(ActionComplete, start, func(s *Step) { s.Skipped = n }, msgCompleteSkip, n)
	} else {
		w.emit(ActionComplete, start, nil, msgCompleteClean, start)
	}
	return w.first
}

// enter performs the membership checks for node. It reports a hit when node
// is on the current path, and pushed when node was new and is now on it.
func (w *walker) enter(node string) (*hit, bool) {
	w.emit(ActionEnterNode, node, nil, msgEnterNode, node)
	w.emit(ActionCheckInStack, node, nil, msgCheckInStack, node)

	if w.st.onPath[node] {
		h := &hit{node: node, loop: w.st.loopFrom(node), edge: w.st.backEdge(node)}
		w.emit(ActionCycleFound, node, func(s *Step) {
			s.CycleNode = node
			s.BackEdge = &graph.Edge{From: h.edge.From, To: h.edge.To}
			s.LoopPath = append([]string(nil), h.loop...)
		}, msgCycleFound, node, formatLoop(h.loop))
		return h, false
	}

	w.emit(ActionCheckVisited, node, nil, msgCheckVisited, node)
	if w.st.visited[node] {
		w.emit(ActionSkipVisited, node, nil, msgSkipVisited, node)
		return nil, false
	}

	w.st.push(node)
	w.emit(ActionAddToStack, node, nil, msgAddToStack, node)
	return nil, true
}

// skip records a tolerated back-edge and lets the walk continue.
func (w *walker) skip(h *hit) {
	w.skipped = append(w.skipped, h.edge)
	w.emit(ActionSkipCycle, h.edge.From, func(s *Step) {
		s.CycleNode = h.node
		s.BackEdge = &graph.Edge{From: h.edge.From, To: h.edge.To}
	}, msgSkipCycle, h.edge.String())
}

func (w *walker) emit(action Action, node string, decorate func(*Step), key string, args ...any) {
	if w.rec == nil {
		return
	}
	w.rec.record(w.st, action, node, decorate, key, args...)
}

// recorder accumulates trace steps.
type recorder struct {
	narrator narrator
	steps    []Step
}

func (r *recorder) record(st *state, action Action, node string, decorate func(*Step), key string, args ...any) {
	snap := st.snapshot()
	msg, local := r.narrator.say(key, args...)
	step := Step{
		Index:            len(r.steps),
		Action:           action,
		Node:             node,
		Message:          msg,
		LocalizedMessage: local,
		Visited:          snap.visited,
		OnPath:           snap.onPath,
		PathStack:        snap.pathStack,
	}
	if decorate != nil {
		decorate(&step)
	}
	r.steps = append(r.steps, step)
}
