package cycle

import (
	"slices"

	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

// state is the bookkeeping threaded through one depth-first walk.
//
// Invariants: onPath and pathStack hold the same nodes; a node is never in
// visited and onPath at once; visited only grows.
type state struct {
	visited    map[string]bool
	visitOrder []string
	onPath     map[string]bool
	pathStack  []string
}

func newState() *state {
	return &state{
		visited: make(map[string]bool),
		onPath:  make(map[string]bool),
	}
}

func (s *state) push(node string) {
	s.onPath[node] = true
	s.pathStack = append(s.pathStack, node)
}

// pop removes and returns the deepest node on the path.
func (s *state) pop() string {
	n := s.pathStack[len(s.pathStack)-1]
	s.pathStack = s.pathStack[:len(s.pathStack)-1]
	delete(s.onPath, n)
	return n
}

func (s *state) markSafe(node string) {
	if s.visited[node] {
		return
	}
	s.visited[node] = true
	s.visitOrder = append(s.visitOrder, node)
}

// top returns the deepest node on the path, or "" when the path is empty.
func (s *state) top() string {
	if len(s.pathStack) == 0 {
		return ""
	}
	return s.pathStack[len(s.pathStack)-1]
}

// loopFrom returns the closed cycle through culprit: the path from the
// culprit's first occurrence to the end, followed by the culprit again.
func (s *state) loopFrom(culprit string) []string {
	i := slices.Index(s.pathStack, culprit)
	if i < 0 {
		return nil
	}
	loop := make([]string, 0, len(s.pathStack)-i+1)
	loop = append(loop, s.pathStack[i:]...)
	return append(loop, culprit)
}

// backEdge returns the edge that closes the cycle through culprit.
func (s *state) backEdge(culprit string) graph.Edge {
	return graph.Edge{From: s.top(), To: culprit}
}

// snapshot copies the live sets so a recorded step never changes after it
// is emitted. visited keeps marking order; onPath is sorted.
type snapshot struct {
	visited   []string
	onPath    []string
	pathStack []string
}

func (s *state) snapshot() snapshot {
	onPath := make([]string, 0, len(s.onPath))
	for n := range s.onPath {
		onPath = append(onPath, n)
	}
	slices.Sort(onPath)
	return snapshot{
		visited:   append(make([]string, 0, len(s.visitOrder)), s.visitOrder...),
		onPath:    onPath,
		pathStack: append(make([]string, 0, len(s.pathStack)), s.pathStack...),
	}
}
