package cycle

import (
	"errors"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

// ErrNodeNotFound is the cause of NODE_NOT_FOUND errors returned when the
// start node is not a key of the graph.
var ErrNodeNotFound = errors.New("start node is not a key of the graph")

// Result is the outcome of a detection run.
//
// When Found is true, LoopPath is the closed cycle (first and last element
// equal) and CycleEdge is the back-edge that closed it. Handled is true only
// under [PolicySkip], where the walk tolerated every cycle and ran to the end.
// Error carries a diagnostic for inputs the walk could not start from.
type Result struct {
	Found     bool        `json:"found"`
	LoopPath  []string    `json:"loopPath,omitempty"`
	CycleEdge *graph.Edge `json:"cycleEdge,omitempty"`
	Handled   bool        `json:"handled,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// Detect reports the first cycle reachable from start, exploring successors
// in list order. It does not modify g.
//
// A start node that is not a key of g yields a Result with Found false and
// Error set, together with a NODE_NOT_FOUND error. A nil graph is an
// INVALID_GRAPH error. A dangling start reference counts as missing; a
// dangling successor is a leaf.
func Detect(g *graph.Graph, start string) (Result, error) {
	if err := checkInput(g, start); err != nil {
		return Result{Error: errs.UserMessage(err)}, err
	}
	h := newWalker(g, PolicyStop, nil).run(start)
	return resultOf(h, PolicyStop, 0), nil
}

func checkInput(g *graph.Graph, start string) error {
	if g == nil {
		return errs.New(errs.ErrCodeInvalidGraph, "graph is nil")
	}
	if !g.Has(start) {
		return errs.Wrap(errs.ErrCodeNodeNotFound, ErrNodeNotFound, "node not found: %s", start)
	}
	return nil
}

func resultOf(h *hit, policy Policy, skipped int) Result {
	if h == nil {
		return Result{}
	}
	edge := h.edge
	return Result{
		Found:     true,
		LoopPath:  h.loop,
		CycleEdge: &edge,
		Handled:   policy == PolicySkip && skipped > 0,
	}
}
