package cycle

import "github.com/outsider987/Patlytics-hotfix/pkg/graph"

// Action names one decision point of the traversal state machine.
type Action string

// Actions in the order a single node visit can emit them:
//
//	START -> ENTER_NODE -> CHECK_IN_STACK -> {CYCLE_FOUND | CHECK_VISITED}
//	  -> {SKIP_VISITED | ADD_TO_STACK -> (EXPLORE_NEIGHBOR -> ...)* -> BACKTRACK -> MARK_SAFE}
//	  -> ... -> COMPLETE
//
// SKIP_CYCLE follows CYCLE_FOUND under [PolicySkip].
const (
	ActionStart           Action = "START"
	ActionEnterNode       Action = "ENTER_NODE"
	ActionCheckInStack    Action = "CHECK_IN_STACK"
	ActionCycleFound      Action = "CYCLE_FOUND"
	ActionSkipCycle       Action = "SKIP_CYCLE"
	ActionCheckVisited    Action = "CHECK_VISITED"
	ActionSkipVisited     Action = "SKIP_VISITED"
	ActionAddToStack      Action = "ADD_TO_STACK"
	ActionExploreNeighbor Action = "EXPLORE_NEIGHBOR"
	ActionBacktrack       Action = "BACKTRACK"
	ActionMarkSafe        Action = "MARK_SAFE"
	ActionComplete        Action = "COMPLETE"
)

// Step is an immutable snapshot of the traversal at one decision point.
//
// Visited, OnPath and PathStack are copies taken when the step was recorded.
// Visited lists nodes in the order they were proven safe, OnPath is sorted,
// PathStack runs from the start node to the frontier.
type Step struct {
	Index            int    `json:"index"`
	Action           Action `json:"action"`
	Node             string `json:"node"`
	Message          string `json:"message"`
	LocalizedMessage string `json:"localizedMessage"`

	Visited   []string `json:"visited"`
	OnPath    []string `json:"onPath"`
	PathStack []string `json:"pathStack"`

	// Neighbor is the successor under consideration (EXPLORE_NEIGHBOR).
	Neighbor string `json:"neighbor,omitempty"`
	// CycleNode is the node that closed a cycle (CYCLE_FOUND, SKIP_CYCLE).
	CycleNode string `json:"cycleNode,omitempty"`
	// BackEdge is the edge that closed a cycle (CYCLE_FOUND, SKIP_CYCLE).
	BackEdge *graph.Edge `json:"backEdge,omitempty"`
	// LoopPath is the closed cycle (CYCLE_FOUND).
	LoopPath []string `json:"loopPath,omitempty"`
	// Skipped is the number of back-edges skipped so far (COMPLETE).
	Skipped int `json:"skipped,omitempty"`
}
