// Package cycle finds and removes citation loops in a [graph.Graph].
//
// # Detection
//
// [Detect] walks the graph depth-first from a start node, following
// successors in list order, and reports the first back-edge it meets: an
// edge into a node that is still on the current path. The walk keeps three
// pieces of state:
//
//   - visited: nodes whose whole reachable subgraph is known to be acyclic
//   - onPath: nodes on the path from the start to the current node
//   - pathStack: the same nodes, in path order
//
// The reported loop is the tail of pathStack from the culprit's position,
// closed by the culprit itself:
//
//	{"1":["2","7"],"2":["3","4"],"3":["2","1"]}  start "1"
//	  -> loop [2 3 2], back-edge 3->2
//
// The walk uses an explicit stack of (node, next successor) frames, so deep
// citation chains do not grow the goroutine stack.
//
// # Traces
//
// [DetectWithTrace] drives the same state machine and records an immutable
// [Step] at every decision point, for teaching views and step-by-step
// replay. Each step carries an English Message and a LocalizedMessage
// rendered through golang.org/x/text/message; the default locale is
// Traditional Chinese.
//
// Under [PolicyStop] the trace ends at CYCLE_FOUND. Under [PolicySkip] the
// back-edge is recorded in Trace.SkippedEdges and the walk continues to a
// COMPLETE step.
//
// # Elimination
//
// [Eliminate] deletes back-edges from a copy of the graph until nothing
// reachable from the start node is cyclic. Successor lists are scanned from
// last to first so in-place removal never shifts an index still to be
// visited.
package cycle
