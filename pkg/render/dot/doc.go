// Package dot exports citation graphs as Graphviz DOT and SVG.
//
// # Usage
//
// Highlight the loop reported by a detection run:
//
//	res, _ := cycle.Detect(g, "1")
//	src := dot.ToDOT(g, dot.Options{Start: "1", Loop: res.LoopPath, CycleEdge: res.CycleEdge})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Or show what an elimination dropped:
//
//	out := cycle.Eliminate(g, "1")
//	src := dot.ToDOT(out.DAG, dot.Options{Start: "1", Removed: out.RemovedEdges})
//
// # Styling
//
// The start node is drawn with a bold outline. Nodes and edges on the loop
// are red; the closing back-edge is drawn thicker. Removed edges are drawn
// dashed and grey from their original source to target. Dangling references,
// ids that appear only as successors, get a dashed outline.
//
// SVG rendering runs Graphviz in-process through [github.com/goccy/go-graphviz].
package dot
