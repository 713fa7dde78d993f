package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

// Options selects what to emphasize in the diagram.
type Options struct {
	// Start is drawn with a bold outline when it is a node of the graph.
	Start string

	// Loop is a cycle path as reported by detection (first == last).
	Loop []string

	// CycleEdge is the back-edge that closed Loop.
	CycleEdge *graph.Edge

	// Removed edges are drawn dashed even though they are no longer in g.
	Removed []graph.Edge
}

const (
	colorLoop    = "#c0392b"
	colorRemoved = "#9e9e9e"
)

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g *graph.Graph, opts Options) string {
	if g == nil {
		g = graph.New()
	}

	onLoop := make(map[string]bool, len(opts.Loop))
	loopEdges := make(map[graph.Edge]bool, len(opts.Loop))
	for i, id := range opts.Loop {
		onLoop[id] = true
		if i > 0 {
			loopEdges[graph.Edge{From: opts.Loop[i-1], To: id}] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range nodeIDs(g, opts.Removed) {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(nodeAttrs(g, id, opts.Start, onLoop[id]), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := edgeAttrs(e, loopEdges[e], opts.CycleEdge != nil && e == *opts.CycleEdge)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}
	for _, e := range opts.Removed {
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=%q, fontcolor=%q, label=\"removed\"];\n",
			e.From, e.To, colorRemoved, colorRemoved)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeIDs lists keys in order, then dangling references in first-seen order.
func nodeIDs(g *graph.Graph, removed []graph.Edge) []string {
	ids := g.Nodes()
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, e := range g.Edges() {
		add(e.To)
	}
	for _, e := range removed {
		add(e.From)
		add(e.To)
	}
	return ids
}

func nodeAttrs(g *graph.Graph, id, start string, onLoop bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", id)}
	switch {
	case onLoop:
		attrs = append(attrs, fmt.Sprintf("color=%q", colorLoop), fmt.Sprintf("fontcolor=%q", colorLoop))
	case !g.Has(id):
		attrs = append(attrs, "style=\"rounded,dashed\"", fmt.Sprintf("color=%q", colorRemoved))
	}
	if id == start && g.Has(id) {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

func edgeAttrs(e graph.Edge, onLoop, closing bool) []string {
	if !onLoop && !closing {
		return nil
	}
	attrs := []string{fmt.Sprintf("color=%q", colorLoop)}
	if closing {
		attrs = append(attrs, "penwidth=3", "label=\"back-edge\"", fmt.Sprintf("fontcolor=%q", colorLoop))
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales from the origin.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
