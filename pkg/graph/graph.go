package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.AddEdge] when
	// a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] and
	// [Graph.RemoveEdgeAt] when the source node is not a key of the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrEdgeIndexOutOfRange is returned by [Graph.RemoveEdgeAt] when the
	// successor index does not exist.
	ErrEdgeIndexOutOfRange = errors.New("edge index out of range")
)

// Edge is a directed link from one node to another. In a citation graph the
// source cites the target.
type Edge struct {
	From string `json:"source" yaml:"source"`
	To   string `json:"target" yaml:"target"`
}

// String renders the edge as "from->to".
func (e Edge) String() string { return e.From + "->" + e.To }

// Graph is a directed graph stored as an adjacency list.
//
// Each key is a known node mapped to its ordered successor list. The order of
// successors is the traversal order and decides which cycle is reported
// first. A node that only appears as a successor is a dangling reference: it
// has no outgoing edges and is not a key.
//
// Key insertion order is remembered so that a graph serializes back in the
// order it was read. The zero value is not usable - use [New] or [FromMap].
// Graph is not safe for concurrent mutation; concurrent readers are fine.
type Graph struct {
	order []string
	succ  map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{succ: make(map[string][]string)}
}

// AddNode declares id as a known node with no successors. Adding an existing
// node is a no-op that keeps its successors and position.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.succ[id]; ok {
		return nil
	}
	g.order = append(g.order, id)
	g.succ[id] = []string{}
	return nil
}

// AddEdge appends to as the last successor of from, declaring from if needed.
// The target is not declared: it stays a dangling reference until it is
// added as a node itself. Duplicate edges are kept.
func (g *Graph) AddEdge(from, to string) error {
	if from == "" || to == "" {
		return ErrInvalidNodeID
	}
	if err := g.AddNode(from); err != nil {
		return err
	}
	g.succ[from] = append(g.succ[from], to)
	return nil
}

// RemoveEdgeAt deletes the successor at index i of node from. Entries after i
// shift down by one; entries before i keep their index.
func (g *Graph) RemoveEdgeAt(from string, i int) error {
	s, ok := g.succ[from]
	if !ok {
		return ErrUnknownSourceNode
	}
	if i < 0 || i >= len(s) {
		return ErrEdgeIndexOutOfRange
	}
	g.succ[from] = slices.Delete(s, i, i+1)
	return nil
}

// Has reports whether id is a key of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.succ[id]
	return ok
}

// Successors returns the ordered successors of id. Dangling references and
// unknown ids return nil. The returned slice must not be modified.
func (g *Graph) Successors(id string) []string { return g.succ[id] }

// Nodes returns the known node ids in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Len returns the number of known nodes.
func (g *Graph) Len() int { return len(g.order) }

// Edges returns every edge, grouped by source in node order and by successor
// order within a source.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for _, from := range g.order {
		for _, to := range g.succ[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// EdgeCount returns the total number of edges, duplicates included.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, s := range g.succ {
		n += len(s)
	}
	return n
}

// HasEdge reports whether from lists to among its successors.
func (g *Graph) HasEdge(from, to string) bool {
	return slices.Contains(g.succ[from], to)
}

// Clone returns a deep copy. Every successor list gets its own backing array,
// so edits to the copy never reach g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		order: slices.Clone(g.order),
		succ:  make(map[string][]string, len(g.succ)),
	}
	for id, s := range g.succ {
		c.succ[id] = append(make([]string, 0, len(s)), s...)
	}
	return c
}

// ToMap returns the graph as a plain map of copied successor lists.
func (g *Graph) ToMap() map[string][]string {
	m := make(map[string][]string, len(g.succ))
	for id, s := range g.succ {
		m[id] = slices.Clone(s)
	}
	return m
}

// Reachable returns every node reachable from start, start included, in the
// order they are first discovered. Dangling references are included. An
// unknown start yields nil.
func (g *Graph) Reachable(start string) []string {
	if !g.Has(start) {
		return nil
	}
	seen := map[string]bool{start: true}
	out := []string{start}
	stack := []string{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := g.succ[n]
		for i := len(s) - 1; i >= 0; i-- {
			if !seen[s[i]] {
				seen[s[i]] = true
				out = append(out, s[i])
				stack = append(stack, s[i])
			}
		}
	}
	return out
}

// HasCycleFrom reports whether any cycle is reachable from start. It uses
// white/gray/black colouring and is meant for quick acyclicity checks; the
// cycle package reports which cycle and why.
func (g *Graph) HasCycleFrom(start string) bool {
	if !g.Has(start) {
		return false
	}
	const (
		white = iota
		gray
		black
	)
	type frame struct {
		node string
		next int
	}

	color := map[string]int{start: gray}
	stack := []frame{{node: start}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		s := g.succ[top.node]
		if top.next == len(s) {
			color[top.node] = black
			stack = stack[:len(stack)-1]
			continue
		}
		child := s[top.next]
		top.next++
		switch color[child] {
		case gray:
			return true
		case white:
			color[child] = gray
			stack = append(stack, frame{node: child})
		}
	}
	return false
}
