// Package graph provides the adjacency-list model for citation graphs.
//
// # Overview
//
// A [Graph] maps node ids to ordered successor lists. It is the input of
// every operation in the cycle package and the shape of the repaired graph
// the eliminator returns:
//
//	{
//	  "1": ["2", "7"],
//	  "2": ["3", "4"],
//	  "3": ["2", "1"]
//	}
//
// Keys are known nodes. "4" and "7" above are dangling references: they are
// cited but never declared, and behave as nodes with no outgoing edges.
//
// # Ordering
//
// Successor order is traversal order and therefore decides which cycle a
// detector reports first. Key order is kept from the input so that a graph
// read from a file, repaired, and written back differs only in the removed
// edges.
//
// # Normalization
//
// Exports from citation tools mix string and numeric ids. [NormalizeID]
// turns scalars into strings (7 -> "7", 1.5 -> "1.5"); [Graph.UnmarshalJSON],
// [FromAny] and the graphio package apply it to every successor.
//
// # Copies
//
// [Graph.Clone] gives every successor list its own storage. Code that edits
// a graph it does not own must clone first.
package graph
