package graph

import (
	"bytes"
	"encoding/json"
	"io"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
)

// MarshalJSON encodes the graph as a JSON object mapping each node to its
// successor list, keys in insertion order:
//
//	{"1":["2","7"],"2":["3","4"],"3":["2","1"]}
func (g *Graph) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range g.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		s := g.succ[id]
		if s == nil {
			s = []string{}
		}
		v, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON adjacency object, keeping key order and
// normalizing scalar successors with [NormalizeID]. Anything other than an
// object of lists fails with an INVALID_GRAPH error that names the offending
// node; a partially decoded graph is never left behind.
func (g *Graph) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidGraph, err, "graph must be a JSON object")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errs.New(errs.ErrCodeInvalidGraph, "graph must be a JSON object mapping node ids to successor lists")
	}

	out := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidGraph, err, "read node id")
		}
		id, _ := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidGraph, err, "read successors of %q", id)
		}
		if err := out.AddDecoded(id, v); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidGraph, err, "unterminated graph object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return errs.New(errs.ErrCodeInvalidGraph, "unexpected data after graph object")
	}

	*g = *out
	return nil
}
