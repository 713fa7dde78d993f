package graph

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
)

// NormalizeID converts a scalar node reference to its string id.
//
// Citation exports mix string and numeric ids, so numbers and booleans are
// accepted and printed the way a JSON-producing front end would print them:
// integral values without a fraction (7.0 -> "7"), other numbers in their
// shortest form (1.5 -> "1.5"), booleans as "true"/"false". Nil, lists and
// objects are rejected with an INVALID_GRAPH error.
func NormalizeID(v any) (string, error) {
	var id string
	switch x := v.(type) {
	case string:
		id = x
	case json.Number:
		if i, err := x.Int64(); err == nil {
			id = strconv.FormatInt(i, 10)
			break
		}
		f, err := x.Float64()
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidGraph, err, "invalid number %s", x.String())
		}
		id = formatFloat(f)
	case float64:
		id = formatFloat(x)
	case float32:
		id = formatFloat(float64(x))
	case int:
		id = strconv.Itoa(x)
	case int64:
		id = strconv.FormatInt(x, 10)
	case uint64:
		id = strconv.FormatUint(x, 10)
	case bool:
		id = strconv.FormatBool(x)
	case nil:
		return "", errs.New(errs.ErrCodeInvalidGraph, "node reference is null")
	default:
		return "", errs.New(errs.ErrCodeInvalidGraph, "node reference must be a string or number, got %T", v)
	}
	if err := errs.ValidateNodeID(id); err != nil {
		return "", err
	}
	return id, nil
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FromMap builds a graph from a plain adjacency map. Keys are inserted in
// sorted order since Go maps carry no order; successor order is kept.
func FromMap(m map[string][]string) (*Graph, error) {
	g := New()
	for _, id := range slices.Sorted(maps.Keys(m)) {
		if err := errs.ValidateNodeID(id); err != nil {
			return nil, err
		}
		_ = g.AddNode(id)
		for _, to := range m[id] {
			if err := errs.ValidateNodeID(to); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "successor of %q", id)
			}
			_ = g.AddEdge(id, to)
		}
	}
	return g, nil
}

// FromAny builds a graph from a decoded mapping whose successor lists may
// hold mixed scalars. Each value must be a list; see [NormalizeID] for the
// accepted scalars. Keys are inserted in sorted order.
func FromAny(m map[string]any) (*Graph, error) {
	g := New()
	for _, id := range slices.Sorted(maps.Keys(m)) {
		if err := g.AddDecoded(id, m[id]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddDecoded declares node id with the raw successor list v, as produced by
// a JSON or YAML decoder. v must be a []any of scalars; each is normalized
// with [NormalizeID]. Declaring an existing node is an INVALID_GRAPH error.
func (g *Graph) AddDecoded(id string, v any) error {
	if err := errs.ValidateNodeID(id); err != nil {
		return err
	}
	if g.Has(id) {
		return errs.New(errs.ErrCodeInvalidGraph, "duplicate node %q", id)
	}
	list, ok := v.([]any)
	if !ok {
		return errs.New(errs.ErrCodeInvalidGraph, "successors of %q must be a list, got %s", id, kindOf(v))
	}
	_ = g.AddNode(id)
	for i, raw := range list {
		to, err := NormalizeID(raw)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidGraph, err, "node %q successor %d", id, i)
		}
		_ = g.AddEdge(id, to)
	}
	return nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
