// Package graphio reads and writes citation graphs as JSON, YAML, or the
// node/edge list format used by graph tooling.
//
// # Formats
//
// The adjacency format is the primary one. It maps each node to its ordered
// successor list and is accepted as JSON or YAML:
//
//	{"1": ["2", "7"], "2": ["3", "4"], "3": ["2", "1"]}
//
//	"1": [2, 7]
//	"2": [3, 4]
//	"3": [2, 1]
//
// The edge list format names nodes and edges explicitly. Nodes without
// outgoing edges may be listed so they become keys instead of dangling
// references:
//
//	{
//	  "nodes": [{"id": "1"}, {"id": "2"}],
//	  "edges": [{"from": "1", "to": "2"}]
//	}
//
// All readers keep key order and normalize scalar ids (7 becomes "7"). Any
// structural problem is reported as an INVALID_GRAPH error; an unknown
// format name is INVALID_FORMAT.
package graphio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

// Format names a serialization.
type Format string

const (
	FormatAuto     Format = ""
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatEdgeList Format = "edgelist"
)

// Stdin is the path that makes [ReadFile] read standard input.
const Stdin = "-"

// ParseFormat validates a format name. An empty name means auto-detect.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatAuto, FormatJSON, FormatYAML, FormatEdgeList:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unknown graph format %q (must be json, yaml or edgelist)", s)
}

// DetectFormat guesses the format from a file name and the leading bytes of
// its content. Extensions win; otherwise content starting with '{' is JSON
// and anything else is YAML. Edge list input is only chosen by extension
// (".edges.json") or explicitly.
func DetectFormat(name string, head []byte) Format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".edges.json"):
		return FormatEdgeList
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	}
	if trimmed := bytes.TrimLeft(head, " \t\r\n\ufeff"); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Read decodes a graph from r in the given format. FormatAuto sniffs the
// content. Read does not close r.
func Read(r io.Reader, format Format) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read graph")
	}
	if format == FormatAuto {
		format = DetectFormat("", data)
	}

	switch format {
	case FormatJSON:
		return ReadJSON(bytes.NewReader(data))
	case FormatYAML:
		return ReadYAML(bytes.NewReader(data))
	case FormatEdgeList:
		return ReadEdgeList(bytes.NewReader(data))
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown graph format %q", format)
}

// ReadFile reads a graph from path, or from stdin when path is "-".
// FormatAuto picks the format from the extension and content.
func ReadFile(path string, format Format) (*graph.Graph, error) {
	if path == Stdin {
		return readAuto(os.Stdin, "", format)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeNotFound, err, "graph file %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return readAuto(f, filepath.Base(path), format)
}

func readAuto(r io.Reader, name string, format Format) (*graph.Graph, error) {
	br := bufio.NewReader(r)
	if format == FormatAuto {
		head, _ := br.Peek(64)
		format = DetectFormat(name, head)
	}
	return Read(br, format)
}

// ReadJSON decodes an adjacency object. Key order is kept.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read graph")
	}
	g := graph.New()
	if err := g.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadYAML decodes an adjacency mapping. Key order is kept.
func ReadYAML(r io.Reader) (*graph.Graph, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errs.New(errs.ErrCodeInvalidGraph, "graph document is empty")
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "decode yaml")
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errs.New(errs.ErrCodeInvalidGraph, "graph must be a mapping of node ids to successor lists (line %d)", root.Line)
	}

	g := graph.New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]

		var rawKey any
		if err := key.Decode(&rawKey); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "line %d: node id", key.Line)
		}
		id, err := graph.NormalizeID(rawKey)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "line %d: node id", key.Line)
		}

		var succ any
		if err := val.Decode(&succ); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "line %d: successors of %q", val.Line, id)
		}
		if err := g.AddDecoded(id, succ); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "line %d", key.Line)
		}
	}
	return g, nil
}

type edgeList struct {
	Nodes []listNode `json:"nodes"`
	Edges []listEdge `json:"edges"`
}

type listNode struct {
	ID json.RawMessage `json:"id"`
}

type listEdge struct {
	From json.RawMessage `json:"from"`
	To   json.RawMessage `json:"to"`
}

// ReadEdgeList decodes the node/edge list format. Nodes are declared in the
// order they appear in "nodes", then in first-appearance order as edge
// sources. Edge targets that are never declared stay dangling. Extra node
// fields such as "meta" are ignored.
func ReadEdgeList(r io.Reader) (*graph.Graph, error) {
	var data edgeList
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "decode edge list")
	}

	g := graph.New()
	for i, n := range data.Nodes {
		id, err := rawID(n.ID)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "node %d", i)
		}
		if g.Has(id) {
			return nil, errs.New(errs.ErrCodeInvalidGraph, "duplicate node %q", id)
		}
		_ = g.AddNode(id)
	}
	for i, e := range data.Edges {
		from, err := rawID(e.From)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "edge %d source", i)
		}
		to, err := rawID(e.To)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "edge %d target", i)
		}
		_ = g.AddEdge(from, to)
	}
	return g, nil
}

func rawID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("missing id")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	return graph.NormalizeID(v)
}
