package graphio

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

// WriteJSON encodes g as an indented adjacency object, keys in graph order.
func WriteJSON(w io.Writer, g *graph.Graph) error {
	data, err := g.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

// WriteYAML encodes g as an adjacency mapping with flow-style successor
// lists, keys in graph order.
func WriteYAML(w io.Writer, g *graph.Graph) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(g)); err != nil {
		return err
	}
	return enc.Close()
}

func yamlNode(g *graph.Graph) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range g.Nodes() {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, to := range g.Successors(id) {
			seq.Content = append(seq.Content, strNode(to))
		}
		root.Content = append(root.Content, strNode(id), seq)
	}
	return root
}

// strNode quotes every id so "7" stays a string on the way back in.
func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
}

// WriteEdgeList encodes g in the node/edge list format.
func WriteEdgeList(w io.Writer, g *graph.Graph) error {
	out := struct {
		Nodes []map[string]string `json:"nodes"`
		Edges []map[string]string `json:"edges"`
	}{Nodes: []map[string]string{}, Edges: []map[string]string{}}

	for _, id := range g.Nodes() {
		out.Nodes = append(out.Nodes, map[string]string{"id": id})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, map[string]string{"from": e.From, "to": e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Write encodes g in format. FormatAuto writes JSON.
func Write(w io.Writer, g *graph.Graph, format Format) error {
	switch format {
	case FormatAuto, FormatJSON:
		return WriteJSON(w, g)
	case FormatYAML:
		return WriteYAML(w, g)
	case FormatEdgeList:
		return WriteEdgeList(w, g)
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unknown graph format %q", format)
}

// WriteFile writes g to path, or to stdout when path is "-". FormatAuto
// picks the format from the extension and falls back to JSON.
func WriteFile(path string, g *graph.Graph, format Format) error {
	if path == Stdin {
		return Write(os.Stdout, g, format)
	}
	if format == FormatAuto {
		format = DetectFormat(path, []byte("{"))
	}

	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := Write(f, g, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
