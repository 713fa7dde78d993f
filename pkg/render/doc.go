// Package render groups the output renderers for citation graphs.
//
// [dot] produces Graphviz DOT with the detected loop, back-edge and removed
// edges highlighted, and converts DOT to SVG with an embedded Graphviz.
//
// [dot]: github.com/outsider987/Patlytics-hotfix/pkg/render/dot
package render
