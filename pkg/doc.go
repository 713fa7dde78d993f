// Package pkg holds the citecheck libraries. Commands live in internal/cli
// and the HTTP API in internal/server; both are thin layers over these
// packages.
//
// # Layout
//
//   - [graph]: the citation graph model and id normalization
//   - [graphio]: JSON, YAML and edge list readers and writers
//   - [cycle]: cycle detection, step traces and cycle elimination
//   - [pipeline]: cached, observed runs of the cycle operations
//   - [cache]: null, memory, file and Redis result stores
//   - [render]: DOT and SVG output
//   - [observability]: hook interfaces and the Prometheus implementation
//   - [config]: TOML configuration with environment overrides
//   - [errors]: coded errors shared by every layer
//
// # Data flow
//
//	citations.json ─→ graphio.Read ─→ *graph.Graph
//	                                       │
//	              pipeline.Runner ─────────┤ (cache lookup by graph hash)
//	                                       ↓
//	         cycle.Detect / DetectWithTrace / Eliminate
//	                                       ↓
//	            Result, Trace, Elimination ─→ CLI, HTTP, render/dot
//
// [graph]: github.com/outsider987/Patlytics-hotfix/pkg/graph
// [graphio]: github.com/outsider987/Patlytics-hotfix/pkg/graphio
// [cycle]: github.com/outsider987/Patlytics-hotfix/pkg/cycle
// [pipeline]: github.com/outsider987/Patlytics-hotfix/pkg/pipeline
// [cache]: github.com/outsider987/Patlytics-hotfix/pkg/cache
// [render]: github.com/outsider987/Patlytics-hotfix/pkg/render
// [observability]: github.com/outsider987/Patlytics-hotfix/pkg/observability
// [config]: github.com/outsider987/Patlytics-hotfix/pkg/config
// [errors]: github.com/outsider987/Patlytics-hotfix/pkg/errors
package pkg
