// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/outsider987/Patlytics-hotfix/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/outsider987/Patlytics-hotfix/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/outsider987/Patlytics-hotfix/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/citecheck
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// UserAgent identifies citecheck in outbound requests and server headers.
func UserAgent() string {
	return "citecheck/" + Version
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}
