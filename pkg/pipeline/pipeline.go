// Package pipeline runs cycle checks with caching, logging and observability
// hooks.
//
// The cycle package is pure: it never logs, caches or times anything. The
// [Runner] wraps it so the CLI and the HTTP server share one place where
// results are cached by graph content, traces are saved for replay, and
// hooks receive timings.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	res, err := runner.Detect(ctx, g, "1")
//
//	tr, err := runner.Trace(ctx, g, "1", pipeline.TraceOptions{Policy: "skip", Locale: "en"})
//	again, err := runner.LoadTrace(ctx, tr.ID)
//
//	out, err := runner.Eliminate(ctx, g, "1")
//	svg, err := runner.Render(ctx, g, pipeline.RenderOptions{Start: "1", Format: pipeline.FormatSVG})
package pipeline

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/outsider987/Patlytics-hotfix/pkg/cycle"
	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
)

// Operation names used in result cache keys and log lines.
const (
	OpDetect    = "detect"
	OpTrace     = "trace"
	OpEliminate = "eliminate"
	OpRender    = "render"
)

// Render formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// ValidateFormat checks that a render format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid render format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// TraceOptions configures an instrumented run. Empty fields take the cycle
// package defaults.
type TraceOptions struct {
	Policy string `json:"policy,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// Resolve validates the options and converts them to cycle options.
func (o TraceOptions) Resolve() (cycle.Policy, language.Tag, error) {
	policy, err := cycle.ParsePolicy(o.Policy)
	if err != nil {
		return "", language.Und, err
	}
	tag, err := cycle.ParseLocale(o.Locale)
	if err != nil {
		return "", language.Und, err
	}
	return policy, tag, nil
}

// RenderOptions configures a DOT or SVG export.
type RenderOptions struct {
	Start string `json:"start"`

	// Format is FormatDOT or FormatSVG. Empty means FormatDOT.
	Format string `json:"format,omitempty"`

	// Eliminate renders the repaired graph with removed edges dashed
	// instead of highlighting the detected loop.
	Eliminate bool `json:"eliminate,omitempty"`
}

// Validate applies defaults and checks the options.
func (o *RenderOptions) Validate() error {
	if o.Format == "" {
		o.Format = FormatDOT
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	return errs.ValidateStartNode(o.Start)
}

func (o RenderOptions) keyOp() string {
	op := fmt.Sprintf("%s:%s", OpRender, o.Format)
	if o.Eliminate {
		op += ":eliminate"
	}
	return op
}

// Stats describes one runner call.
type Stats struct {
	NodeCount int
	EdgeCount int
	Duration  time.Duration
	Cached    bool
}
