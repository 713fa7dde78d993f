package cycle

import (
	"github.com/google/uuid"
	"golang.org/x/text/language"

	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
)

// Policy decides what the instrumented walk does when it meets a back-edge.
type Policy string

const (
	// PolicyStop ends the walk at the first cycle. The last step is
	// CYCLE_FOUND and no COMPLETE step is emitted.
	PolicyStop Policy = "stop"

	// PolicySkip records the back-edge, emits SKIP_CYCLE and keeps walking.
	// Visited nodes are never re-explored, so every reachable node is
	// expanded at most once. The last step is COMPLETE.
	PolicySkip Policy = "skip"
)

// ParsePolicy parses "stop" or "skip". An empty string yields PolicyStop.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyStop:
		return PolicyStop, nil
	case PolicySkip:
		return PolicySkip, nil
	}
	return "", errs.New(errs.ErrCodeInvalidPolicy, "invalid policy %q (must be stop or skip)", s)
}

type options struct {
	policy Policy
	locale language.Tag
}

// Option configures DetectWithTrace.
type Option func(*options)

// WithPolicy sets the cycle policy. Unknown values fall back to PolicyStop.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		if p == PolicySkip {
			o.policy = PolicySkip
		}
	}
}

// WithLocale sets the locale of Step.LocalizedMessage.
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.locale = tag }
}

// Trace is the recorded walk of one DetectWithTrace call.
type Trace struct {
	ID     string `json:"id"`
	Start  string `json:"start"`
	Policy Policy `json:"policy"`
	Locale string `json:"locale"`

	Result Result `json:"result"`
	Steps  []Step `json:"steps"`

	// SkippedEdges lists every back-edge tolerated under PolicySkip, in the
	// order they were met.
	SkippedEdges []graph.Edge `json:"skippedEdges,omitempty"`
}

// Len returns the number of recorded steps.
func (t *Trace) Len() int { return len(t.Steps) }

// At returns step i, or false when i is out of range.
func (t *Trace) At(i int) (Step, bool) {
	if i < 0 || i >= len(t.Steps) {
		return Step{}, false
	}
	return t.Steps[i], true
}

// Last returns the final step, or false for an empty trace.
func (t *Trace) Last() (Step, bool) {
	return t.At(len(t.Steps) - 1)
}

// DetectWithTrace runs the same walk as [Detect] and records a [Step] at
// every decision point. Under the default [PolicyStop] its Result equals
// Detect's for the same input.
//
// A start node that is not a key of g yields a trace with no steps, a Result
// carrying the diagnostic, and a NODE_NOT_FOUND error.
func DetectWithTrace(g *graph.Graph, start string, opts ...Option) (Trace, error) {
	o := options{policy: PolicyStop, locale: DefaultLocale}
	for _, opt := range opts {
		opt(&o)
	}

	t := Trace{
		ID:     uuid.NewString(),
		Start:  start,
		Policy: o.policy,
		Locale: o.locale.String(),
		Steps:  []Step{},
	}
	if err := checkInput(g, start); err != nil {
		t.Result = Result{Error: errs.UserMessage(err)}
		return t, err
	}

	rec := &recorder{narrator: newNarrator(o.locale)}
	w := newWalker(g, o.policy, rec)
	h := w.run(start)

	t.Steps = rec.steps
	t.SkippedEdges = w.skipped
	t.Result = resultOf(h, o.policy, len(w.skipped))
	return t, nil
}
