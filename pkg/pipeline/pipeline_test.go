package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/outsider987/Patlytics-hotfix/pkg/cache"
	"github.com/outsider987/Patlytics-hotfix/pkg/cycle"
	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
	"github.com/outsider987/Patlytics-hotfix/pkg/observability"
)

func newTestRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func citeLoop(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.FromMap(map[string][]string{
		"1": {"2", "7"},
		"2": {"3", "4"},
		"3": {"2", "1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"DOT", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errs.GetCode(err))
		}
	}
}

func TestRenderOptionsValidate(t *testing.T) {
	o := RenderOptions{Start: "1"}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if o.Format != FormatDOT {
		t.Errorf("default format = %q, want dot", o.Format)
	}

	if err := (&RenderOptions{}).Validate(); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("missing start error = %v", err)
	}
	if err := (&RenderOptions{Start: "1", Format: "pdf"}).Validate(); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
}

func TestTraceOptionsResolve(t *testing.T) {
	policy, tag, err := TraceOptions{}.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if policy != cycle.PolicyStop || tag != cycle.DefaultLocale {
		t.Errorf("defaults = %s, %s", policy, tag)
	}

	if _, _, err := (TraceOptions{Policy: "retry"}).Resolve(); !errs.Is(err, errs.ErrCodeInvalidPolicy) {
		t.Errorf("bad policy error = %v", err)
	}
	if _, _, err := (TraceOptions{Locale: "??"}).Resolve(); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad locale error = %v", err)
	}
}

func TestDetectCachesResult(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(cache.NewMemoryCache())
	g := citeLoop(t)

	first, stats, err := r.Detect(ctx, g, "1")
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if !first.Found || stats.Cached || stats.NodeCount != 3 || stats.EdgeCount != 6 {
		t.Errorf("first run = %+v, %+v", first, stats)
	}

	second, stats, err := r.Detect(ctx, g.Clone(), "1")
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if !stats.Cached {
		t.Error("second run on identical graph should hit the cache")
	}
	if strings.Join(second.LoopPath, ",") != "2,3,2" || *second.CycleEdge != *first.CycleEdge {
		t.Errorf("cached result = %+v, want %+v", second, first)
	}

	if _, stats, _ := r.Detect(ctx, g, "2"); stats.Cached {
		t.Error("different start node must not share a cache entry")
	}
}

func TestDetectMissingStartIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()
	r := newTestRunner(c)

	res, _, err := r.Detect(ctx, citeLoop(t), "99")
	if !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Fatalf("error = %v, want NODE_NOT_FOUND", err)
	}
	if res.Found || res.Error == "" {
		t.Errorf("result = %+v", res)
	}
	if c.Len() != 0 {
		t.Errorf("failed detection was cached (%d entries)", c.Len())
	}
}

func TestTraceSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(cache.NewMemoryCache())

	tr, err := r.Trace(ctx, citeLoop(t), "1", TraceOptions{Policy: "skip", Locale: "en"})
	if err != nil {
		t.Fatalf("Trace() error: %v", err)
	}
	if tr.Policy != cycle.PolicySkip || tr.Locale != "en" {
		t.Errorf("trace options not applied: %s %s", tr.Policy, tr.Locale)
	}
	if err := r.SaveTrace(ctx, tr); err != nil {
		t.Fatalf("SaveTrace() error: %v", err)
	}

	got, err := r.LoadTrace(ctx, tr.ID)
	if err != nil {
		t.Fatalf("LoadTrace() error: %v", err)
	}
	if got.Len() != tr.Len() || got.Result.Handled != tr.Result.Handled {
		t.Errorf("loaded trace differs: %d steps, want %d", got.Len(), tr.Len())
	}

	last, err := r.Step(ctx, tr.ID, tr.Len()-1)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if last.Action != cycle.ActionComplete {
		t.Errorf("last step = %s, want COMPLETE", last.Action)
	}
	if _, err := r.Step(ctx, tr.ID, tr.Len()); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("out of range step error = %v", err)
	}
}

func TestLoadTraceErrors(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(cache.NewMemoryCache())

	if _, err := r.LoadTrace(ctx, "not-a-uuid"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad id error = %v", err)
	}
	if _, err := r.LoadTrace(ctx, "6f1c2a9e-8a4e-4f5b-9a57-2d0f1b0f7c11"); !errs.Is(err, errs.ErrCodeTraceNotFound) {
		t.Errorf("unknown id error = %v", err)
	}

	nothing := newTestRunner(nil)
	tr, err := nothing.Trace(ctx, citeLoop(t), "1", TraceOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := nothing.SaveTrace(ctx, tr); err != nil {
		t.Fatalf("SaveTrace() with caching disabled: %v", err)
	}
	if _, err := nothing.LoadTrace(ctx, tr.ID); !errs.Is(err, errs.ErrCodeTraceNotFound) {
		t.Errorf("null cache should never return a trace, got %v", err)
	}
}

func TestTraceRejectsBadOptions(t *testing.T) {
	r := newTestRunner(nil)
	if _, err := r.Trace(context.Background(), citeLoop(t), "1", TraceOptions{Policy: "ignore"}); !errs.Is(err, errs.ErrCodeInvalidPolicy) {
		t.Errorf("error = %v, want INVALID_POLICY", err)
	}
}

func TestEliminate(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(cache.NewMemoryCache())
	g := citeLoop(t)

	out, stats, err := r.Eliminate(ctx, g, "1")
	if err != nil {
		t.Fatalf("Eliminate() error: %v", err)
	}
	if stats.Cached || len(out.RemovedEdges) != 2 {
		t.Errorf("Eliminate() = %v removed, cached %v", out.RemovedEdges, stats.Cached)
	}
	if out.DAG.HasCycleFrom("1") {
		t.Error("result still has a cycle")
	}
	if g.EdgeCount() != 6 {
		t.Error("input graph was modified")
	}

	again, stats, err := r.Eliminate(ctx, g, "1")
	if err != nil || !stats.Cached {
		t.Fatalf("second Eliminate() cached=%v err=%v", stats.Cached, err)
	}
	if again.DAG.EdgeCount() != out.DAG.EdgeCount() || len(again.RemovedEdges) != 2 {
		t.Errorf("cached elimination differs: %+v", again)
	}
}

func TestEliminateMissingStart(t *testing.T) {
	out, _, err := newTestRunner(nil).Eliminate(context.Background(), citeLoop(t), "99")
	if !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Fatalf("error = %v, want NODE_NOT_FOUND", err)
	}
	if out.DAG.EdgeCount() != 6 || len(out.RemovedEdges) != 0 {
		t.Errorf("missing start should leave the graph alone: %+v", out)
	}
}

func TestRenderDOT(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(cache.NewMemoryCache())
	g := citeLoop(t)

	data, _, err := r.Render(ctx, g, RenderOptions{Start: "1"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(string(data), `label="back-edge"`) {
		t.Errorf("detected loop not highlighted:\n%s", data)
	}

	data, _, err = r.Render(ctx, g, RenderOptions{Start: "1", Eliminate: true})
	if err != nil {
		t.Fatalf("Render(eliminate) error: %v", err)
	}
	if strings.Count(string(data), `label="removed"`) != 2 {
		t.Errorf("removed edges not drawn:\n%s", data)
	}

	if _, stats, _ := r.Render(ctx, g, RenderOptions{Start: "1"}); !stats.Cached {
		t.Error("identical render should hit the cache")
	}
	if _, _, err := r.Render(ctx, g, RenderOptions{Start: "99"}); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("missing start error = %v", err)
	}
}

func TestRunnerCallsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)

	ctx := context.Background()
	r := newTestRunner(cache.NewMemoryCache())
	g := citeLoop(t)

	_, _, _ = r.Detect(ctx, g, "1")
	_, _, _ = r.Detect(ctx, g, "1")
	_, _, _ = r.Eliminate(ctx, g, "1")

	if hooks.detects != 1 || hooks.eliminates != 1 {
		t.Errorf("pipeline hooks: detects=%d eliminates=%d", hooks.detects, hooks.eliminates)
	}
	if hooks.hits != 1 || hooks.misses != 2 || hooks.sets != 2 {
		t.Errorf("cache hooks: hits=%d misses=%d sets=%d", hooks.hits, hooks.misses, hooks.sets)
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	detects, eliminates int
	hits, misses, sets  int
}

func (h *countingHooks) OnDetectComplete(context.Context, string, int, bool, time.Duration, error) {
	h.detects++
}

func (h *countingHooks) OnEliminateComplete(context.Context, string, int, time.Duration) {
	h.eliminates++
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }
