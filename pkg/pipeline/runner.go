package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/outsider987/Patlytics-hotfix/pkg/cache"
	"github.com/outsider987/Patlytics-hotfix/pkg/cycle"
	errs "github.com/outsider987/Patlytics-hotfix/pkg/errors"
	"github.com/outsider987/Patlytics-hotfix/pkg/graph"
	"github.com/outsider987/Patlytics-hotfix/pkg/observability"
	"github.com/outsider987/Patlytics-hotfix/pkg/render/dot"
)

// Runner wraps the cycle operations with caching, logging and hooks.
// Both CLI and API use it so they report and cache results the same way.
//
// The Runner holds no per-call state. Multiple goroutines can share one
// Runner as long as the Cache is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TraceTTL is how long saved traces stay replayable.
	TraceTTL time.Duration

	// ResultTTL is how long detect, eliminate and render results are reused.
	ResultTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		TraceTTL:  cache.TTLTrace,
		ResultTTL: cache.TTLResult,
	}
}

// Detect runs [cycle.Detect], reusing a cached result for the same graph
// content and start node.
func (r *Runner) Detect(ctx context.Context, g *graph.Graph, start string) (cycle.Result, Stats, error) {
	t0 := time.Now()
	stats := statsOf(g)

	key, ok := r.resultKey(g, start, OpDetect)
	if ok {
		var res cycle.Result
		if r.loadJSON(ctx, cache.KeyTypeResult, key, &res) {
			stats.Duration, stats.Cached = time.Since(t0), true
			r.Logger.Debug("detect result from cache", "start", start, "found", res.Found)
			return res, stats, nil
		}
	}

	res, err := cycle.Detect(g, start)
	stats.Duration = time.Since(t0)
	observability.Pipeline().OnDetectComplete(ctx, start, stats.NodeCount, res.Found, stats.Duration, err)
	if err != nil {
		return res, stats, err
	}

	r.Logger.Info("checked citations",
		"start", start,
		"nodes", stats.NodeCount,
		"found", res.Found,
		"duration", stats.Duration)
	if ok {
		r.storeJSON(ctx, cache.KeyTypeResult, key, res, r.ResultTTL)
	}
	return res, stats, nil
}

// Trace runs [cycle.DetectWithTrace]. Traces are not cached by input since
// every trace gets a fresh id; call [Runner.SaveTrace] to keep one.
func (r *Runner) Trace(ctx context.Context, g *graph.Graph, start string, opts TraceOptions) (cycle.Trace, error) {
	policy, tag, err := opts.Resolve()
	if err != nil {
		return cycle.Trace{}, err
	}

	t0 := time.Now()
	tr, err := cycle.DetectWithTrace(g, start, cycle.WithPolicy(policy), cycle.WithLocale(tag))
	d := time.Since(t0)
	observability.Pipeline().OnTraceComplete(ctx, start, string(policy), tr.Len(), tr.Result.Found, d, err)
	if err != nil {
		return tr, err
	}

	r.Logger.Info("recorded trace",
		"id", tr.ID,
		"policy", policy,
		"steps", tr.Len(),
		"found", tr.Result.Found,
		"duration", d)
	return tr, nil
}

// SaveTrace stores tr under its id for [Runner.LoadTrace].
func (r *Runner) SaveTrace(ctx context.Context, tr cycle.Trace) error {
	if _, err := uuid.Parse(tr.ID); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid trace id: %q", tr.ID)
	}
	data, err := json.Marshal(tr)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode trace")
	}
	if err := r.Cache.Set(ctx, r.Keyer.TraceKey(tr.ID), data, r.TraceTTL); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "save trace %s", tr.ID)
	}
	observability.Cache().OnCacheSet(ctx, cache.KeyTypeTrace, len(data))
	r.Logger.Debug("saved trace", "id", tr.ID, "bytes", len(data))
	return nil
}

// LoadTrace returns a trace saved with [Runner.SaveTrace]. Unknown or
// expired ids fail with TRACE_NOT_FOUND.
func (r *Runner) LoadTrace(ctx context.Context, id string) (cycle.Trace, error) {
	if _, err := uuid.Parse(id); err != nil {
		return cycle.Trace{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid trace id: %q", id)
	}

	data, hit, err := r.Cache.Get(ctx, r.Keyer.TraceKey(id))
	if err != nil {
		return cycle.Trace{}, errs.Wrap(errs.ErrCodeInternal, err, "load trace %s", id)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeTrace)
		return cycle.Trace{}, errs.New(errs.ErrCodeTraceNotFound, "trace not found: %s", id)
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyTypeTrace)

	var tr cycle.Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return cycle.Trace{}, errs.Wrap(errs.ErrCodeInternal, err, "decode trace %s", id)
	}
	return tr, nil
}

// Step returns step index of a saved trace.
func (r *Runner) Step(ctx context.Context, id string, index int) (cycle.Step, error) {
	tr, err := r.LoadTrace(ctx, id)
	if err != nil {
		return cycle.Step{}, err
	}
	st, ok := tr.At(index)
	if !ok {
		return cycle.Step{}, errs.New(errs.ErrCodeNotFound, "step %d out of range: trace has %d steps", index, tr.Len())
	}
	return st, nil
}

// Eliminate runs [cycle.Eliminate]. A start node missing from g still
// returns the unchanged copy, together with a NODE_NOT_FOUND error.
func (r *Runner) Eliminate(ctx context.Context, g *graph.Graph, start string) (cycle.Elimination, Stats, error) {
	t0 := time.Now()
	stats := statsOf(g)

	if g == nil || !g.Has(start) {
		out := cycle.Eliminate(g, start)
		return out, stats, errs.Wrap(errs.ErrCodeNodeNotFound, cycle.ErrNodeNotFound, "node not found: %s", start)
	}

	key, ok := r.resultKey(g, start, OpEliminate)
	if ok {
		var out cycle.Elimination
		if r.loadJSON(ctx, cache.KeyTypeResult, key, &out) && out.DAG != nil {
			stats.Duration, stats.Cached = time.Since(t0), true
			r.Logger.Debug("elimination from cache", "start", start, "removed", len(out.RemovedEdges))
			return out, stats, nil
		}
	}

	out := cycle.Eliminate(g, start)
	stats.Duration = time.Since(t0)
	observability.Pipeline().OnEliminateComplete(ctx, start, len(out.RemovedEdges), stats.Duration)

	r.Logger.Info("eliminated cycles",
		"start", start,
		"removed", len(out.RemovedEdges),
		"duration", stats.Duration)
	if ok {
		r.storeJSON(ctx, cache.KeyTypeResult, key, out, r.ResultTTL)
	}
	return out, stats, nil
}

// Render exports g as DOT or SVG. The detected loop is highlighted, or with
// opts.Eliminate the repaired graph is drawn with removed edges dashed.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, opts RenderOptions) ([]byte, Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, Stats{}, err
	}
	t0 := time.Now()
	stats := statsOf(g)
	if g == nil || !g.Has(opts.Start) {
		return nil, stats, errs.Wrap(errs.ErrCodeNodeNotFound, cycle.ErrNodeNotFound, "node not found: %s", opts.Start)
	}

	key, ok := r.resultKey(g, opts.Start, opts.keyOp())
	if ok {
		if data, hit := r.load(ctx, cache.KeyTypeResult, key); hit {
			stats.Duration, stats.Cached = time.Since(t0), true
			return data, stats, nil
		}
	}

	var src string
	if opts.Eliminate {
		out := cycle.Eliminate(g, opts.Start)
		src = dot.ToDOT(out.DAG, dot.Options{Start: opts.Start, Removed: out.RemovedEdges})
	} else {
		res, err := cycle.Detect(g, opts.Start)
		if err != nil {
			return nil, stats, err
		}
		src = dot.ToDOT(g, dot.Options{Start: opts.Start, Loop: res.LoopPath, CycleEdge: res.CycleEdge})
	}

	data := []byte(src)
	if opts.Format == FormatSVG {
		svg, err := dot.RenderSVG(ctx, src)
		if err != nil {
			return nil, stats, errs.Wrap(errs.ErrCodeInternal, err, "render svg")
		}
		data = svg
	}
	stats.Duration = time.Since(t0)

	r.Logger.Debug("rendered graph", "format", opts.Format, "bytes", len(data), "duration", stats.Duration)
	if ok {
		r.store(ctx, cache.KeyTypeResult, key, data, r.ResultTTL)
	}
	return data, stats, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func statsOf(g *graph.Graph) Stats {
	if g == nil {
		return Stats{}
	}
	return Stats{NodeCount: g.Len(), EdgeCount: g.EdgeCount()}
}

// resultKey hashes the graph content. It reports false when g cannot be
// keyed, in which case the call is not cached.
func (r *Runner) resultKey(g *graph.Graph, start, op string) (string, bool) {
	if g == nil {
		return "", false
	}
	data, err := json.Marshal(g)
	if err != nil {
		return "", false
	}
	return r.Keyer.ResultKey(cache.Hash(data), start, op), true
}

// load reads a cache entry. Backend errors are logged and treated as misses.
func (r *Runner) load(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key_type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) loadJSON(ctx context.Context, keyType, key string, v any) bool {
	data, hit := r.load(ctx, keyType, key)
	if !hit {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Recompute and overwrite below.
		r.Logger.Debug("discarding undecodable cache entry", "key_type", keyType, "err", err)
		return false
	}
	return true
}

func (r *Runner) storeJSON(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.store(ctx, keyType, key, data, ttl)
}
