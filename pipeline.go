package modlate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Cache is the persistent store for translation records. Implementations
// must support concurrent lookups; writes for the same key are
// last-writer-wins.
type Cache interface {
	Lookup(ctx context.Context, key Key) (Record, bool, error)
	Store(ctx context.Context, rec Record) error
	Flush(ctx context.Context) error
}

// FileJob is one mod file submitted to the pipeline.
type FileJob struct {
	// Name identifies the file in reports and outputs.
	Name string

	// Format is the identifier of the registered extractor to use.
	Format string

	Data []byte
}

// FileOutput is the merged result of one file that reached Done.
type FileOutput struct {
	Name string
	Data []byte
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithCache sets the translation cache.
func WithCache(c Cache) PipelineOption {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithFormats registers extractors with the pipeline.
func WithFormats(formats ...Format) PipelineOption {
	return func(p *Pipeline) {
		for _, f := range formats {
			p.formats[f.Name()] = f
		}
	}
}

// WithWorkers bounds the number of files extracted and merged concurrently.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(log *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.log = log
	}
}

// Pipeline coordinates extraction, cache lookup, translation, and merge
// across a batch of mod files.
type Pipeline struct {
	sourceLang string
	targetLang string
	client     *Client
	formats    map[string]Format
	workers    int
	log        *zap.Logger
	cancelled  atomic.Bool

	mu       sync.Mutex
	cache    Cache
	degraded bool
}

// NewPipeline creates a pipeline for one language pair. Without WithCache
// the pipeline runs on a non-persistent in-memory cache.
func NewPipeline(sourceLang, targetLang string, client *Client, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		sourceLang: NormalizeLocale(sourceLang),
		targetLang: NormalizeLocale(targetLang),
		client:     client,
		formats:    make(map[string]Format),
		workers:    4,
		log:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.cache == nil {
		p.cache = newFallbackCache()
	}

	return p
}

// Cancel signals cooperative cancellation: the in-flight provider call is
// allowed to finish or time out, no new batches are dispatched, and files
// that cannot complete are reported as failed without output.
func (p *Pipeline) Cancel() {
	p.cancelled.Store(true)
	if p.client != nil {
		p.client.Halt()
	}
}

// Cancelled reports whether Cancel has been signaled.
func (p *Pipeline) Cancelled() bool {
	return p.cancelled.Load()
}

// fileState tracks one file's progress through the run.
type fileState struct {
	job    FileJob
	skel   Skeleton
	units  []TranslationUnit
	report FileReport

	// final text per unit ID, filled during translation
	texts map[string]string

	// set when a unit failed because cancellation stopped its batch
	cancelledUnit bool
}

// unitRef points at one unit occurrence within a file.
type unitRef struct {
	file *fileState
	unit *TranslationUnit
}

// Run executes the pipeline over a batch of files. Each file's state machine
// runs independently: format and merge errors fail only that file, unit
// failures degrade its content. The returned outputs contain only files that
// reached Done.
func (p *Pipeline) Run(ctx context.Context, files []FileJob) ([]FileOutput, *JobReport, error) {
	start := time.Now()
	report := &JobReport{}

	states := p.extractAll(ctx, files)

	// Dedup across the whole batch: at most one provider request per
	// distinct key.
	byKey := make(map[Key][]unitRef)
	var keyOrder []Key
	for _, st := range states {
		if st.report.State == StateFailed {
			continue
		}
		st.report.State = StateLookupPending
		for i := range st.units {
			u := &st.units[i]
			if u.Skip {
				st.texts[u.ID] = u.Text
				st.report.addUnit(u.ID, StatusSkipped, "")
				continue
			}
			key := NewKey(u.Text, p.sourceLang, p.targetLang)
			if _, seen := byKey[key]; !seen {
				keyOrder = append(keyOrder, key)
			}
			byKey[key] = append(byKey[key], unitRef{file: st, unit: u})
		}
	}

	misses := p.lookupAll(ctx, byKey, keyOrder, report)

	p.translateMisses(ctx, byKey, misses, report)

	if err := p.currentCache().Flush(ctx); err != nil {
		p.degradeCache(report, err)
	}

	outputs := p.mergeAll(ctx, states)

	for _, st := range states {
		report.add(st.report)
	}
	report.Elapsed = time.Since(start)

	p.log.Info("pipeline run finished",
		zap.Int("files", len(files)),
		zap.Int("done", report.FilesDone),
		zap.Int("failed", report.FilesFailed),
		zap.Int("cached", report.Cached),
		zap.Int("translated", report.Translated),
		zap.Duration("elapsed", report.Elapsed))

	return outputs, report, nil
}

// extractAll runs extraction for every file on the worker pool. Extraction
// is all-or-nothing per file: a parse failure marks the file failed before
// any translation work starts.
func (p *Pipeline) extractAll(ctx context.Context, files []FileJob) []*fileState {
	states := make([]*fileState, len(files))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, job := range files {
		i, job := i, job
		g.Go(func() error {
			st := &fileState{
				job:    job,
				report: FileReport{Name: job.Name, State: StateExtracting},
				texts:  make(map[string]string),
			}
			states[i] = st

			f, ok := p.formats[job.Format]
			if !ok {
				st.report.State = StateFailed
				st.report.Error = fmt.Sprintf("no format registered for %q", job.Format)
				return nil
			}

			skel, units, err := f.Extract(job.Data)
			if err != nil {
				p.log.Warn("extraction failed",
					zap.String("file", job.Name),
					zap.Error(err))
				st.report.State = StateFailed
				st.report.Error = err.Error()
				return nil
			}
			st.skel = skel
			st.units = units
			return nil
		})
	}
	_ = g.Wait()

	return states
}

// lookupAll probes the cache for every distinct key and returns the misses
// in first-seen order. Cache read failures degrade the run to an in-memory
// cache rather than aborting.
func (p *Pipeline) lookupAll(ctx context.Context, byKey map[Key][]unitRef, keyOrder []Key, report *JobReport) []Key {
	cache := p.currentCache()
	type hit struct {
		key Key
		rec Record
		ok  bool
		err error
	}

	hits := make([]hit, len(keyOrder))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, key := range keyOrder {
		i, key := i, key
		g.Go(func() error {
			rec, ok, err := cache.Lookup(gctx, key)
			hits[i] = hit{key: key, rec: rec, ok: ok, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var misses []Key
	for _, h := range hits {
		if h.err != nil {
			p.degradeCache(report, h.err)
			misses = append(misses, h.key)
			continue
		}
		if !h.ok {
			misses = append(misses, h.key)
			continue
		}
		for _, ref := range byKey[h.key] {
			ref.file.texts[ref.unit.ID] = h.rec.Text
			ref.file.report.addUnit(ref.unit.ID, StatusCached, "")
		}
	}
	return misses
}

// translateMisses sends one request per distinct missing key, stores
// successful records, and records per-unit outcomes.
func (p *Pipeline) translateMisses(ctx context.Context, byKey map[Key][]unitRef, misses []Key, report *JobReport) {
	if len(misses) == 0 {
		return
	}

	for _, key := range misses {
		for _, ref := range byKey[key] {
			ref.file.report.State = StateTranslating
		}
	}

	reqs := make([]Request, len(misses))
	for i, key := range misses {
		u := byKey[key][0].unit
		reqs[i] = Request{Key: key, Text: u.Text, Context: u.Context, Protected: u.Protected}
	}

	results := p.client.TranslateBatch(ctx, reqs)

	for i, res := range results {
		key := misses[i]
		refs := byKey[key]
		if res.Err != nil {
			cancelled := errors.Is(res.Err, context.Canceled)
			for _, ref := range refs {
				ref.file.texts[ref.unit.ID] = ref.unit.Text
				ref.file.report.addUnit(ref.unit.ID, StatusFailed, res.Err.Error())
				if cancelled {
					ref.file.cancelledUnit = true
				}
			}
			continue
		}

		if err := p.currentCache().Store(ctx, res.Record); err != nil {
			p.degradeCache(report, err)
			// The record still lives in the fallback for this run.
			_ = p.currentCache().Store(ctx, res.Record)
		}
		for _, ref := range refs {
			ref.file.texts[ref.unit.ID] = res.Record.Text
			ref.file.report.addUnit(ref.unit.ID, StatusTranslated, "")
		}
	}
}

// mergeAll renders every surviving file on the worker pool. Within a file
// the merged ordering always matches the original unit ordering because the
// skeleton owns the layout; translation completion order is irrelevant.
func (p *Pipeline) mergeAll(ctx context.Context, states []*fileState) []FileOutput {
	outputs := make([]FileOutput, len(states))
	present := make([]bool, len(states))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, st := range states {
		i, st := i, st
		if st.report.State == StateFailed {
			continue
		}
		g.Go(func() error {
			if st.cancelledUnit {
				st.report.State = StateFailed
				st.report.Error = "cancelled"
				return nil
			}

			st.report.State = StateMerging
			data, err := st.skel.Render(st.texts)
			if err != nil {
				p.log.Error("merge failed",
					zap.String("file", st.job.Name),
					zap.Error(err))
				st.report.State = StateFailed
				st.report.Error = err.Error()
				return nil
			}
			outputs[i] = FileOutput{Name: st.job.Name, Data: data}
			present[i] = true
			st.report.State = StateDone
			return nil
		})
	}
	_ = g.Wait()

	var out []FileOutput
	for i := range outputs {
		if present[i] {
			out = append(out, outputs[i])
		}
	}
	return out
}

// currentCache returns the cache in effect, which may be the in-memory
// fallback after degradation.
func (p *Pipeline) currentCache() Cache {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache
}

// degradeCache swaps the cache for an in-memory fallback after a
// persistence failure and records a warning in the report. The job
// continues; only durability is lost.
func (p *Pipeline) degradeCache(report *JobReport, cause error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.degraded {
		return
	}
	p.degraded = true
	p.cache = newFallbackCache()
	cerr := &CacheError{Message: "persistence failed, continuing in memory", Cause: cause}
	report.CacheWarning = cerr.Error()
	p.log.Warn("cache degraded to memory", zap.Error(cause))
}

// fallbackCache is the minimal in-memory cache used when persistence fails
// mid-run. The cache package provides the real memory implementation for
// explicit use.
type fallbackCache struct {
	mu   sync.RWMutex
	recs map[Key]Record
}

func newFallbackCache() *fallbackCache {
	return &fallbackCache{recs: make(map[Key]Record)}
}

func (c *fallbackCache) Lookup(_ context.Context, key Key) (Record, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.recs[key]
	return rec, ok, nil
}

func (c *fallbackCache) Store(_ context.Context, rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs[rec.Key] = rec
	return nil
}

func (c *fallbackCache) Flush(context.Context) error { return nil }
