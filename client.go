package modlate

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Provider is the capability interface for translation backends. A provider
// translates a batch of texts between one language pair and returns one
// result per input text, in order.
type Provider interface {
	// Name identifies the backend (e.g. "openai:gpt-4o-mini"). It is
	// recorded on cache entries and used for selective purges.
	Name() string

	Translate(ctx context.Context, req ProviderRequest) ([]string, error)
}

// ProviderRequest contains the parameters for one provider call.
type ProviderRequest struct {
	Texts      []string
	Contexts   []string // per-text disambiguation hints, aligned with Texts
	Protected  []string // literal terms that must survive translation verbatim
	SourceLang string
	TargetLang string
}

// Request is a single translation request submitted to the Client.
type Request struct {
	Key       Key
	Text      string
	Context   string
	Protected []string
}

// Result is the outcome of one Request. Exactly one of Record or Err is
// meaningful.
type Result struct {
	Record Record
	Err    error
}

// ClientConfig configures batching, pacing, and retry for a Client.
type ClientConfig struct {
	MaxBatchItems  int           // maximum texts per provider call
	MaxBatchBytes  int           // maximum total text bytes per provider call
	RequestTimeout time.Duration // per-call deadline
	RateLimit      RateLimitConfig
	Retry          RetryConfig
}

// DefaultClientConfig returns conservative defaults suited to chat-style
// translation APIs.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxBatchItems:  25,
		MaxBatchBytes:  4500,
		RequestTimeout: 60 * time.Second,
		RateLimit:      RateLimitConfig{RequestsPerMinute: 60},
		Retry:          DefaultRetryConfig(),
	}
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithClientLogger sets the logger used for request tracing.
func WithClientLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// Client adapts a Provider behind a uniform batch contract: it validates
// requests, splits them into provider-sized sub-batches, paces calls with a
// token bucket, and retries transient failures with jittered backoff.
type Client struct {
	provider Provider
	cfg      ClientConfig
	limiter  *RateLimiter
	log      *zap.Logger
	halted   atomic.Bool
}

// NewClient creates a Client around the given provider.
func NewClient(p Provider, cfg ClientConfig, opts ...ClientOption) *Client {
	def := DefaultClientConfig()
	if cfg.MaxBatchItems <= 0 {
		cfg.MaxBatchItems = def.MaxBatchItems
	}
	if cfg.MaxBatchBytes <= 0 {
		cfg.MaxBatchBytes = def.MaxBatchBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.BaseDelay == 0 {
		cfg.Retry = def.Retry
	}

	c := &Client{
		provider: p,
		cfg:      cfg,
		limiter:  NewRateLimiter(cfg.RateLimit),
		log:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ProviderName returns the identifier of the wrapped provider.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Halt stops the Client from dispatching new sub-batches. The call that is
// currently in flight finishes or times out on its own deadline; requests
// not yet dispatched resolve to UnavailableError.
func (c *Client) Halt() {
	c.halted.Store(true)
}

// TranslateBatch translates a batch of requests. The returned slice is
// aligned with reqs: one Result per Request, order preserved. Malformed
// requests fail fast with RequestError and never reach the provider;
// transient provider failures are retried, and requests that exhaust the
// retry budget resolve to UnavailableError.
func (c *Client) TranslateBatch(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	var pending []int
	for i, req := range reqs {
		if err := c.validate(req); err != nil {
			results[i] = Result{Err: err}
			continue
		}
		pending = append(pending, i)
	}

	for start := 0; start < len(pending); {
		end := c.chunkEnd(reqs, pending, start)
		chunk := pending[start:end]

		if c.halted.Load() || ctx.Err() != nil {
			cause := ctx.Err()
			if cause == nil {
				cause = context.Canceled
			}
			for _, i := range pending[start:] {
				results[i] = Result{Err: &UnavailableError{Message: "batch dispatch stopped", Cause: cause}}
			}
			return results
		}

		c.dispatch(ctx, reqs, chunk, results)
		start = end
	}

	return results
}

// chunkEnd finds the end of the next sub-batch respecting the item and byte
// limits and keeping one language pair per provider call. At least one
// request is always included so an oversized single text still gets its
// chance.
func (c *Client) chunkEnd(reqs []Request, pending []int, start int) int {
	bytes := 0
	end := start
	src := reqs[pending[start]].Key.Source
	dst := reqs[pending[start]].Key.Target
	for end < len(pending) {
		req := reqs[pending[end]]
		if end > start && (req.Key.Source != src || req.Key.Target != dst) {
			break
		}
		size := len(req.Text)
		if end > start && (end-start >= c.cfg.MaxBatchItems || bytes+size > c.cfg.MaxBatchBytes) {
			break
		}
		bytes += size
		end++
	}
	return end
}

// dispatch performs one paced, retried provider call for the chunk and fills
// the corresponding result slots.
func (c *Client) dispatch(ctx context.Context, reqs []Request, chunk []int, results []Result) {
	if err := c.limiter.Wait(ctx); err != nil {
		for _, i := range chunk {
			results[i] = Result{Err: &UnavailableError{Message: "rate limit wait cancelled", Cause: err}}
		}
		return
	}

	first := reqs[chunk[0]]
	preq := ProviderRequest{
		Texts:      make([]string, len(chunk)),
		Contexts:   make([]string, len(chunk)),
		SourceLang: first.Key.Source,
		TargetLang: first.Key.Target,
	}
	seen := make(map[string]bool)
	for j, i := range chunk {
		preq.Texts[j] = reqs[i].Text
		preq.Contexts[j] = reqs[i].Context
		for _, term := range reqs[i].Protected {
			if !seen[term] {
				seen[term] = true
				preq.Protected = append(preq.Protected, term)
			}
		}
	}

	c.log.Debug("dispatching translation batch",
		zap.Int("texts", len(preq.Texts)),
		zap.String("source", preq.SourceLang),
		zap.String("target", preq.TargetLang))

	texts, err := WithRetry(ctx, c.cfg.Retry, func() ([]string, error) {
		tctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
		out, err := c.provider.Translate(tctx, preq)
		if err != nil {
			return nil, err
		}
		if len(out) != len(preq.Texts) {
			return nil, &CountMismatchError{Expected: len(preq.Texts), Got: len(out)}
		}
		return out, nil
	})
	if err != nil {
		c.log.Warn("translation batch failed",
			zap.Int("texts", len(preq.Texts)),
			zap.Error(err))
		var reqErr *RequestError
		for _, i := range chunk {
			if errors.As(err, &reqErr) {
				results[i] = Result{Err: reqErr}
			} else {
				results[i] = Result{Err: &UnavailableError{Message: "retry budget exhausted", Cause: err}}
			}
		}
		return
	}

	now := time.Now().UTC()
	for j, i := range chunk {
		results[i] = Result{Record: Record{
			Key:       reqs[i].Key,
			Text:      texts[j],
			Provider:  c.provider.Name(),
			CreatedAt: now,
		}}
	}
}

// validate fails fast on malformed requests without consuming a retry.
func (c *Client) validate(req Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return &RequestError{Message: "empty source text"}
	}
	if !KnownLanguage(req.Key.Source) || !KnownLanguage(req.Key.Target) {
		return &RequestError{Message: "unsupported language pair " + req.Key.Source + "->" + req.Key.Target}
	}
	if SameLanguage(req.Key.Source, req.Key.Target) {
		return &RequestError{Message: "source and target language are the same"}
	}
	return nil
}
