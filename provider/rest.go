package provider

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hytale-tools/modlate"
)

// RESTProvider translates through a LibreTranslate-compatible HTTP API.
// Useful for self-hosted translation servers where no AI key is available.
type RESTProvider struct {
	client *resty.Client
	apiKey string
	name   string
}

// RESTConfig holds configuration for the REST provider.
type RESTConfig struct {
	BaseURL string        // server base URL, e.g. "http://localhost:5000"
	APIKey  string        // optional API key
	Timeout time.Duration // per-request timeout (default 30s)
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// NewRESTProvider creates a REST provider against a LibreTranslate server.
func NewRESTProvider(cfg RESTConfig) *RESTProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &RESTProvider{client: client, apiKey: cfg.APIKey, name: "libretranslate"}
}

// Name returns "libretranslate".
func (p *RESTProvider) Name() string { return p.name }

// Translate translates each text with one request. The API has no batch
// endpoint, so texts go sequentially; pacing happens in the calling client.
func (p *RESTProvider) Translate(ctx context.Context, req Request) ([]string, error) {
	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		translated, err := p.translateOne(ctx, text, req.SourceLang, req.TargetLang)
		if err != nil {
			return nil, err
		}
		results[i] = translated
	}
	return results, nil
}

func (p *RESTProvider) translateOne(ctx context.Context, text, source, target string) (string, error) {
	var result libreResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(libreRequest{
			Q:      text,
			Source: baseCode(source),
			Target: baseCode(target),
			Format: "text",
			APIKey: p.apiKey,
		}).
		SetResult(&result).
		SetError(&result).
		Post("/translate")
	if err != nil {
		return "", &modlate.ProviderError{
			Message:   "translation request failed",
			Cause:     err,
			Retryable: true,
		}
	}

	if resp.IsError() {
		msg := result.Error
		if msg == "" {
			msg = resp.Status()
		}
		return "", &modlate.ProviderError{
			Message:   "translation server error: " + msg,
			Retryable: resp.StatusCode() == 429 || resp.StatusCode() >= 500,
		}
	}

	return result.TranslatedText, nil
}

// baseCode reduces a locale like "en_US" to the bare language code the API
// expects.
func baseCode(locale string) string {
	norm := modlate.NormalizeLocale(locale)
	if i := strings.Index(norm, "_"); i > 0 {
		return norm[:i]
	}
	return norm
}

var _ Provider = (*RESTProvider)(nil)
