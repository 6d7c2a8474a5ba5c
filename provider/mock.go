package provider

import (
	"context"
	"fmt"
)

// MockProvider is a provider for tests and dry runs.
type MockProvider struct {
	Translations map[string]string // source text to translation
	CallCount    int               // number of Translate calls
	LastRequest  *Request          // last request received
	Err          error             // if set, Translate returns it
}

// NewMockProvider creates a mock with a few default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":      "Hola",
			"Bye":        "Adios",
			"Iron Sword": "Espada de Hierro",
		},
	}
}

// Name returns "mock".
func (m *MockProvider) Name() string { return "mock" }

// Translate returns configured translations, bracketing unknown texts.
func (m *MockProvider) Translate(_ context.Context, req Request) ([]string, error) {
	m.CallCount++
	reqCopy := req
	m.LastRequest = &reqCopy

	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}
	return results, nil
}

// Reset clears the call count and last request.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
}

var _ Provider = (*MockProvider)(nil)
