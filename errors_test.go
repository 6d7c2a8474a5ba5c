package modlate

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&FormatError{Format: "lang", Message: "bad line"}, `format error (lang): bad line`},
		{&RequestError{Message: "empty source text"}, `invalid request: empty source text`},
		{&UnavailableError{Message: "retry budget exhausted"}, `translation unavailable: retry budget exhausted`},
		{&MergeError{UnitID: "item.sword.name", Message: "no text for unit"}, `merge error (unit item.sword.name): no text for unit`},
		{&CacheError{Message: "disk full"}, `cache error: disk full`},
		{&ProviderError{Message: "boom"}, `provider error: boom`},
		{&CountMismatchError{Expected: 3, Got: 2}, `translation count mismatch: expected 3, got 2`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	root := errors.New("disk gone")

	var ce error = &CacheError{Message: "store failed", Cause: root}
	if !errors.Is(ce, root) {
		t.Error("CacheError should unwrap to its cause")
	}

	var ue error = &UnavailableError{Message: "gave up", Cause: &ProviderError{Message: "503", Retryable: true}}
	var pe *ProviderError
	if !errors.As(ue, &pe) {
		t.Error("UnavailableError should unwrap to ProviderError")
	}

	if !strings.Contains(ue.Error(), "503") {
		t.Errorf("wrapped cause missing from message: %q", ue.Error())
	}
}
