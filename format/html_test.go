package format

import (
	"strings"
	"testing"
)

const sampleHTML = `<html><head><title>Changelog</title></head><body>
<h1>What's New</h1>
<p>Added dungeons.</p>
<script>var x = "not text";</script>
<div data-no-translate>KeepMe</div>
<p>Added dungeons.</p>
</body></html>`

func TestHTMLExtract(t *testing.T) {
	f := NewHTMLFormat()
	_, units, err := f.Extract([]byte(sampleHTML))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	texts := make(map[string]bool)
	for _, u := range units {
		texts[u.Text] = true
	}

	for _, want := range []string{"Changelog", "What's New", "Added dungeons."} {
		if !texts[want] {
			t.Errorf("expected unit %q, got %+v", want, units)
		}
	}
	if texts[`var x = "not text";`] {
		t.Error("script content must not be extracted")
	}
	if texts["KeepMe"] {
		t.Error("data-no-translate content must not be extracted")
	}

	// The repeated paragraph dedupes to a single unit.
	count := 0
	for _, u := range units {
		if u.Text == "Added dungeons." {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate text produced %d units, want 1", count)
	}
}

func TestHTMLRenderAppliesEverywhere(t *testing.T) {
	f := NewHTMLFormat()
	skel, units, err := f.Extract([]byte(sampleHTML))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	texts := make(map[string]string, len(units))
	for _, u := range units {
		if u.Text == "Added dungeons." {
			texts[u.ID] = "Mazmorras nuevas."
		} else {
			texts[u.ID] = u.Text
		}
	}

	out, err := skel.Render(texts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := string(out)
	if strings.Count(got, "Mazmorras nuevas.") != 2 {
		t.Errorf("translation should apply to both paragraphs:\n%s", got)
	}
	if !strings.Contains(got, "KeepMe") {
		t.Errorf("data-no-translate content lost:\n%s", got)
	}
	if !strings.Contains(got, `var x = "not text";`) {
		t.Errorf("script content lost:\n%s", got)
	}
}

func TestHTMLPreservesWhitespace(t *testing.T) {
	got := preserveWhitespace("\n  Hello  \n", "Hola")
	if got != "\n  Hola  \n" {
		t.Errorf("preserveWhitespace = %q", got)
	}
}
