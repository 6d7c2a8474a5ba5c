package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/hytale-tools/modlate"
)

const sampleItemJSON = `{
  "id": "iron_sword",
  "name": "Iron Sword",
  "damage": 7,
  "description": "A sturdy blade.",
  "lore": ["Forged in the deep.", "Prized by miners."],
  "tags": ["weapon", "melee"]
}`

func TestJSONExtract(t *testing.T) {
	f := NewJSONFormat()
	_, units, err := f.Extract([]byte(sampleItemJSON))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{
		"Iron Sword",
		"A sturdy blade.",
		"Forged in the deep.",
		"Prized by miners.",
	}
	if len(units) != len(want) {
		t.Fatalf("expected %d units, got %d: %+v", len(want), len(units), units)
	}
	for i, w := range want {
		if units[i].Text != w {
			t.Errorf("unit %d: Text = %q, want %q", i, units[i].Text, w)
		}
	}
}

func TestJSONSkipsNonTextKeys(t *testing.T) {
	f := NewJSONFormat()
	_, units, err := f.Extract([]byte(`{"id": "iron_sword", "texture": "blade.png"}`))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("expected no units, got %+v", units)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	inputs := []string{
		sampleItemJSON,
		`{"name":"Hi é\n there","n":1.5e3,"b":true,"x":null}`,
		"  {\n\t\"name\" : \"spaced\"  }\n",
		`[{"name": "One"}, {"name": "Two"}]`,
	}

	f := NewJSONFormat()
	for _, input := range inputs {
		skel, units, err := f.Extract([]byte(input))
		if err != nil {
			t.Fatalf("Extract(%q) failed: %v", input, err)
		}

		texts := make(map[string]string, len(units))
		for _, u := range units {
			texts[u.ID] = u.Text
		}

		out, err := skel.Render(texts)
		if err != nil {
			t.Fatalf("Render(%q) failed: %v", input, err)
		}
		if string(out) != input {
			t.Errorf("round trip changed content:\n in: %q\nout: %q", input, out)
		}
	}
}

func TestJSONRenderSubstitutes(t *testing.T) {
	f := NewJSONFormat()
	skel, units, err := f.Extract([]byte(sampleItemJSON))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	texts := make(map[string]string, len(units))
	for _, u := range units {
		texts[u.ID] = u.Text
	}
	texts[units[0].ID] = "Espada de Hierro"

	out, err := skel.Render(texts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := string(out)
	if !strings.Contains(got, `"name": "Espada de Hierro"`) {
		t.Errorf("translated name missing from output:\n%s", got)
	}
	if !strings.Contains(got, `"description": "A sturdy blade."`) {
		t.Errorf("untouched field was rewritten:\n%s", got)
	}
	if !strings.Contains(got, `"damage": 7`) {
		t.Errorf("non-string content was disturbed:\n%s", got)
	}
}

func TestJSONMarkupSurvivesRender(t *testing.T) {
	f := NewJSONFormat()
	skel, units, err := f.Extract([]byte(`{"description": "plain"}`))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	out, err := skel.Render(map[string]string{
		units[0].ID: `<color is="gold">Oro</color>`,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := `{"description": "<color is=\"gold\">Oro</color>"}`
	if string(out) != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestJSONInvalid(t *testing.T) {
	f := NewJSONFormat()
	_, _, err := f.Extract([]byte(`{"name": "unterminated`))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	var fe *modlate.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("expected FormatError, got %T", err)
	}
}
