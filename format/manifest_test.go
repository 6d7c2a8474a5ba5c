package format

import (
	"strings"
	"testing"
)

const sampleManifest = `{
  "Name": "Dungeon Depths",
  "Version": "1.2.0",
  "Description": "Adds ten new dungeons.",
  "Authors": [
    {"Name": "Alice", "Email": "alice@example.com"},
    {"Name": "Bob"}
  ],
  "Dependencies": {"core": ">=0.5"}
}`

func TestManifestExtract(t *testing.T) {
	f := NewManifestFormat()
	_, units, err := f.Extract([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := map[string]string{
		"Name":            "Dungeon Depths",
		"Description":     "Adds ten new dungeons.",
		"Authors[0].Name": "Alice",
		"Authors[1].Name": "Bob",
	}
	if len(units) != len(want) {
		t.Fatalf("expected %d units, got %d: %+v", len(want), len(units), units)
	}
	for _, u := range units {
		if want[u.ID] != u.Text {
			t.Errorf("unit %s: Text = %q, want %q", u.ID, u.Text, want[u.ID])
		}
	}
}

func TestManifestLeavesMetadataAlone(t *testing.T) {
	f := NewManifestFormat()
	skel, units, err := f.Extract([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	texts := make(map[string]string, len(units))
	for _, u := range units {
		texts[u.ID] = u.Text
	}
	texts["Name"] = "Profundidades"

	out, err := skel.Render(texts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := string(out)
	if !strings.Contains(got, `"Name": "Profundidades"`) {
		t.Errorf("translated Name missing:\n%s", got)
	}
	if !strings.Contains(got, `"Version": "1.2.0"`) {
		t.Errorf("Version was disturbed:\n%s", got)
	}
	if !strings.Contains(got, `"Email": "alice@example.com"`) {
		t.Errorf("Email was disturbed:\n%s", got)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	f := NewManifestFormat()
	skel, units, err := f.Extract([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	texts := make(map[string]string, len(units))
	for _, u := range units {
		texts[u.ID] = u.Text
	}

	out, err := skel.Render(texts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(out) != sampleManifest {
		t.Errorf("round trip changed content:\n in: %q\nout: %q", sampleManifest, out)
	}
}
