package format

import "testing"

func TestRegistryDetect(t *testing.T) {
	r := NewRegistry(All()...)

	tests := []struct {
		path   string
		format string
		ok     bool
	}{
		{"manifest.json", "manifest", true},
		{"pack.json", "manifest", true},
		{"assets/lang/en-US.lang", "lang", true},
		{"ui/hud.ui", "ui", true},
		{"items/sword.json", "json", true},
		{"docs/changelog.html", "html", true},
		{"docs/help.htm", "html", true},
		{"textures/blade.png", "", false},
		{"README", "", false},
	}

	for _, tt := range tests {
		f, ok := r.Detect(tt.path)
		if ok != tt.ok {
			t.Errorf("Detect(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			continue
		}
		if ok && f.Name() != tt.format {
			t.Errorf("Detect(%q) = %s, want %s", tt.path, f.Name(), tt.format)
		}
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry(All()...)
	if _, ok := r.Get("lang"); !ok {
		t.Error("registered format not found by name")
	}
	if _, ok := r.Get("nope"); ok {
		t.Error("unknown format reported as found")
	}
}
