package format

import (
	"testing"
)

const sampleUI = `Panel {
    Label {
        Text: "Welcome back!"
    }
    Button {
        @Text = "Start Game"
    }
    Field {
        Text: ""
    }
}
`

func TestUIExtract(t *testing.T) {
	f := NewUIFormat()
	_, units, err := f.Extract([]byte(sampleUI))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(units) != 2 {
		t.Fatalf("expected 2 units (empty value skipped), got %d", len(units))
	}
	if units[0].Text != "Welcome back!" {
		t.Errorf("unit 0 text = %q", units[0].Text)
	}
	if units[1].Text != "Start Game" {
		t.Errorf("unit 1 text = %q", units[1].Text)
	}
}

func TestUIRoundTrip(t *testing.T) {
	f := NewUIFormat()
	skel, units, err := f.Extract([]byte(sampleUI))
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
	if string(out) != sampleUI {
		t.Errorf("round trip changed content:\n in: %q\nout: %q", sampleUI, out)
	}
}

func TestUIRenderSubstitutes(t *testing.T) {
	f := NewUIFormat()
	input := `Text: "Hello"` + "\n" + `@Text = "Bye"`
	skel, units, err := f.Extract([]byte(input))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	out, err := skel.Render(map[string]string{
		units[0].ID: "Hola",
		units[1].ID: "Adios",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := `Text: "Hola"` + "\n" + `@Text = "Adios"`
	if string(out) != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestUIRenderSanitizesQuotes(t *testing.T) {
	f := NewUIFormat()
	skel, units, err := f.Extract([]byte(`Text: "Hello"`))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	out, err := skel.Render(map[string]string{units[0].ID: `Say "hi" now`})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(out) != `Text: "Say 'hi' now"` {
		t.Errorf("output = %q", out)
	}
}
