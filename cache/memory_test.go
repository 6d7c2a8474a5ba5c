package cache

import (
	"context"
	"testing"

	"github.com/hytale-tools/modlate"
)

func TestMemoryCacheLookupStore(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	key := modlate.NewKey("Hello", "en_US", "es_ES")

	_, ok, err := c.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if ok {
		t.Error("expected miss on empty cache")
	}

	rec := modlate.Record{Key: key, Text: "Hola", Provider: "mock"}
	if err := c.Store(ctx, rec); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, ok, err := c.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after Store")
	}
	if got.Text != "Hola" || got.Provider != "mock" {
		t.Errorf("got record %+v", got)
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	key := modlate.NewKey("Hello", "en_US", "es_ES")

	if err := c.Store(ctx, modlate.Record{Key: key, Text: "Hola"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := c.Store(ctx, modlate.Record{Key: key, Text: "Buenas"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, _, _ := c.Lookup(ctx, key)
	if got.Text != "Buenas" {
		t.Errorf("overwrite not applied, got %q", got.Text)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestMemoryCacheKeyIdentity(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	// Same text, different target language: distinct entries.
	if err := c.Store(ctx, modlate.Record{Key: modlate.NewKey("Hello", "en_US", "es_ES"), Text: "Hola"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := c.Store(ctx, modlate.Record{Key: modlate.NewKey("Hello", "en_US", "fr_FR"), Text: "Bonjour"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	// Whitespace variants collapse to one key.
	if _, ok, _ := c.Lookup(ctx, modlate.NewKey("  Hello  ", "en-US", "es-ES")); !ok {
		t.Error("normalized key variant should hit")
	}
}

func TestMemoryCacheRecords(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	for _, text := range []string{"one", "two", "three"} {
		if err := c.Store(ctx, modlate.Record{Key: modlate.NewKey(text, "en", "de"), Text: text}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	records, err := c.Records(ctx)
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want 3", len(records))
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}
