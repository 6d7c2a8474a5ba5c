package cache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hytale-tools/modlate"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryCache()

	records := []modlate.Record{
		{Key: modlate.NewKey("Hello", "en_US", "es_ES"), Text: "Hola", Provider: "mock", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Key: modlate.NewKey("Bye", "en_US", "es_ES"), Text: "Adios", Provider: "mock"},
	}
	for _, rec := range records {
		if err := src.Store(ctx, rec); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := Export(ctx, src, &buf, map[string]string{"mod": "dungeon-depths"}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := NewMemoryCache()
	result, err := Import(ctx, dst, &buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Imported != 2 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
	if result.Metadata["mod"] != "dungeon-depths" {
		t.Errorf("metadata lost: %+v", result.Metadata)
	}

	for _, rec := range records {
		got, ok, err := dst.Lookup(ctx, rec.Key)
		if err != nil || !ok {
			t.Fatalf("imported record missing for %v (err %v)", rec.Key, err)
		}
		if got.Text != rec.Text || got.Provider != rec.Provider {
			t.Errorf("imported record = %+v, want %+v", got, rec)
		}
	}
}

func TestImportBadJSON(t *testing.T) {
	_, err := Import(context.Background(), NewMemoryCache(), strings.NewReader("{broken"))
	if err == nil {
		t.Fatal("expected error for malformed export")
	}
}

func TestExportVersioned(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(context.Background(), NewMemoryCache(), &buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"version": "1.0"`) {
		t.Errorf("export missing version field:\n%s", buf.String())
	}
}
