package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hytale-tools/modlate"
)

// ExportFormat is the JSON structure for cache export and import. Exports
// let users share translation memories for the same mod set.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry is a single exported record.
type ExportEntry struct {
	Hash        string `json:"hash"`
	SourceLang  string `json:"source_lang"`
	TargetLang  string `json:"target_lang"`
	Translation string `json:"translation"`
	Provider    string `json:"provider,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Export writes all records of an enumerable cache to w as JSON.
func Export(ctx context.Context, c Enumerable, w io.Writer, metadata map[string]string) error {
	records, err := c.Records(ctx)
	if err != nil {
		return fmt.Errorf("listing cache records: %w", err)
	}

	export := ExportFormat{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    make([]ExportEntry, 0, len(records)),
		Metadata:   metadata,
	}
	for _, rec := range records {
		entry := ExportEntry{
			Hash:        rec.Key.Hash,
			SourceLang:  rec.Key.Source,
			TargetLang:  rec.Key.Target,
			Translation: rec.Text,
			Provider:    rec.Provider,
		}
		if !rec.CreatedAt.IsZero() {
			entry.CreatedAt = rec.CreatedAt.UTC().Format(time.RFC3339)
		}
		export.Entries = append(export.Entries, entry)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ExportToFile exports the cache to a file.
// The path is provided by the caller and is intentionally user-controlled.
func ExportToFile(ctx context.Context, c Enumerable, path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return Export(ctx, c, f, metadata)
}

// ImportResult contains statistics about an import.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}

// Import reads exported records from r into the cache. Existing records
// with the same key are overwritten.
func Import(ctx context.Context, c modlate.Cache, r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}
	for _, entry := range export.Entries {
		rec := modlate.Record{
			Key: modlate.Key{
				Hash:   entry.Hash,
				Source: entry.SourceLang,
				Target: entry.TargetLang,
			},
			Text:     entry.Translation,
			Provider: entry.Provider,
		}
		if entry.CreatedAt != "" {
			rec.CreatedAt, _ = time.Parse(time.RFC3339, entry.CreatedAt)
		}
		if err := c.Store(ctx, rec); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportFromFile imports records from a file.
// The path is provided by the caller and is intentionally user-controlled.
func ImportFromFile(ctx context.Context, c modlate.Cache, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Import(ctx, c, f)
}
