package modlate

import "time"

// TranslationUnit is a single piece of translatable text extracted from a
// mod file.
type TranslationUnit struct {
	// ID is unique within one file and stable across runs as long as the
	// source text and its structural position are unchanged. It is derived
	// from the format's own key or path, never from a slice index.
	ID string

	// Text is the source text as it appears in the file.
	Text string

	// Protected lists literal substrings (markup tags, substitution
	// templates) that must survive translation verbatim.
	Protected []string

	// Pos is the unit's ordinal within the file's original ordering.
	Pos int

	// Context is an optional disambiguation hint for the provider
	// (surrounding key, file section, parent element).
	Context string

	// Skip marks text the extractor judged untranslatable (dotted
	// translation keys, pure templates, identifiers). Skipped units are
	// reported and merged back with their source text.
	Skip bool
}

// Skeleton is the non-text structural remainder of a mod file. Rendering a
// skeleton with the original unit texts reproduces the original bytes
// exactly; rendering with translations substitutes only the unit spans.
type Skeleton interface {
	// Render produces the output file bytes. texts maps unit ID to final
	// text and must contain an entry for every unit the skeleton was
	// extracted with; a missing or unknown ID is a MergeError.
	Render(texts map[string]string) ([]byte, error)
}

// Format extracts translation units from one mod file format and produces
// the skeleton that reconstructs it.
type Format interface {
	// Name returns the format identifier (e.g. "lang", "ui", "json").
	Name() string

	// Extract parses raw file bytes. It is all-or-nothing: on a structural
	// parse failure it returns a FormatError and no units.
	Extract(data []byte) (Skeleton, []TranslationUnit, error)
}

// Record is a cached translation. Records are immutable values: storing an
// identical record twice is a no-op, storing a different text for the same
// key overwrites it as a correction.
type Record struct {
	Key       Key
	Text      string // translated text
	Provider  string // provider identifier that produced the translation
	CreatedAt time.Time
}
