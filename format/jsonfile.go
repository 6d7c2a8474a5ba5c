package format

import (
	"strings"

	"github.com/hytale-tools/modlate"
)

// textKeys are the JSON object keys whose string values hold display text.
var textKeys = map[string]bool{
	"name":         true,
	"description":  true,
	"title":        true,
	"text":         true,
	"displayname":  true,
	"message":      true,
	"lore":         true,
	"display_name": true,
	"desc":         true,
	"label":        true,
	"hint":         true,
	"placeholder":  true,
}

// JSONFormat extracts display text from arbitrary mod JSON files: any
// string value under a text-ish key (name, description, lore, ...) at any
// depth. Everything else, including formatting and key order, renders
// byte-identically.
type JSONFormat struct{}

// NewJSONFormat creates a generic JSON extractor.
func NewJSONFormat() *JSONFormat { return &JSONFormat{} }

// Name returns "json".
func (f *JSONFormat) Name() string { return "json" }

func (f *JSONFormat) Extract(data []byte) (modlate.Skeleton, []modlate.TranslationUnit, error) {
	spans, err := scanJSONStrings(data)
	if err != nil {
		return nil, nil, &modlate.FormatError{Format: "json", Message: "invalid JSON", Cause: err}
	}

	skel := &jsonSkeleton{data: data}
	var units []modlate.TranslationUnit

	for _, sp := range spans {
		if !textKeys[strings.ToLower(sp.key)] {
			continue
		}
		if strings.TrimSpace(sp.value) == "" {
			continue
		}
		skel.spans = append(skel.spans, jsonUnitSpan{
			start:    sp.start,
			end:      sp.end,
			unitID:   sp.path,
			original: sp.value,
		})
		units = append(units, modlate.TranslationUnit{
			ID:        sp.path,
			Text:      sp.value,
			Protected: ProtectedTokens(sp.value),
			Pos:       len(units),
			Context:   "JSON field " + sp.path,
			Skip:      IsTranslationKey(sp.value) || ShouldSkip(sp.value),
		})
	}

	return skel, units, nil
}

// jsonUnitSpan is one replaceable string token in the raw document.
type jsonUnitSpan struct {
	start, end int
	unitID     string
	original   string
}

// jsonSkeleton renders by splicing string tokens in place. When a unit's
// final text equals its original, the original raw token is copied back
// untouched, which keeps escape-sequence spellings and makes unchanged
// documents byte-identical.
type jsonSkeleton struct {
	data  []byte
	spans []jsonUnitSpan
}

func (s *jsonSkeleton) Render(texts map[string]string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(s.data))

	pos := 0
	for _, span := range s.spans {
		text, ok := texts[span.unitID]
		if !ok {
			return nil, &modlate.MergeError{UnitID: span.unitID, Message: "no text for unit"}
		}
		b.Write(s.data[pos:span.start])
		if text == span.original {
			b.Write(s.data[span.start:span.end])
		} else {
			b.WriteString(encodeJSONString(text))
		}
		pos = span.end
	}
	b.Write(s.data[pos:])

	return []byte(b.String()), nil
}

var _ modlate.Format = (*JSONFormat)(nil)
