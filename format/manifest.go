package format

import (
	"strings"

	"github.com/hytale-tools/modlate"
)

// ManifestFormat extracts the user-facing fields of a mod manifest
// (manifest.json or pack.json): the top-level Name and Description, and
// each author's Name. Version numbers, UUIDs and dependency tables are
// left alone.
type ManifestFormat struct{}

// NewManifestFormat creates a manifest extractor.
func NewManifestFormat() *ManifestFormat { return &ManifestFormat{} }

// Name returns "manifest".
func (f *ManifestFormat) Name() string { return "manifest" }

func (f *ManifestFormat) Extract(data []byte) (modlate.Skeleton, []modlate.TranslationUnit, error) {
	spans, err := scanJSONStrings(data)
	if err != nil {
		return nil, nil, &modlate.FormatError{Format: "manifest", Message: "invalid manifest JSON", Cause: err}
	}

	skel := &jsonSkeleton{data: data}
	var units []modlate.TranslationUnit

	for _, sp := range spans {
		if !manifestField(sp.path) {
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
			Context:   "mod manifest " + sp.path,
			Skip:      ShouldSkip(sp.value),
		})
	}

	return skel, units, nil
}

// manifestField reports whether a dotted path refers to a translatable
// manifest field.
func manifestField(path string) bool {
	switch path {
	case "Name", "Description":
		return true
	}
	// Authors[i].Name
	if strings.HasPrefix(path, "Authors[") && strings.HasSuffix(path, "].Name") {
		return true
	}
	return false
}

var _ modlate.Format = (*ManifestFormat)(nil)
