package format

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hytale-tools/modlate"
)

// uiTextPattern matches the two quoted text forms Hytale .ui files use:
// `Text: "..."` and `@Text = "..."`.
var uiTextPattern = regexp.MustCompile(`(Text:\s*")([^"]*)(")|(@Text\s*=\s*")([^"]*)(")`)

// UIFormat extracts quoted display strings from Hytale .ui layout files.
// Only the quoted values after Text: and @Text = are translatable; the rest
// of the layout renders verbatim.
type UIFormat struct{}

// NewUIFormat creates a .ui extractor.
func NewUIFormat() *UIFormat { return &UIFormat{} }

// Name returns "ui".
func (f *UIFormat) Name() string { return "ui" }

// uiSpan is one replaceable value span within the original content.
type uiSpan struct {
	start, end int
	unitID     string
}

type uiSkeleton struct {
	content string
	spans   []uiSpan
}

// Extract finds every Text value. The unit ID is the value's byte offset,
// which is stable across runs while the surrounding structure is unchanged.
func (f *UIFormat) Extract(data []byte) (modlate.Skeleton, []modlate.TranslationUnit, error) {
	if !utf8.Valid(data) {
		return nil, nil, &modlate.FormatError{Format: "ui", Message: "file is not valid UTF-8"}
	}

	content := string(data)
	skel := &uiSkeleton{content: content}
	var units []modlate.TranslationUnit

	for _, m := range uiTextPattern.FindAllStringSubmatchIndex(content, -1) {
		// Group 2 for the Text: form, group 5 for the @Text = form.
		start, end := m[4], m[5]
		if start < 0 {
			start, end = m[10], m[11]
		}
		if start < 0 || start == end {
			continue
		}

		value := content[start:end]
		if strings.TrimSpace(value) == "" {
			continue
		}

		id := fmt.Sprintf("ui:%d", start)
		skel.spans = append(skel.spans, uiSpan{start: start, end: end, unitID: id})
		units = append(units, modlate.TranslationUnit{
			ID:        id,
			Text:      value,
			Protected: ProtectedTokens(value),
			Pos:       len(units),
			Context:   "UI element text",
			Skip:      IsTranslationKey(value) || ShouldSkip(value),
		})
	}

	return skel, units, nil
}

// Render splices translated values back into their quoted spans. Double
// quotes inside a translation would terminate the span, so they are
// rewritten as single quotes.
func (s *uiSkeleton) Render(texts map[string]string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(s.content))

	pos := 0
	for _, span := range s.spans {
		text, ok := texts[span.unitID]
		if !ok {
			return nil, &modlate.MergeError{UnitID: span.unitID, Message: "no text for unit"}
		}
		text = strings.ReplaceAll(text, `"`, "'")
		b.WriteString(s.content[pos:span.start])
		b.WriteString(text)
		pos = span.end
	}
	b.WriteString(s.content[pos:])

	return []byte(b.String()), nil
}

var _ modlate.Format = (*UIFormat)(nil)
