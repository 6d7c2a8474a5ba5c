package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hytale-tools/modlate"
)

// LangFormat extracts Hytale .lang files: one key=value entry per line,
// comments starting with #, blank lines preserved.
type LangFormat struct{}

// NewLangFormat creates a .lang extractor.
func NewLangFormat() *LangFormat { return &LangFormat{} }

// Name returns "lang".
func (f *LangFormat) Name() string { return "lang" }

// langLine is one line of the original file. Entry lines are split so that
// only the value span is replaceable; everything else renders verbatim.
type langLine struct {
	literal string // full line content for non-entry lines
	prefix  string // key, separator, and value leading whitespace
	suffix  string // value trailing whitespace (includes \r on CRLF files)
	unitID  string // empty for literal lines
}

type langSkeleton struct {
	lines []langLine
}

// Extract parses the file into entries. Extraction is all-or-nothing: an
// invalid byte stream fails before any translation work begins.
func (f *LangFormat) Extract(data []byte) (modlate.Skeleton, []modlate.TranslationUnit, error) {
	if !utf8.Valid(data) {
		return nil, nil, &modlate.FormatError{Format: "lang", Message: "file is not valid UTF-8"}
	}

	rawLines := strings.Split(string(data), "\n")
	skel := &langSkeleton{lines: make([]langLine, 0, len(rawLines))}
	var units []modlate.TranslationUnit
	idCount := make(map[string]int)

	for _, line := range rawLines {
		trimmed := strings.TrimSpace(line)
		eq := strings.Index(line, "=")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || eq < 0 {
			skel.lines = append(skel.lines, langLine{literal: line})
			continue
		}

		key := strings.TrimSpace(line[:eq])
		rest := line[eq+1:]
		lead := rest[:len(rest)-len(strings.TrimLeft(rest, " \t"))]
		value := strings.TrimRight(rest[len(lead):], " \t\r")
		suffix := rest[len(lead)+len(value):]

		if key == "" || value == "" {
			skel.lines = append(skel.lines, langLine{literal: line})
			continue
		}

		idCount[key]++
		id := key
		if idCount[key] > 1 {
			id = fmt.Sprintf("%s#%d", key, idCount[key])
		}

		skel.lines = append(skel.lines, langLine{
			prefix: line[:eq+1] + lead,
			suffix: suffix,
			unitID: id,
		})
		units = append(units, modlate.TranslationUnit{
			ID:        id,
			Text:      value,
			Protected: ProtectedTokens(value),
			Pos:       len(units),
			Context:   "localization key " + key,
			Skip:      IsTranslationKey(value) || ShouldSkip(value),
		})
	}

	return skel, units, nil
}

// Render reproduces the file with entry values substituted. Newlines inside
// a translation are written as literal \n so the line structure survives.
func (s *langSkeleton) Render(texts map[string]string) ([]byte, error) {
	out := make([]string, 0, len(s.lines))
	for _, line := range s.lines {
		if line.unitID == "" {
			out = append(out, line.literal)
			continue
		}
		text, ok := texts[line.unitID]
		if !ok {
			return nil, &modlate.MergeError{UnitID: line.unitID, Message: "no text for unit"}
		}
		text = strings.ReplaceAll(text, "\n", `\n`)
		out = append(out, line.prefix+text+line.suffix)
	}
	return []byte(strings.Join(out, "\n")), nil
}

// MergeLang folds an updated .lang file over an existing target-locale file.
// Entries in updated win; entries present only in existing are appended so
// translations from earlier runs survive a re-translate. Keys under a
// benchCategories/benchcategories prefix get an entry for the other casing,
// which the game resolves inconsistently across versions.
func MergeLang(existing, updated []byte) []byte {
	keys, values := parseLangEntries(updated)
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	out := strings.TrimRight(string(updated), "\n")
	appendEntry := func(key, value string) {
		if out != "" {
			out += "\n"
		}
		out += key + "=" + value
		present[key] = true
		keys = append(keys, key)
		values[key] = value
	}

	oldKeys, oldValues := parseLangEntries(existing)
	for _, k := range oldKeys {
		if !present[k] {
			appendEntry(k, oldValues[k])
		}
	}

	for _, k := range keys {
		alias := langKeyCaseAlias(k)
		if alias != k && !present[alias] {
			appendEntry(alias, values[k])
		}
	}

	return []byte(out + "\n")
}

// parseLangEntries reads key=value lines in file order, ignoring comments,
// blanks, and malformed lines. Later duplicates overwrite earlier ones.
func parseLangEntries(data []byte) ([]string, map[string]string) {
	var keys []string
	values := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		eq := strings.Index(line, "=")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		if key == "" || value == "" {
			continue
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}
	return keys, values
}

// langKeyCaseAlias returns the opposite-case spelling of a benchCategories
// key, or the key unchanged when no alias applies.
func langKeyCaseAlias(key string) string {
	if !strings.Contains(strings.ToLower(key), "benchcategories.") {
		return key
	}
	if strings.Contains(key, "benchcategories.") {
		return strings.Replace(key, "benchcategories.", "benchCategories.", 1)
	}
	return strings.Replace(key, "benchCategories.", "benchcategories.", 1)
}

var _ modlate.Format = (*LangFormat)(nil)
