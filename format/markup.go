package format

import (
	"regexp"
	"strings"
)

// tagPattern matches the markup Hytale embeds in display strings: tags like
// <color is="...">, </color>, <item is=".."/>, bracket markers like [TMP],
// and literal \n sequences. These must survive translation verbatim.
var tagPattern = regexp.MustCompile(`(?i)(<[^>]+>|\[[A-Z]+\]| \\n |\\n)`)

// templateRE matches substitution templates like {var} or {0}.
var templateRE = regexp.MustCompile(`\{[a-zA-Z_%]`)

var (
	underscoreBrace = regexp.MustCompile(`_\s*\}`)
	braceUnderscore = regexp.MustCompile(`\{\s*_`)
)

// ProtectedTokens returns the distinct markup tokens in text, in order of
// first appearance. They become the unit's protected substrings.
func ProtectedTokens(text string) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, m := range tagPattern.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			tokens = append(tokens, m)
		}
	}
	return tokens
}

// HasMarkup reports whether text contains markup tokens.
func HasMarkup(text string) bool {
	return tagPattern.MatchString(text)
}

// IsTranslationKey reports whether text looks like a dotted translation key
// (word.word or word.word.word) rather than display text.
func IsTranslationKey(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" || strings.Contains(s, " ") {
		return false
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if p == "" || !isAlnumWord(p) {
			return false
		}
	}
	return true
}

// ShouldSkip reports whether a source string must not be sent for
// translation: substitution templates break when translated, and
// identifiers or merged-word artifacts are not display text. Strings with
// markup tags are NOT skipped; the tags are protected instead.
func ShouldSkip(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" {
		return true
	}

	// Substitution templates break when translated.
	if strings.Contains(s, "{") && strings.Contains(s, "}") && templateRE.MatchString(s) {
		return true
	}
	if strings.Contains(s, "%s") || strings.Contains(s, "%d") || strings.Contains(s, "%(") {
		return true
	}
	if underscoreBrace.MatchString(s) || braceUnderscore.MatchString(s) {
		return true
	}

	// Nothing but underscores and whitespace.
	stripped := strings.NewReplacer("_", "", " ", "", "\n", "").Replace(s)
	if stripped == "" {
		return true
	}

	// snake_case identifiers without spaces (Item_Name_ID).
	if !strings.ContainsAny(s, " \n") && strings.Contains(s, "_") && isIdentWord(s) {
		return true
	}

	// Merged repeated words (AliveAlive, TestTest).
	if !strings.ContainsAny(s, " \n") && len(s) >= 2 && isAlphaWord(s) {
		for n := 1; n <= len(s)/2; n++ {
			if len(s)%n != 0 {
				continue
			}
			if strings.Repeat(s[:n], len(s)/n) == s {
				return true
			}
		}
	}

	return false
}

func isAlnumWord(s string) bool {
	t := strings.NewReplacer("_", "", "-", "").Replace(s)
	if t == "" {
		return false
	}
	for _, r := range t {
		if !isAlnum(r) {
			return false
		}
	}
	return true
}

func isIdentWord(s string) bool {
	for _, r := range s {
		if !isAlnum(r) && r != '_' {
			return false
		}
	}
	return true
}

func isAlphaWord(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
