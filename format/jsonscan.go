package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// stringSpan is one JSON string value located in the raw document. start and
// end delimit the raw token including its quotes, so a span can be spliced
// back without reformatting anything around it.
type stringSpan struct {
	path       string // dotted path with [i] array segments
	key        string // object key owning the value, "" for array elements
	value      string // decoded string value
	start, end int
}

// scanJSONStrings walks a JSON document tracking byte offsets of every
// string value. encoding/json alone cannot do this: it either reformats the
// document or hides token positions, and the merge contract requires output
// byte-identical outside the substituted spans.
func scanJSONStrings(data []byte) ([]stringSpan, error) {
	s := &jsonScanner{data: data}
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		s.pos = 3
	}
	s.skipSpace()
	if err := s.value(""); err != nil {
		return nil, err
	}
	s.skipSpace()
	if s.pos != len(s.data) {
		return nil, fmt.Errorf("trailing data at offset %d", s.pos)
	}
	return s.spans, nil
}

type jsonScanner struct {
	data  []byte
	pos   int
	spans []stringSpan
}

func (s *jsonScanner) errf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", s.pos, fmt.Sprintf(format, args...))
}

func (s *jsonScanner) skipSpace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *jsonScanner) value(path string) error {
	if s.pos >= len(s.data) {
		return s.errf("unexpected end of document")
	}
	switch c := s.data[s.pos]; {
	case c == '{':
		return s.object(path)
	case c == '[':
		return s.array(path)
	case c == '"':
		start := s.pos
		value, err := s.stringToken()
		if err != nil {
			return err
		}
		key := ""
		if i := strings.LastIndex(path, "."); i >= 0 {
			key = path[i+1:]
		} else {
			key = path
		}
		// A string inside an array inherits the array's key,
		// so lore[0] matches against "lore".
		if i := strings.Index(key, "["); i >= 0 {
			key = key[:i]
		}
		s.spans = append(s.spans, stringSpan{
			path:  path,
			key:   key,
			value: value,
			start: start,
			end:   s.pos,
		})
		return nil
	case c == 't':
		return s.literal("true")
	case c == 'f':
		return s.literal("false")
	case c == 'n':
		return s.literal("null")
	case c == '-' || (c >= '0' && c <= '9'):
		return s.number()
	default:
		return s.errf("unexpected character %q", c)
	}
}

func (s *jsonScanner) object(path string) error {
	s.pos++ // '{'
	s.skipSpace()
	if s.pos < len(s.data) && s.data[s.pos] == '}' {
		s.pos++
		return nil
	}
	for {
		s.skipSpace()
		if s.pos >= len(s.data) || s.data[s.pos] != '"' {
			return s.errf("expected object key")
		}
		key, err := s.stringToken()
		if err != nil {
			return err
		}
		s.skipSpace()
		if s.pos >= len(s.data) || s.data[s.pos] != ':' {
			return s.errf("expected ':' after key %q", key)
		}
		s.pos++
		s.skipSpace()
		childPath := key
		if path != "" {
			childPath = path + "." + key
		}
		if err := s.value(childPath); err != nil {
			return err
		}
		s.skipSpace()
		if s.pos >= len(s.data) {
			return s.errf("unterminated object")
		}
		switch s.data[s.pos] {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return nil
		default:
			return s.errf("expected ',' or '}'")
		}
	}
}

func (s *jsonScanner) array(path string) error {
	s.pos++ // '['
	s.skipSpace()
	if s.pos < len(s.data) && s.data[s.pos] == ']' {
		s.pos++
		return nil
	}
	for i := 0; ; i++ {
		s.skipSpace()
		if err := s.value(path + "[" + strconv.Itoa(i) + "]"); err != nil {
			return err
		}
		s.skipSpace()
		if s.pos >= len(s.data) {
			return s.errf("unterminated array")
		}
		switch s.data[s.pos] {
		case ',':
			s.pos++
		case ']':
			s.pos++
			return nil
		default:
			return s.errf("expected ',' or ']'")
		}
	}
}

// stringToken consumes a raw string token and returns its decoded value.
func (s *jsonScanner) stringToken() (string, error) {
	start := s.pos
	s.pos++ // opening quote
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			s.pos++
			raw := s.data[start:s.pos]
			var out string
			if err := json.Unmarshal(raw, &out); err != nil {
				return "", fmt.Errorf("offset %d: invalid string token: %w", start, err)
			}
			return out, nil
		default:
			s.pos++
		}
	}
	return "", fmt.Errorf("offset %d: unterminated string", start)
}

func (s *jsonScanner) literal(lit string) error {
	if s.pos+len(lit) > len(s.data) || string(s.data[s.pos:s.pos+len(lit)]) != lit {
		return s.errf("expected %q", lit)
	}
	s.pos += len(lit)
	return nil
}

func (s *jsonScanner) number() error {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			s.pos++
			continue
		}
		return nil
	}
	return nil
}

// encodeJSONString writes text as a JSON string token without HTML escaping,
// so markup tags like <color is="red"> survive as written.
func encodeJSONString(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte('"')
	for _, r := range text {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
