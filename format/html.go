package format

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/hytale-tools/modlate"
)

// defaultIgnoredTags are elements whose text is never display prose.
var defaultIgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"noscript": true,
	"svg":      true,
	"math":     true,
}

// HTMLFormat extracts text nodes from HTML pages bundled with a mod
// (changelogs, in-game help pages). Identical text appearing in several
// nodes becomes one unit and is applied everywhere on render.
//
// Unlike the line-based formats, rendering goes through the HTML parser's
// serializer, so untouched documents are normalized rather than preserved
// byte for byte.
type HTMLFormat struct {
	ignoredTags map[string]bool
}

// NewHTMLFormat creates an HTML extractor with the default ignored tags.
func NewHTMLFormat() *HTMLFormat {
	return &HTMLFormat{ignoredTags: defaultIgnoredTags}
}

// NewHTMLFormatWithIgnoredTags creates an HTML extractor that skips the
// given element names.
func NewHTMLFormatWithIgnoredTags(tags []string) *HTMLFormat {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLFormat{ignoredTags: ignored}
}

// Name returns "html".
func (f *HTMLFormat) Name() string { return "html" }

func (f *HTMLFormat) Extract(data []byte) (modlate.Skeleton, []modlate.TranslationUnit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, nil, &modlate.FormatError{Format: "html", Message: "failed to parse HTML", Cause: err}
	}

	skel := &htmlSkeleton{doc: doc, nodes: make(map[string][]*html.Node)}
	var units []modlate.TranslationUnit
	seen := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if f.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				id := "html:" + modlate.HashText(trimmed)
				skel.nodes[id] = append(skel.nodes[id], n)
				if !seen[id] {
					seen[id] = true
					units = append(units, modlate.TranslationUnit{
						ID:        id,
						Text:      trimmed,
						Protected: ProtectedTokens(trimmed),
						Pos:       len(units),
						Context:   htmlContext(n),
						Skip:      ShouldSkip(trimmed),
					})
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	doc.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n)
		}
	})

	return skel, units, nil
}

// htmlSkeleton mutates the parsed document in place and re-serializes it.
type htmlSkeleton struct {
	doc   *goquery.Document
	nodes map[string][]*html.Node
}

func (s *htmlSkeleton) Render(texts map[string]string) ([]byte, error) {
	for id, nodes := range s.nodes {
		text, ok := texts[id]
		if !ok {
			return nil, &modlate.MergeError{UnitID: id, Message: "no text for unit"}
		}
		for _, n := range nodes {
			n.Data = preserveWhitespace(n.Data, text)
		}
	}

	out, err := s.doc.Html()
	if err != nil {
		return nil, &modlate.MergeError{UnitID: "", Message: "failed to serialize HTML: " + err.Error()}
	}
	return []byte(out), nil
}

// htmlContext builds a short disambiguation string from the node's parent
// element and its nearest ancestors.
func htmlContext(n *html.Node) string {
	var parts []string

	if parent := n.Parent; parent != nil {
		var classAttr, idAttr string
		for _, attr := range parent.Attr {
			switch attr.Key {
			case "class":
				classAttr = attr.Val
			case "id":
				idAttr = attr.Val
			}
		}
		switch {
		case classAttr != "":
			parts = append(parts, fmt.Sprintf("in <%s class=%q>", parent.Data, classAttr))
		case idAttr != "":
			parts = append(parts, fmt.Sprintf("in <%s id=%q>", parent.Data, idAttr))
		default:
			parts = append(parts, fmt.Sprintf("in <%s>", parent.Data))
		}

		var ancestors []string
		ancestor := parent.Parent
		for i := 0; i < 3 && ancestor != nil; i++ {
			if ancestor.Type == html.ElementNode && ancestor.Data != "html" && ancestor.Data != "body" {
				ancestors = append(ancestors, ancestor.Data)
			}
			ancestor = ancestor.Parent
		}
		if len(ancestors) > 0 {
			for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
				ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
			}
			parts = append(parts, "inside: "+strings.Join(ancestors, " > "))
		}
	}

	return strings.Join(parts, " | ")
}

// preserveWhitespace keeps the original leading and trailing whitespace
// around the replacement text.
func preserveWhitespace(original, translated string) string {
	leading := original[:len(original)-len(strings.TrimLeft(original, " \t\n\r"))]
	trimmedRight := strings.TrimRight(original, " \t\n\r")
	trailing := original[len(trimmedRight):]
	return leading + translated + trailing
}

var _ modlate.Format = (*HTMLFormat)(nil)
