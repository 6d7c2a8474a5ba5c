// Package format provides extractors for Hytale mod file formats.
//
// Each format parses raw file bytes into an ordered sequence of translation
// units plus a skeleton that reproduces the original bytes when rendered
// with the original texts.
package format

import (
	"path"
	"strings"

	"github.com/hytale-tools/modlate"
)

// All returns one instance of every built-in format.
func All() []modlate.Format {
	return []modlate.Format{
		NewLangFormat(),
		NewUIFormat(),
		NewManifestFormat(),
		NewJSONFormat(),
		NewHTMLFormat(),
	}
}

// Registry maps format identifiers to extractors.
type Registry struct {
	byName map[string]modlate.Format
}

// NewRegistry creates a registry with the given formats.
func NewRegistry(formats ...modlate.Format) *Registry {
	r := &Registry{byName: map[string]modlate.Format{}}
	for _, f := range formats {
		r.Register(f)
	}
	return r
}

// Register adds a format, replacing any previous one with the same name.
func (r *Registry) Register(f modlate.Format) {
	r.byName[f.Name()] = f
}

// Get returns the format with the given identifier.
func (r *Registry) Get(name string) (modlate.Format, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Detect picks a format for a file path inside a mod. manifest.json and
// pack.json map to the manifest format; other files go by extension.
func (r *Registry) Detect(filePath string) (modlate.Format, bool) {
	base := strings.ToLower(path.Base(strings.ReplaceAll(filePath, "\\", "/")))
	if base == "manifest.json" || base == "pack.json" {
		return r.Get("manifest")
	}
	switch path.Ext(base) {
	case ".lang":
		return r.Get("lang")
	case ".ui":
		return r.Get("ui")
	case ".json":
		return r.Get("json")
	case ".html", ".htm":
		return r.Get("html")
	}
	return nil, false
}
