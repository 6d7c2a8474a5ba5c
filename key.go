package modlate

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// Key is the deduplication identity of a translation request. Two units with
// the same Key must resolve to the same cached translation.
type Key struct {
	Hash   string // SHA-256 of the normalized source text
	Source string // source language code
	Target string // target language code
}

// NewKey builds a Key from source text and a language pair. Text is trimmed
// and language codes are normalized before hashing, so formatting-only
// variants collapse to one key.
func NewKey(text, sourceLang, targetLang string) Key {
	return Key{
		Hash:   HashText(text),
		Source: NormalizeLocale(sourceLang),
		Target: NormalizeLocale(targetLang),
	}
}

// String returns the storage form of the key: "hash:source:target".
func (k Key) String() string {
	return k.Hash + ":" + k.Source + ":" + k.Target
}
