// Package cache provides translation cache backends: in-memory, SQLite,
// and Redis. All backends store immutable translation records keyed by
// source-text hash and language pair.
package cache

import (
	"context"

	"github.com/hytale-tools/modlate"
)

// Enumerable is implemented by backends that can list every stored record.
// Export requires it.
type Enumerable interface {
	modlate.Cache

	// Records returns all stored records in unspecified order.
	Records(ctx context.Context) ([]modlate.Record, error)
}
