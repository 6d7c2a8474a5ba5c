package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hytale-tools/modlate"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS translations (
    text_hash  TEXT NOT NULL,
    src_lang   TEXT NOT NULL,
    tgt_lang   TEXT NOT NULL,
    translation TEXT NOT NULL,
    provider   TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    PRIMARY KEY (text_hash, src_lang, tgt_lang)
);
CREATE INDEX IF NOT EXISTS idx_translations_provider ON translations(provider);
`

// SQLiteCache is a persistent translation cache backed by a local SQLite
// file. It is the default backend for repeated runs against the same mods
// directory.
type SQLiteCache struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

// OpenSQLite opens (creating if needed) the cache database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, &modlate.CacheError{Message: "make cache dir", Cause: err}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, &modlate.CacheError{Message: "open sqlite", Cause: err}
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA cache_size = -16000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, &modlate.CacheError{Message: fmt.Sprintf("pragma %q", p), Cause: err}
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, &modlate.CacheError{Message: "apply schema", Cause: err}
	}

	return &SQLiteCache{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Lookup retrieves a record by key.
func (c *SQLiteCache) Lookup(ctx context.Context, key modlate.Key) (modlate.Record, bool, error) {
	q := c.sq.Select("translation", "provider", "created_at").
		From("translations").
		Where(sq.Eq{
			"text_hash": key.Hash,
			"src_lang":  key.Source,
			"tgt_lang":  key.Target,
		}).
		Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return modlate.Record{}, false, &modlate.CacheError{Message: "build lookup query", Cause: err}
	}

	var rec modlate.Record
	var created string
	row := c.db.QueryRowContext(ctx, sqlStr, args...)
	if err := row.Scan(&rec.Text, &rec.Provider, &created); err != nil {
		if err == sql.ErrNoRows {
			return modlate.Record{}, false, nil
		}
		return modlate.Record{}, false, &modlate.CacheError{Message: "lookup translation", Cause: err}
	}
	rec.Key = key
	rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return rec, true, nil
}

// Store upserts a record. A later translation for the same key replaces the
// earlier one.
func (c *SQLiteCache) Store(ctx context.Context, rec modlate.Record) error {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	q := c.sq.Insert("translations").
		Columns("text_hash", "src_lang", "tgt_lang", "translation", "provider", "created_at").
		Values(rec.Key.Hash, rec.Key.Source, rec.Key.Target, rec.Text, rec.Provider, created.UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(text_hash, src_lang, tgt_lang) DO UPDATE SET translation=excluded.translation, provider=excluded.provider, created_at=excluded.created_at")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return &modlate.CacheError{Message: "build store query", Cause: err}
	}
	if _, err := c.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return &modlate.CacheError{Message: "store translation", Cause: err}
	}
	return nil
}

// Flush checkpoints the WAL so a following process sees every write.
func (c *SQLiteCache) Flush(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		return &modlate.CacheError{Message: "checkpoint", Cause: err}
	}
	return nil
}

// Records returns all stored records.
func (c *SQLiteCache) Records(ctx context.Context) ([]modlate.Record, error) {
	q := c.sq.Select("text_hash", "src_lang", "tgt_lang", "translation", "provider", "created_at").
		From("translations")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, &modlate.CacheError{Message: "build records query", Cause: err}
	}

	rows, err := c.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, &modlate.CacheError{Message: "list translations", Cause: err}
	}
	defer rows.Close()

	var out []modlate.Record
	for rows.Next() {
		var rec modlate.Record
		var created string
		if err := rows.Scan(&rec.Key.Hash, &rec.Key.Source, &rec.Key.Target, &rec.Text, &rec.Provider, &created); err != nil {
			return nil, &modlate.CacheError{Message: "scan translation", Cause: err}
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &modlate.CacheError{Message: "list translations", Cause: err}
	}
	return out, nil
}

// PurgeProvider deletes every record produced by the named provider and
// returns the number removed. Used when a provider's output turns out to
// be bad.
func (c *SQLiteCache) PurgeProvider(ctx context.Context, provider string) (int64, error) {
	q := c.sq.Delete("translations").Where(sq.Eq{"provider": provider})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, &modlate.CacheError{Message: "build purge query", Cause: err}
	}
	res, err := c.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, &modlate.CacheError{Message: "purge provider", Cause: err}
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

var _ Enumerable = (*SQLiteCache)(nil)
