// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records conversions in a SQLite database: one row per
// input document with its formatting counters, plus the document outline
// (headings, structural titles, article numbers) for browsing and search.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// ErrNotFound is returned when a conversion id is not in the catalog.
var ErrNotFound = errors.New("conversion not found")

// DefaultMaxResults bounds Search when SearchOptions.MaxResults is zero.
const DefaultMaxResults = 50

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog at path, creating the parent directory
// and the schema if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input TEXT NOT NULL UNIQUE,
			output TEXT NOT NULL,
			title TEXT NOT NULL,
			backend TEXT NOT NULL,
			pages INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			dropped INTEGER NOT NULL,
			kinds TEXT NOT NULL,
			converted_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outline (
			conversion_id INTEGER NOT NULL REFERENCES conversions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			level INTEGER NOT NULL,
			text TEXT NOT NULL,
			folded TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (conversion_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outline_kind ON outline(kind)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return s.migrateFolded()
}

// migrateFolded adds and fills the folded column in catalogs created
// before outline search was case-folded.
func (s *Store) migrateFolded() error {
	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('outline') WHERE name = 'folded'`).Scan(&n); err != nil {
		return fmt.Errorf("inspecting outline table: %w", err)
	}
	if n == 0 {
		if _, err := s.db.Exec(`ALTER TABLE outline ADD COLUMN folded TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("adding folded column: %w", err)
		}
	}

	rows, err := s.db.Query(`SELECT conversion_id, position, text FROM outline WHERE folded = '' AND text != ''`)
	if err != nil {
		return fmt.Errorf("querying unfolded outline: %w", err)
	}
	type key struct {
		id  int64
		pos int
	}
	pending := make(map[key]string)
	for rows.Next() {
		var (
			k    key
			text string
		)
		if err := rows.Scan(&k.id, &k.pos, &text); err != nil {
			rows.Close()
			return fmt.Errorf("scanning outline row: %w", err)
		}
		pending[k] = fold(text)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for k, folded := range pending {
		if _, err := s.db.Exec(`UPDATE outline SET folded = ? WHERE conversion_id = ? AND position = ?`,
			folded, k.id, k.pos); err != nil {
			return fmt.Errorf("folding outline entry %d/%d: %w", k.id, k.pos, err)
		}
	}
	return nil
}

// Record stores rec and its outline, replacing any earlier record for the
// same input. It sets rec.ID and returns it.
func (s *Store) Record(ctx context.Context, rec *types.ConversionRecord) (int64, error) {
	kinds, err := json.Marshal(rec.Stats.Kinds)
	if err != nil {
		return 0, fmt.Errorf("encoding fragment counts: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversions WHERE input = ?`, rec.Input); err != nil {
		return 0, fmt.Errorf("deleting previous record: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO conversions (input, output, title, backend, pages, lines, dropped, kinds, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Input, rec.Output, rec.Title, string(rec.Backend), rec.Pages,
		rec.Stats.Lines, rec.Stats.Dropped, string(kinds),
		rec.ConvertedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting conversion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading conversion id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outline (conversion_id, position, kind, level, text, folded) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range rec.Outline {
		if _, err := stmt.ExecContext(ctx, id, e.Position, string(e.Kind), e.Level, e.Text, fold(e.Text)); err != nil {
			return 0, fmt.Errorf("inserting outline entry %d: %w", e.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing conversion: %w", err)
	}
	rec.ID = id
	return id, nil
}

const selectConversion = `SELECT id, input, output, title, backend, pages, lines, dropped, kinds, converted_at FROM conversions`

// List returns every recorded conversion, most recent first, without outlines.
func (s *Store) List(ctx context.Context) ([]types.ConversionRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectConversion+` ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	var out []types.ConversionRecord
	for rows.Next() {
		rec, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns the conversion with id, including its outline.
func (s *Store) Get(ctx context.Context, id int64) (types.ConversionRecord, error) {
	rec, err := scanConversion(s.db.QueryRowContext(ctx, selectConversion+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return rec, err
	}
	rec.Outline, err = s.Outline(ctx, id)
	return rec, err
}

// Outline returns the outline entries of conversion id in document order.
func (s *Store) Outline(ctx context.Context, id int64) ([]types.OutlineEntry, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM conversions WHERE id = ?`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking conversion %d: %w", id, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, kind, level, text FROM outline WHERE conversion_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying outline: %w", err)
	}
	defer rows.Close()

	var out []types.OutlineEntry
	for rows.Next() {
		var (
			e    types.OutlineEntry
			kind string
		)
		if err := rows.Scan(&e.Position, &kind, &e.Level, &e.Text); err != nil {
			return nil, fmt.Errorf("scanning outline row: %w", err)
		}
		e.Kind = types.FragmentKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversion(sc scanner) (types.ConversionRecord, error) {
	var (
		rec       types.ConversionRecord
		backend   string
		kindsJSON string
		at        string
	)
	if err := sc.Scan(&rec.ID, &rec.Input, &rec.Output, &rec.Title, &backend, &rec.Pages,
		&rec.Stats.Lines, &rec.Stats.Dropped, &kindsJSON, &at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning conversion row: %w", err)
	}
	rec.Backend = types.ExtractionBackend(backend)
	if err := json.Unmarshal([]byte(kindsJSON), &rec.Stats.Kinds); err != nil {
		return rec, fmt.Errorf("decoding fragment counts of %d: %w", rec.ID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return rec, fmt.Errorf("parsing converted_at of %d: %w", rec.ID, err)
	}
	rec.ConvertedAt = t
	return rec, nil
}
