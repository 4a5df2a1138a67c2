// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// SearchOptions holds parameters for outline searches.
type SearchOptions struct {
	// Query is matched as a substring of the outline text, ignoring case
	// (accented letters included).
	Query string

	// Kind filters by fragment kind.
	Kind types.FragmentKind

	// ConversionID restricts the search to one document.
	ConversionID int64

	// MaxResults limits result count. Zero uses DefaultMaxResults.
	MaxResults int
}

// SearchHit is an outline entry with the document it belongs to.
type SearchHit struct {
	types.OutlineEntry
	ConversionID int64  `json:"conversion_id" yaml:"conversion_id"`
	Input        string `json:"input" yaml:"input"`
	Title        string `json:"title" yaml:"title"`
}

// fold is the form outline text is stored and searched in: NFC, then
// Unicode case folding. A Caser is stateful, so each call builds its own.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns outline entries matching opts, ordered by document and
// position.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]SearchHit, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT o.conversion_id, c.input, c.title, o.position, o.kind, o.level, o.text
		FROM outline o
		JOIN conversions c ON c.id = o.conversion_id
		WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND o.folded LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(fold(opts.Query))+"%")
	}
	if opts.Kind != "" {
		qb.WriteString(` AND o.kind = ?`)
		args = append(args, string(opts.Kind))
	}
	if opts.ConversionID != 0 {
		qb.WriteString(` AND o.conversion_id = ?`)
		args = append(args, opts.ConversionID)
	}

	qb.WriteString(` ORDER BY o.conversion_id, o.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var (
			h    SearchHit
			kind string
		)
		if err := rows.Scan(&h.ConversionID, &h.Input, &h.Title, &h.Position, &kind, &h.Level, &h.Text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		h.Kind = types.FragmentKind(kind)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
