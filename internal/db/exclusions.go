package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/exclusions"
)

// Exclusion represents one suppression row. An empty SearchKey means the row
// is global; a row carries a fingerprint or a normalized URL (or both).
type Exclusion struct {
	ID            uuid.UUID `json:"id"`
	SearchKey     string    `json:"search_key,omitempty"`
	Fingerprint   string    `json:"fingerprint,omitempty"`
	URLNormalized string    `json:"url_normalized,omitempty"`
	Note          string    `json:"note,omitempty"`
	CreatedBy     uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AddExclusionParams holds the inputs for one new exclusion row.
type AddExclusionParams struct {
	SearchKey   string
	Fingerprint string
	URL         string
	Note        string
	CreatedBy   uuid.UUID
}

// AddExclusion inserts a suppression row. The URL is normalized on the way in
// so lookups match however the address was written. At least one of
// Fingerprint and URL must be present.
func (db *DB) AddExclusion(ctx context.Context, p AddExclusionParams) (uuid.UUID, error) {
	normalized := exclusions.NormalizeURL(p.URL)
	if p.Fingerprint == "" && normalized == "" {
		return uuid.Nil, fmt.Errorf("exclusion needs a fingerprint or a url")
	}

	var createdBy *uuid.UUID
	if p.CreatedBy != uuid.Nil {
		createdBy = &p.CreatedBy
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO exclusions (search_key, fingerprint, url_normalized, note, created_by)
		 VALUES (NULLIF($1, ''), NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5)
		 RETURNING id`,
		p.SearchKey, p.Fingerprint, normalized, p.Note, createdBy,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to add exclusion: %w", err)
	}
	return id, nil
}

// ListExclusions retrieves exclusion rows. With a search key it returns the
// rows that apply to that search (global plus scoped); with an empty key it
// returns every row.
func (db *DB) ListExclusions(ctx context.Context, searchKey string) ([]Exclusion, error) {
	query := `SELECT id, COALESCE(search_key, ''), COALESCE(fingerprint, ''),
	                 COALESCE(url_normalized, ''), COALESCE(note, ''),
	                 COALESCE(created_by, '00000000-0000-0000-0000-000000000000'::uuid), created_at
	          FROM exclusions`
	args := []any{}
	if searchKey != "" {
		query += ` WHERE search_key IS NULL OR search_key = $1`
		args = append(args, searchKey)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exclusions: %w", err)
	}
	defer rows.Close()

	var list []Exclusion
	for rows.Next() {
		var e Exclusion
		if err := rows.Scan(&e.ID, &e.SearchKey, &e.Fingerprint, &e.URLNormalized, &e.Note, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exclusion: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// DeleteExclusion deletes one exclusion row by ID
func (db *DB) DeleteExclusion(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM exclusions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exclusion: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("exclusion not found: %s", id)
	}
	return nil
}

// ExcludedFingerprints returns the fingerprints suppressed for searchKey:
// global rows plus rows scoped to that key.
func (db *DB) ExcludedFingerprints(ctx context.Context, searchKey string) ([]string, error) {
	return db.excludedColumn(ctx, "fingerprint", searchKey)
}

// ExcludedURLs returns the normalized URLs suppressed for searchKey: global
// rows plus rows scoped to that key.
func (db *DB) ExcludedURLs(ctx context.Context, searchKey string) ([]string, error) {
	return db.excludedColumn(ctx, "url_normalized", searchKey)
}

func (db *DB) excludedColumn(ctx context.Context, column, searchKey string) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM exclusions
		 WHERE %s IS NOT NULL AND (search_key IS NULL OR search_key = $1)`,
		column, column,
	)
	rows, err := db.pool.Query(ctx, query, searchKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query excluded %ss: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan excluded %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
