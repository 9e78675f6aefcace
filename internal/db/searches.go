package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SearchRecord is one row of search history.
type SearchRecord struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id,omitempty"`
	SearchKey   string    `json:"search_key"`
	LastName    string    `json:"last_name"`
	FirstName   string    `json:"first_name,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	AgeYears    int       `json:"age_years,omitempty"`
	ResultCount int       `json:"result_count"`
	RanAt       time.Time `json:"ran_at"`
}

// RecordSearch inserts a history row and returns its ID. A zero UserID stores
// NULL so anonymous CLI runs can still be recorded.
func (db *DB) RecordSearch(ctx context.Context, rec SearchRecord) (uuid.UUID, error) {
	var userID *uuid.UUID
	if rec.UserID != uuid.Nil {
		userID = &rec.UserID
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO searches (user_id, search_key, last_name, first_name, city, state, age_years, result_count)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, 0), $8)
		 RETURNING id`,
		userID, rec.SearchKey, rec.LastName, rec.FirstName, rec.City, rec.State, rec.AgeYears, rec.ResultCount,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record search: %w", err)
	}
	return id, nil
}

// ListSearches retrieves recent history for one user, newest first
func (db *DB) ListSearches(ctx context.Context, userID uuid.UUID, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(user_id, '00000000-0000-0000-0000-000000000000'::uuid), search_key,
		        last_name, COALESCE(first_name, ''), COALESCE(city, ''), COALESCE(state, ''),
		        COALESCE(age_years, 0), result_count, ran_at
		 FROM searches WHERE user_id = $1
		 ORDER BY ran_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var rec SearchRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SearchKey, &rec.LastName, &rec.FirstName,
			&rec.City, &rec.State, &rec.AgeYears, &rec.ResultCount, &rec.RanAt); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
