package db

import (
	"context"
	"fmt"
)

// schema creates every table the service uses. Statements are idempotent so
// migrate can run on every deploy.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	phone         TEXT,
	password_hash TEXT,
	password_set  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS exclusions (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	search_key     TEXT,
	fingerprint    TEXT,
	url_normalized TEXT,
	note           TEXT,
	created_by     UUID REFERENCES users(id) ON DELETE SET NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (fingerprint IS NOT NULL OR url_normalized IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_exclusions_search_key ON exclusions (search_key);

CREATE TABLE IF NOT EXISTS searches (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id      UUID REFERENCES users(id) ON DELETE SET NULL,
	search_key   TEXT NOT NULL,
	last_name    TEXT NOT NULL,
	first_name   TEXT,
	city         TEXT,
	state        TEXT,
	age_years    INT,
	result_count INT NOT NULL DEFAULT 0,
	ran_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_searches_user_ran ON searches (user_id, ran_at DESC);
CREATE INDEX IF NOT EXISTS idx_searches_search_key ON searches (search_key);
`

// Migrate applies the schema. search_key IS NULL on an exclusion row means the
// row applies to every search.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
