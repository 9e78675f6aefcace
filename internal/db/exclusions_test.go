package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddExclusionRequiresFingerprintOrURL(t *testing.T) {
	// Validated before the pool is touched, so no connection is needed.
	db := &DB{}

	_, err := db.AddExclusion(context.Background(), AddExclusionParams{Note: "empty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fingerprint or a url")
}

func TestExclusionScopedAndGlobal(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	searchKey := fmt.Sprintf("smith|bill|columbus|oh|%s", uuid.New().String()[:8])
	otherKey := searchKey + "-other"
	fingerprint := uuid.New().String()[:16]

	globalID, err := db.AddExclusion(ctx, AddExclusionParams{
		Fingerprint: fingerprint,
		Note:        "wrong person everywhere",
	})
	require.NoError(t, err)
	defer func() {
		_ = db.DeleteExclusion(ctx, globalID)
	}()

	scopedID, err := db.AddExclusion(ctx, AddExclusionParams{
		SearchKey: searchKey,
		URL:       "HTTPS://Legacy.com/Obituaries/Jane-Doe?utm_source=x",
	})
	require.NoError(t, err)
	defer func() {
		_ = db.DeleteExclusion(ctx, scopedID)
	}()

	fingerprints, err := db.ExcludedFingerprints(ctx, searchKey)
	require.NoError(t, err)
	assert.Contains(t, fingerprints, fingerprint)

	// Global rows apply to every search key.
	fingerprints, err = db.ExcludedFingerprints(ctx, otherKey)
	require.NoError(t, err)
	assert.Contains(t, fingerprints, fingerprint)

	urls, err := db.ExcludedURLs(ctx, searchKey)
	require.NoError(t, err)
	assert.Contains(t, urls, "https://legacy.com/obituaries/jane-doe")

	// Scoped rows stay within their search key.
	urls, err = db.ExcludedURLs(ctx, otherKey)
	require.NoError(t, err)
	assert.NotContains(t, urls, "https://legacy.com/obituaries/jane-doe")

	rows, err := db.ListExclusions(ctx, searchKey)
	require.NoError(t, err)

	var sawGlobal, sawScoped bool
	for _, row := range rows {
		switch row.ID {
		case globalID:
			sawGlobal = true
			assert.Empty(t, row.SearchKey)
			assert.Equal(t, fingerprint, row.Fingerprint)
			assert.Equal(t, "wrong person everywhere", row.Note)
			assert.Equal(t, uuid.Nil, row.CreatedBy)
		case scopedID:
			sawScoped = true
			assert.Equal(t, searchKey, row.SearchKey)
			assert.Equal(t, "https://legacy.com/obituaries/jane-doe", row.URLNormalized)
			assert.Empty(t, row.Fingerprint)
		}
	}
	assert.True(t, sawGlobal, "global exclusion missing from list")
	assert.True(t, sawScoped, "scoped exclusion missing from list")
}

func TestExclusionCreatedByRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	email := fmt.Sprintf("excluder-%s@example.com", uuid.New().String()[:8])
	userID, err := db.CreateUser(ctx, "Ex Cluder", email, "")
	require.NoError(t, err)
	defer func() {
		_ = db.DeleteUser(ctx, userID)
	}()

	searchKey := fmt.Sprintf("doe|jane|||%s", uuid.New().String()[:8])
	id, err := db.AddExclusion(ctx, AddExclusionParams{
		SearchKey:   searchKey,
		Fingerprint: uuid.New().String()[:16],
		CreatedBy:   userID,
	})
	require.NoError(t, err)
	defer func() {
		_ = db.DeleteExclusion(ctx, id)
	}()

	rows, err := db.ListExclusions(ctx, searchKey)
	require.NoError(t, err)

	found := false
	for _, row := range rows {
		if row.ID == id {
			found = true
			assert.Equal(t, userID, row.CreatedBy)
			assert.False(t, row.CreatedAt.IsZero())
		}
	}
	assert.True(t, found, "exclusion with creator missing from list")
}

func TestDeleteExclusion(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	id, err := db.AddExclusion(ctx, AddExclusionParams{Fingerprint: uuid.New().String()[:16]})
	require.NoError(t, err)

	require.NoError(t, db.DeleteExclusion(ctx, id))

	err = db.DeleteExclusion(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclusion not found")
}
