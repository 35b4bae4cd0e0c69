package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) (*RepositoryImpl, *gorm.DB) {
	db := testutil.OpenDB(t, &domain.TranslationStore{})
	repo := NewRepository(db)
	repo.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return repo, db
}

var articleKey = domain.StoreKey{
	ParentDoctype: "Article",
	ParentName:    "A1",
	VersionID:     "A1_0123456789ab",
	Language:      "en",
}

func countRows(t *testing.T, db *gorm.DB, key domain.StoreKey) int64 {
	var n int64
	require.NoError(t, byKey(db.Model(&domain.TranslationStore{}), key).Count(&n).Error)
	return n
}

func TestUpsert_InsertsNewRow(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, articleKey, map[string]string{"title": "Hello"}, domain.StatusCompleted))

	row, err := repo.Find(ctx, articleKey)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, row.TranslationStatus)
	assert.False(t, row.EditMode)
	require.NotNil(t, row.LastTranslated)
	assert.Equal(t, int64(1), countRows(t, db, articleKey))
}

func TestUpsert_OverwritesExistingRow(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, articleKey, map[string]string{"title": "Hello"}, domain.StatusCompleted))
	require.NoError(t, repo.Upsert(ctx, articleKey, map[string]string{"title": "Hi"}, domain.StatusCompleted))

	assert.Equal(t, int64(1), countRows(t, db, articleKey))
	content, err := repo.Get(ctx, articleKey)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "Hi"}, content)
}

func TestUpsert_IsIdempotent(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()
	content := map[string]string{"title": "Hello", "body": "World"}

	for range 3 {
		require.NoError(t, repo.Upsert(ctx, articleKey, content, domain.StatusCompleted))
	}

	assert.Equal(t, int64(1), countRows(t, db, articleKey))
	got, err := repo.Get(ctx, articleKey)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestUpsert_RecoversFailedRow(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.MarkStatus(ctx, articleKey, domain.StatusFailed))
	require.NoError(t, repo.Upsert(ctx, articleKey, map[string]string{"title": "Hello"}, domain.StatusCompleted))

	row, err := repo.Find(ctx, articleKey)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, row.TranslationStatus)
}

func TestMarkStatus_CreatesEmptyRow(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.MarkStatus(ctx, articleKey, domain.StatusFailed))

	assert.Equal(t, int64(1), countRows(t, db, articleKey))
	row, err := repo.Find(ctx, articleKey)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, row.TranslationStatus)
	assert.JSONEq(t, "{}", string(row.TranslatedContent))
	assert.False(t, row.EditMode)
}

func TestMarkStatus_UpdatesStatusOnly(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, articleKey, map[string]string{"title": "Hello"}, domain.StatusCompleted))
	require.NoError(t, repo.MarkStatus(ctx, articleKey, domain.StatusFailed))

	assert.Equal(t, int64(1), countRows(t, db, articleKey))
	row, err := repo.Find(ctx, articleKey)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, row.TranslationStatus)
	content, err := DecodeContent(row.TranslatedContent)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "Hello"}, content)
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.Get(context.Background(), articleKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_CorruptContentIsAnError(t *testing.T) {
	repo, db := newTestRepository(t)
	require.NoError(t, db.Create(&domain.TranslationStore{
		ParentDoctype:     articleKey.ParentDoctype,
		ParentName:        articleKey.ParentName,
		VersionID:         articleKey.VersionID,
		Language:          articleKey.Language,
		TranslatedContent: datatypes.JSON(`["not", "an", "object"]`),
	}).Error)

	_, err := repo.Get(context.Background(), articleKey)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestKeysAreIndependent(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	newer := articleKey
	newer.VersionID = "A1_ba9876543210"
	french := articleKey
	french.Language = "fr"

	require.NoError(t, repo.Upsert(ctx, articleKey, map[string]string{"title": "Hello"}, domain.StatusCompleted))
	require.NoError(t, repo.Upsert(ctx, newer, map[string]string{"title": "Hello again"}, domain.StatusCompleted))
	require.NoError(t, repo.MarkStatus(ctx, french, domain.StatusFailed))

	old, err := repo.Get(ctx, articleKey)
	require.NoError(t, err)
	assert.Equal(t, "Hello", old["title"])

	rows, total, err := repo.ListByDocument(ctx, "Article", "A1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 3)
}

func TestFailedWriteRollsBackWithoutTouchingOtherLanguages(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_fr", func(tx *gorm.DB) {
		if row, ok := tx.Statement.Dest.(*domain.TranslationStore); ok && row.Language == "fr" {
			tx.AddError(errors.New("disk full"))
		}
	}))

	french := articleKey
	french.Language = "fr"

	require.NoError(t, repo.Upsert(ctx, articleKey, map[string]string{"title": "Hello"}, domain.StatusCompleted))
	assert.Error(t, repo.Upsert(ctx, french, map[string]string{"title": "Bonjour"}, domain.StatusCompleted))

	assert.Equal(t, int64(0), countRows(t, db, french))
	content, err := repo.Get(ctx, articleKey)
	require.NoError(t, err)
	assert.Equal(t, "Hello", content["title"])
}

func TestListByDocument_Paginates(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	for _, lang := range []string{"en", "fr", "it"} {
		key := articleKey
		key.Language = lang
		require.NoError(t, repo.Upsert(ctx, key, map[string]string{"title": lang}, domain.StatusCompleted))
	}

	rows, total, err := repo.ListByDocument(ctx, "Article", "A1", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 1)
}

func TestSaveManualEdit(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.SaveManualEdit(ctx, articleKey, map[string]string{"title": "Hey"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, articleKey, map[string]string{"title": "Hello"}, domain.StatusCompleted))
	row, err := repo.SaveManualEdit(ctx, articleKey, map[string]string{"title": "Hey"})
	require.NoError(t, err)
	assert.True(t, row.EditMode)

	stored, err := repo.Find(ctx, articleKey)
	require.NoError(t, err)
	assert.True(t, stored.EditMode)
	content, err := DecodeContent(stored.TranslatedContent)
	require.NoError(t, err)
	assert.Equal(t, "Hey", content["title"])
}
