package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/middleware"
	"versioned-translator/internal/testutil"
	"versioned-translator/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) Repository {
	return NewRepository(testutil.OpenDB(t, &domain.TranslationSettings{}))
}

func setupRouter(t *testing.T, repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterValidators())
	router := gin.New()
	router.Use(middleware.ErrorHandler(zerolog.Nop()))
	NewHandler(NewService(repo, zerolog.Nop())).RegisterRoutes(router.Group("/api"))
	return router
}

func TestRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_SeedOnlyOnce(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Seed(ctx, domain.TranslationSettings{APIKey: "K", DefaultTargetLanguages: "EN"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Seed(ctx, domain.TranslationSettings{APIKey: "other"})
	require.NoError(t, err)
	assert.False(t, created)

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "K", s.APIKey)
}

func TestService_CurrentReturnsNilWhenMissing(t *testing.T) {
	svc := NewService(newTestRepository(t), zerolog.Nop())
	assert.Nil(t, svc.Current(context.Background()))
}

func TestShowSettings_NotConfigured(t *testing.T) {
	router := setupRouter(t, newTestRepository(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/settings", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSettings_SuccessMasksKey(t *testing.T) {
	repo := newTestRepository(t)
	router := setupRouter(t, repo)

	body := `{"api_key":"abcd-1234-wxyz","enable_auto_translation":true,"auto_translate_on_update":true,"default_source_language":"DE","default_target_languages":"en, fr"}`
	req := httptest.NewRequest("PUT", "/api/settings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp SettingsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.True(t, resp.APIKeySet)
	assert.Equal(t, "...wxyz", resp.APIKeyHint)
	assert.NotContains(t, w.Body.String(), "abcd-1234")

	stored, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abcd-1234-wxyz", stored.APIKey)
	assert.Equal(t, "de", stored.DefaultSourceLanguage)
	assert.Equal(t, "EN,FR", stored.DefaultTargetLanguages)
	assert.True(t, stored.TranslatesOnUpdate())
}

func TestUpdateSettings_KeepsKeyWhenOmitted(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.Seed(context.Background(), domain.TranslationSettings{APIKey: "K-secret"})
	require.NoError(t, err)
	router := setupRouter(t, repo)

	req := httptest.NewRequest("PUT", "/api/settings", bytes.NewBufferString(`{"default_target_languages":"it"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	stored, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "K-secret", stored.APIKey)
	assert.Equal(t, "IT", stored.DefaultTargetLanguages)
}

func TestUpdateSettings_InvalidLanguages(t *testing.T) {
	router := setupRouter(t, newTestRepository(t))

	req := httptest.NewRequest("PUT", "/api/settings", bytes.NewBufferString(`{"default_target_languages":"english;french"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "default_target_languages")
}
