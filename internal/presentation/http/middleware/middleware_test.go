package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTenantFromHost(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
		wantErr  bool
	}{
		{"subdomain", "acme.saralbilling.in", "acme", false},
		{"subdomain with port", "acme.saralbilling.in:8080", "acme", false},
		{"bare domain", "saralbilling.in", "", true},
		{"localhost", "localhost:8080", "", true},
		{"deep subdomain", "acme.api.saralbilling.in", "acme", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, err := ExtractTenantFromHost(tt.host)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, slug)
		})
	}
}

type memIdempotencyRepo struct {
	keys map[string]*entity.IdempotencyKey
}

func newMemIdempotencyRepo() *memIdempotencyRepo {
	return &memIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *memIdempotencyRepo) GetByKey(_ context.Context, key string, _ uuid.UUID) (*entity.IdempotencyKey, error) {
	return r.keys[key], nil
}

func (r *memIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.keys[ikey.Key] = ikey
	return nil
}

func (r *memIdempotencyRepo) DeleteExpired(_ context.Context) error {
	return nil
}

func newIdempotencyRouter(repo *memIdempotencyRepo) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	calls := 0
	router := gin.New()
	router.POST("/bills",
		func(c *gin.Context) { c.Set("user_id", uuid.MustParse("11111111-1111-1111-1111-111111111111")) },
		IdempotencyRequired(IdempotencyConfig{Repo: repo}),
		func(c *gin.Context) {
			calls++
			c.JSON(http.StatusCreated, gin.H{"success": true, "calls": calls})
		})
	return router, &calls
}

func postBill(router *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyRequiredMissingKey(t *testing.T) {
	router, calls := newIdempotencyRouter(newMemIdempotencyRepo())

	w := postBill(router, "", `{"total":100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, *calls)
}

func TestIdempotencyRequiredReplaysCachedResponse(t *testing.T) {
	repo := newMemIdempotencyRepo()
	router, calls := newIdempotencyRouter(repo)

	first := postBill(router, "key-1", `{"total":100}`)
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, 1, *calls)

	second := postBill(router, "key-1", `{"total":100}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *calls, "handler must not run again on replay")
}

func TestIdempotencyRequiredRejectsKeyReuseWithDifferentBody(t *testing.T) {
	repo := newMemIdempotencyRepo()
	router, calls := newIdempotencyRouter(repo)

	first := postBill(router, "key-1", `{"total":100}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postBill(router, "key-1", `{"total":999}`)
	assert.Equal(t, http.StatusUnprocessableEntity, second.Code)
	assert.Equal(t, 1, *calls)
}

func TestIdempotencyRequiredExpiredKeyRunsAgain(t *testing.T) {
	repo := newMemIdempotencyRepo()
	router, calls := newIdempotencyRouter(repo)

	first := postBill(router, "key-1", `{"total":100}`)
	require.Equal(t, http.StatusCreated, first.Code)

	repo.keys["key-1"].ExpiresAt = time.Now().Add(-time.Minute)

	second := postBill(router, "key-1", `{"total":100}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Empty(t, second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 2, *calls)
}
