package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/quill-cms/core/internal/pkg/jwt"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(t *testing.T, rdb *redis.Client, max int64, signer *jwt.Signer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	check := func(userID string) (bool, bool, error) { return false, true, nil }
	r.POST("/submit", OptionalAuth(signer, check), RateLimit(rdb, max), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "ok"})
	})
	return r
}

func hit(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = "203.0.113.7:40000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitCapsAnonymousCallers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	signer := jwt.NewSigner("test-secret", time.Minute, time.Hour)
	r := limitedRouter(t, rdb, 2, signer)

	assert.Equal(t, http.StatusOK, hit(t, r, "").Code)
	assert.Equal(t, http.StatusOK, hit(t, r, "").Code)

	w := hit(t, r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimitExemptsAuthenticatedCallers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	signer := jwt.NewSigner("test-secret", time.Minute, time.Hour)
	r := limitedRouter(t, rdb, 1, signer)

	token, err := signer.SignAccess(jwt.Snapshot{UserID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(t, r, token).Code)
	}

	// Anonymous calls from the same address are still capped.
	assert.Equal(t, http.StatusOK, hit(t, r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(t, r, "").Code)
}

func TestRateLimitNilClientPassesThrough(t *testing.T) {
	signer := jwt.NewSigner("test-secret", time.Minute, time.Hour)
	r := limitedRouter(t, nil, 1, signer)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(t, r, "").Code)
	}
}

func TestRateLimitDegradesOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	signer := jwt.NewSigner("test-secret", time.Minute, time.Hour)
	r := limitedRouter(t, rdb, 1, signer)

	mr.Close()
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(t, r, "").Code)
	}
}
