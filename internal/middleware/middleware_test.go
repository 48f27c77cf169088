package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hireflow_backend/internal/auth"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "hireflow-test",
	})
}

func TestAuthMiddleware(t *testing.T) {
	db := testutil.NewDB(t)
	college := testutil.CreateCollege(t, db, "IIT")
	user := testutil.CreateUser(t, db, models.UserRoleCollege, "tpo@iit.edu", college.ID)
	tokens := newTokens()
	pair, err := tokens.IssuePair(user.ID)
	require.NoError(t, err)

	r := gin.New()
	r.Use(DBMiddleware(db))
	r.GET("/me",
		AuthMiddleware(tokens, repositories.NewUserRepository()),
		RequireRoles(models.UserRoleCollege),
		func(c *gin.Context) { c.String(http.StatusOK, GetUserID(c)) },
	)
	r.GET("/students-only",
		AuthMiddleware(tokens, repositories.NewUserRepository()),
		RequireRoles(models.UserRoleStudent),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"bearer header", "/me", "Bearer " + pair.AccessToken, http.StatusOK},
		{"query token", "/me?token=" + pair.AccessToken, "", http.StatusOK},
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"refresh token rejected", "/me", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"garbage", "/me", "Bearer abc", http.StatusUnauthorized},
		{"wrong role", "/students-only", "Bearer " + pair.AccessToken, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK && tt.path == "/me" {
				assert.Equal(t, user.ID, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := newTokens()
	pair, err := tokens.IssuePair("no-such-user")
	require.NoError(t, err)

	r := gin.New()
	r.Use(DBMiddleware(db))
	r.GET("/me", AuthMiddleware(tokens, repositories.NewUserRepository()), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		seen = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", seen)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLoggingMiddleware_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("test", &buf)
	t.Cleanup(func() { logger.InitWithWriter("test", io.Discard) })

	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggingMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Request-ID", "req-"+path[1:])
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var ok, missing map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ok))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &missing))
	assert.Equal(t, "INFO", ok["level"])
	assert.Equal(t, "req-ok", ok["request_id"])
	assert.Equal(t, "WARN", missing["level"])
	assert.Equal(t, "req-missing", missing["request_id"])
	assert.EqualValues(t, 404, missing["status"])
}

func TestPrometheusMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/api/v1/drives/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/drives/1", "/api/v1/drives/2", "/metrics", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, promtest.ToFloat64(m.requestCount.WithLabelValues("GET", "/api/v1/drives/:id", "200")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.requestCount.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.requestCount.WithLabelValues("GET", "/metrics", "200")))

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err, "duplicate registration")
}

type countingLimiter struct {
	calls int
	limit int
}

func (l *countingLimiter) Allow(_ context.Context, _ string, _ int, _ time.Duration) bool {
	l.calls++
	return l.calls <= l.limit
}

func TestRateLimit(t *testing.T) {
	limiter := &countingLimiter{limit: 2}
	r := gin.New()
	r.POST("/login", RateLimit(limiter, "auth", 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_NilLimiterPasses(t *testing.T) {
	var limiter *RedisLimiter
	assert.True(t, limiter.Allow(context.Background(), "k", 1, time.Second))

	r := gin.New()
	r.POST("/login", RateLimit(nil, "auth", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.hireflow.dev"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.hireflow.dev")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://app.hireflow.dev", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
