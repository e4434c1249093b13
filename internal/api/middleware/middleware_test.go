package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"supplement-advisor/internal/infrastructure/auth"
	"supplement-advisor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	tokens map[string]string
	err    error
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, token string) (*auth.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	id, ok := f.tokens[token]
	if !ok {
		return nil, common.NewUnauthorizedError("")
	}
	return &auth.User{ID: id}, nil
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]string{"good-token": "user-1"}}

	router := gin.New()
	router.GET("/me", RequireAuth(verifier), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"no header", "", http.StatusUnauthorized, "Unauthorized - No token provided"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Unauthorized - No token provided"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Unauthorized - No token provided"},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized, "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, common.ErrCodeUnauthorized, body.Code)
			assert.Empty(t, body.Details)
		})
	}

	t.Run("valid token sets user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", w.Body.String())
	})
}

func TestRequireAuth_AuthNotConfigured(t *testing.T) {
	verifier := &fakeVerifier{err: common.NewConfigurationError("Supabase not configured", "SUPABASE_URL")}

	router := gin.New()
	router.GET("/me", RequireAuth(verifier), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer any")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, common.ErrCodeConfiguration, decodeError(t, w).Code)
}

func TestDeduplicator(t *testing.T) {
	d := NewDeduplicator(time.Second)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	var handled int
	router := gin.New()
	router.POST("/echo", d.Middleware(), func(c *gin.Context) {
		var body map[string]string
		require.NoError(t, c.ShouldBindJSON(&body))
		handled++
		c.JSON(http.StatusOK, body)
	})

	send := func(body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send(`{"a":"1"}`, "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"a":"1"}`, first.Body.String(), "body is restored for the handler")

	dup := send(`{"a":"1"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, dup.Code)
	assert.Equal(t, common.ErrCodeTooManyRequests, decodeError(t, dup).Code)

	assert.Equal(t, http.StatusOK, send(`{"a":"2"}`, "").Code, "different body")
	assert.Equal(t, http.StatusOK, send(`{"a":"1"}`, "other-user").Code, "different caller")

	now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, send(`{"a":"1"}`, "").Code, "window elapsed")
	assert.Equal(t, 4, handled)
}

func TestDeduplicator_FailedRequestCanBeResent(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	status := http.StatusGatewayTimeout
	var handled int

	router := gin.New()
	router.POST("/slow", d.Middleware(), func(c *gin.Context) {
		handled++
		c.JSON(status, gin.H{"n": handled})
	})

	send := func() int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/slow", strings.NewReader(`{"symptom":"피곤해요"}`)))
		return w.Code
	}

	assert.Equal(t, http.StatusGatewayTimeout, send())
	assert.Equal(t, http.StatusGatewayTimeout, send(), "resent after failure")

	status = http.StatusOK
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send(), "success is remembered")
	assert.Equal(t, 3, handled)
}

func TestDeduplicator_IgnoresGet(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	router := gin.New()
	router.GET("/ping", d.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, 2)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"), "other clients have their own bucket")

	now = now.Add(31 * time.Second)
	assert.True(t, rl.Allow("1.1.1.1"), "one token refilled")
	assert.False(t, rl.Allow("1.1.1.1"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour, 1)
	router := gin.New()
	router.GET("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(20 * time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	router.GET("/answered", func(c *gin.Context) {
		<-c.Request.Context().Done()
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "handler answered"})
	})
	router.GET("/fast", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, common.ErrCodeGatewayTimeout, decodeError(t, w).Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/answered", nil))
	assert.JSONEq(t, `{"error":"handler answered"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBodySizeLimit(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(8))
	router.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, common.ErrCodeInternalError, decodeError(t, w).Code)
}

func TestDeduplicator_ChunkedBodyOverLimit(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(8))
	router.POST("/x", NewDeduplicator(time.Second).Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"too long"}`))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
