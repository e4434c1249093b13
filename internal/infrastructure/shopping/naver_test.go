package shopping

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"supplement-advisor/internal/infrastructure/config"
	"supplement-advisor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampDisplay(t *testing.T) {
	assert.Equal(t, 10, ClampDisplay(0))
	assert.Equal(t, 10, ClampDisplay(-5))
	assert.Equal(t, 30, ClampDisplay(30))
	assert.Equal(t, 100, ClampDisplay(1000))
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search/shop.json", r.URL.Path)
		assert.Equal(t, "id", r.Header.Get("X-Naver-Client-Id"))
		assert.Equal(t, "secret", r.Header.Get("X-Naver-Client-Secret"))
		assert.Equal(t, "비타민D", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("display"))
		assert.Equal(t, "sim", r.URL.Query().Get("sort"))
		_, _ = w.Write([]byte(`{"total":1,"items":[{"title":"종근당 비타민D"}]}`))
	}))
	defer server.Close()

	c := NewNaverClient(config.NaverConfig{ClientID: " id ", ClientSecret: "secret", BaseURL: server.URL, Timeout: time.Second})
	body, err := c.Search(context.Background(), "비타민D", 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":1,"items":[{"title":"종근당 비타민D"}]}`, string(body))
}

func TestSearch_NotConfigured(t *testing.T) {
	c := NewNaverClient(config.NaverConfig{})

	_, err := c.Search(context.Background(), "비타민D", 10)
	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeConfiguration, ce.Code)
	assert.Equal(t, http.StatusInternalServerError, ce.Status)
	assert.Contains(t, ce.Hint, "NAVER_CLIENT_ID")
}

func TestSearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorMessage":"Authentication failed (secret)"}`))
	}))
	defer server.Close()

	c := NewNaverClient(config.NaverConfig{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL, Timeout: time.Second})
	_, err := c.Search(context.Background(), "철분", 5)

	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, ce.Status)
	assert.Equal(t, "Naver API error: 401", ce.Message)
	assert.NotEmpty(t, ce.Hint)
	assert.NotContains(t, ce.Details, "secret")
}

func TestSearch_BlankQuery(t *testing.T) {
	c := NewNaverClient(config.NaverConfig{ClientID: "id", ClientSecret: "secret"})
	_, err := c.Search(context.Background(), " ", 10)
	assert.True(t, errors.Is(err, common.ErrValidation))
}
