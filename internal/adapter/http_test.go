package adapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artivio/artivio-chain/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	m.Run()
}

var fastRetry = RetryPolicy{
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
	MaxElapsedTime:  time.Second,
}

func TestPost_RetriesRateLimitedRequests(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"a":1}`, string(body))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewHTTPClientWithRetry(time.Second, fastRetry)
	headers := http.Header{"Authorization": []string{"Bearer secret"}}

	resp, err := client.Post(context.Background(), server.URL, headers, []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(resp))
	assert.Equal(t, int32(3), calls.Load())
}

func TestPost_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid jwt"))
	}))
	defer server.Close()

	client := NewHTTPClientWithRetry(time.Second, fastRetry)
	_, err := client.Post(context.Background(), server.URL, nil, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "invalid jwt", statusErr.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pin_count":3}`))
	}))
	defer server.Close()

	var result struct {
		PinCount int `json:"pin_count"`
	}
	client := NewHTTPClientWithRetry(time.Second, fastRetry)
	require.NoError(t, client.GetJSON(context.Background(), server.URL, nil, &result))
	assert.Equal(t, 3, result.PinCount)
}

func TestGetJSON_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var result map[string]interface{}
	client := NewHTTPClientWithRetry(time.Second, fastRetry)
	err := client.GetJSON(context.Background(), server.URL, nil, &result)
	assert.ErrorContains(t, err, "failed to decode response")
}
