package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/timecamp-cli/internal/config"
	"github.com/kelsos/timecamp-cli/internal/logger"
)

func init() {
	logger.Init()
}

func newTestConfig(baseURL string) *config.Config {
	cfg := config.NewConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	cfg.RetryDelay = 5 * time.Millisecond
	return cfg
}

func TestRetryExhaustionOnRateLimit(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer server.Close()

	c := NewAPIClient(newTestConfig(server.URL))

	err := c.Do(http.MethodPost, "group/1/user", RequestOptions{
		JSON: map[string]string{"email": "x@example.com"},
		Retry: RetryPolicy{
			Enabled:    true,
			MaxRetries: 3,
			Delay:      time.Millisecond,
		},
	}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(4), attempts.Load(), "maxRetries=3 means exactly 4 total attempts")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Contains(t, apiErr.Body, "rate limited")
}

func TestRetrySucceedsAfterRateLimit(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewAPIClient(newTestConfig(server.URL))

	var result map[string]bool
	err := c.Do(http.MethodPost, "timer", RequestOptions{
		JSON: map[string]string{"action": "status"},
		Retry: RetryPolicy{
			Enabled:    true,
			MaxRetries: 3,
			Delay:      time.Millisecond,
		},
	}, &result)

	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load(), "two rate limits then success means exactly 3 attempts")
	assert.True(t, result["ok"])
}

func TestNoRetryOnOtherErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	c := NewAPIClient(newTestConfig(server.URL))

	err := c.Do(http.MethodGet, "tasks", RequestOptions{
		Retry: RetryPolicy{Enabled: true, MaxRetries: 5, Delay: time.Millisecond},
	}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Body)
}

func TestRetryEnabledWithZeroExtraAttempts(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewAPIClient(newTestConfig(server.URL))

	err := c.Do(http.MethodGet, "tasks", RequestOptions{
		Retry: RetryPolicy{Enabled: true, MaxRetries: 0, Delay: time.Millisecond},
	}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load(), "zero extra attempts means a single attempt")
}

func TestNoRetryWhenDisabled(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewAPIClient(newTestConfig(server.URL))

	err := c.Get("tasks", nil, nil)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestTimeoutDistinguishedFromAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	cfg := newTestConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	c := NewAPIClient(cfg)

	err := c.Get("me", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "timeout must not look like a server rejection")
}

func TestFormBodyEncoding(t *testing.T) {
	var contentType, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		body = r.PostForm.Get("display_name")
	}))
	defer server.Close()

	c := NewAPIClient(newTestConfig(server.URL))

	err := c.Do(http.MethodPost, "user", RequestOptions{
		Form: map[string]string{"display_name": "Jane Doe", "user_id": "7"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "Jane Doe", body)
}

func TestJSONAndFormAreMutuallyExclusive(t *testing.T) {
	c := NewAPIClient(newTestConfig("http://localhost:1"))

	err := c.Do(http.MethodPost, "user", RequestOptions{
		JSON: map[string]string{"a": "b"},
		Form: map[string]string{"c": "d"},
	}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestGetRequestDefaultsAndHeaders(t *testing.T) {
	var format, auth, clientName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format = r.URL.Query().Get("format")
		auth = r.Header.Get("Authorization")
		clientName = r.Header.Get("X-Client-Name")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewAPIClient(newTestConfig(server.URL))

	var result map[string]interface{}
	require.NoError(t, c.Get("tasks", map[string]string{"status": "all"}, &result))
	assert.Equal(t, "json", format)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "timecamp-cli", clientName)
}

func TestBuildV3Endpoint(t *testing.T) {
	assert.Equal(t, "v3/custom-fields/template/list", BuildV3Endpoint("custom-fields/template/list"))
	assert.Equal(t, "v3/taskPicker/favourites", BuildV3Endpoint("/taskPicker/favourites"))
}
