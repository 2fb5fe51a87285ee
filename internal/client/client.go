package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kelsos/timecamp-cli/internal/config"
	"github.com/kelsos/timecamp-cli/internal/logger"
)

// RetryPolicy controls retrying of rate-limited (429) responses. Any other
// failure is terminal regardless of the policy. MaxRetries counts the extra
// attempts after the first, so zero means a single attempt even when
// enabled.
type RetryPolicy struct {
	Enabled    bool
	MaxRetries int
	Delay      time.Duration
}

// RequestOptions describes a single API call. JSON and Form are mutually
// exclusive request bodies.
type RequestOptions struct {
	Params map[string]string
	JSON   interface{}
	Form   map[string]string
	Retry  RetryPolicy
}

// APIClient handles all HTTP communication with the TimeCamp API
type APIClient struct {
	config     *config.Config
	httpClient *http.Client
}

// NewAPIClient creates a new API client with the given configuration
func NewAPIClient(cfg *config.Config) *APIClient {
	return &APIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ClientName returns the configured client identifier sent with requests.
func (c *APIClient) ClientName() string {
	return c.config.ClientName
}

// BuildURL constructs a full URL for the given endpoint and query parameters
func (c *APIClient) BuildURL(endpoint string, params map[string]string) string {
	base := fmt.Sprintf("%s/%s", strings.TrimSuffix(c.config.BaseURL, "/"), strings.TrimPrefix(endpoint, "/"))
	if len(params) == 0 {
		return base
	}

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	return base + "?" + values.Encode()
}

// BuildV3Endpoint builds an endpoint path for the v3 API
func BuildV3Endpoint(path string) string {
	return "v3/" + strings.TrimPrefix(path, "/")
}

// Get makes a GET request to the specified endpoint
func (c *APIClient) Get(endpoint string, params map[string]string, result interface{}) error {
	return c.Do(http.MethodGet, endpoint, RequestOptions{Params: params}, result)
}

// Post makes a POST request with a JSON body to the specified endpoint
func (c *APIClient) Post(endpoint string, body interface{}, result interface{}) error {
	return c.Do(http.MethodPost, endpoint, RequestOptions{JSON: body}, result)
}

// Put makes a PUT request with a JSON body to the specified endpoint
func (c *APIClient) Put(endpoint string, body interface{}, result interface{}) error {
	return c.Do(http.MethodPut, endpoint, RequestOptions{JSON: body}, result)
}

// Delete makes a DELETE request to the specified endpoint
func (c *APIClient) Delete(endpoint string, body interface{}, result interface{}) error {
	return c.Do(http.MethodDelete, endpoint, RequestOptions{JSON: body}, result)
}

// Do executes a single logical API call. Rate-limited responses are retried
// per opts.Retry with a fixed delay between attempts; every other non-2xx
// status surfaces immediately as an *APIError.
func (c *APIClient) Do(method, endpoint string, opts RequestOptions, result interface{}) error {
	if opts.JSON != nil && opts.Form != nil {
		return fmt.Errorf("JSON and form bodies are mutually exclusive")
	}

	maxRetries := 0
	if opts.Retry.Enabled {
		maxRetries = opts.Retry.MaxRetries
	}
	delay := opts.Retry.Delay
	if delay == 0 {
		delay = c.config.RetryDelay
	}

	// GET responses default to JSON unless the caller overrides the format.
	params := opts.Params
	if method == http.MethodGet {
		if _, ok := params["format"]; !ok {
			merged := make(map[string]string, len(params)+1)
			for k, v := range params {
				merged[k] = v
			}
			merged["format"] = "json"
			params = merged
		}
	}

	requestURL := c.BuildURL(endpoint, params)

	bodyBytes, contentType, err := encodeBody(opts)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug("Rate limited on %s, waiting %s before attempt %d/%d", requestURL, delay, attempt+1, maxRetries+1)
			time.Sleep(delay)
		}

		err := c.attempt(method, requestURL, bodyBytes, contentType, result)
		if err == nil {
			return nil
		}

		if IsRateLimited(err) && attempt < maxRetries {
			lastErr = err
			continue
		}

		return err
	}

	return lastErr
}

// attempt issues one HTTP request and decodes a successful response.
func (c *APIClient) attempt(method, requestURL string, body []byte, contentType string, result interface{}) error {
	start := time.Now()
	logger.Debug("Starting %s request to %s", method, requestURL)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, requestURL, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("User-Agent", c.config.ClientName)
	req.Header.Set("X-Client-Name", c.config.ClientName)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			logger.Error("Request to %s timed out after %v", requestURL, elapsed)
			return fmt.Errorf("no response after %s: %w", c.config.Timeout, ErrTimeout)
		}
		logger.Error("Request to %s failed after %v: %v", requestURL, elapsed, err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	logger.Debug("Request to %s completed in %v with status %d", requestURL, elapsed, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("%s: HTTP error %d: %s", requestURL, resp.StatusCode, string(respBody))
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			logger.Error("%s: Error decoding response: %v", requestURL, err)
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

func encodeBody(opts RequestOptions) ([]byte, string, error) {
	switch {
	case opts.JSON != nil:
		jsonBody, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("error marshaling request body: %w", err)
		}
		return jsonBody, "application/json", nil
	case opts.Form != nil:
		values := url.Values{}
		for key, value := range opts.Form {
			values.Set(key, value)
		}
		return []byte(values.Encode()), "application/x-www-form-urlencoded", nil
	default:
		return nil, "", nil
	}
}
