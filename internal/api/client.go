package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"

	"youtrack-mcp/internal/config"
	"youtrack-mcp/internal/logging"
)

// Client issues authenticated requests against the YouTrack REST API.
// Transient failures (network errors, 5xx, 429) are retried with exponential
// backoff; all other failures surface immediately as a classified *Error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
}

func NewClient(cfg *config.Config) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		logging.Info("TLS certificate verification disabled")
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		baseURL:    cfg.APIBaseURL(),
		token:      cfg.APIToken,
		maxRetries: cfg.MaxRetries,
	}
}

// Request performs a single API call. path is relative to the API root
// (e.g. "issues/DEMO-123"). body, when non-nil, is JSON-encoded.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	endpoint := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: "encoding request body: " + err.Error(), cause: err}
		}
	}

	var result json.RawMessage
	err := retry.Do(
		func() error {
			res, err := c.attempt(ctx, method, endpoint, payload)
			if err != nil {
				return err
			}
			result = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries+1)),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var apiErr *Error
			return errors.As(err, &apiErr) && apiErr.Retryable()
		}),
		retry.OnRetry(func(n uint, err error) {
			logging.Debug("retrying %s %s (attempt %d): %v", method, path, n+1, err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte) (json.RawMessage, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, &Error{Kind: KindConfiguration, Message: err.Error(), cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, errorMessage(data, resp.Status))
	}

	if len(data) == 0 {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// Get issues a GET request against the API root.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body against the API root.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, path, query, body)
}

// Delete issues a DELETE request against the API root.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

// errorMessage extracts the tracker-provided message from an error payload.
// YouTrack reports {"error": "...", "error_description": "..."}.
func errorMessage(data []byte, fallback string) string {
	var body struct {
		Err         string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Err != "" && body.Description != "":
			return body.Err + ": " + body.Description
		case body.Description != "":
			return body.Description
		case body.Err != "":
			return body.Err
		}
	}
	return fallback
}
