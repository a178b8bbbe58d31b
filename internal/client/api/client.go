// Package api implements the remote document store over the reference
// server's JSON API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/iudanet/keepsake/internal/client/remote"
	"github.com/iudanet/keepsake/internal/models"
	"github.com/iudanet/keepsake/pkg/api"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetryMax     = 3
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 5 * time.Second
)

// TokenFunc returns the bearer token for a request. An empty token sends
// the request unauthenticated.
type TokenFunc func(ctx context.Context) (string, error)

// Option настраивает Client
type Option func(*Client)

// WithTokenFunc sets where the bearer token comes from
func WithTokenFunc(fn TokenFunc) Option {
	return func(c *Client) { c.token = fn }
}

// WithMaxRetries sets how many times a failed attempt is retried
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.retry.RetryMax = n }
}

// WithRetryWait bounds the backoff between attempts
func WithRetryWait(waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retry.RetryWaitMin = waitMin
		c.retry.RetryWaitMax = waitMax
	}
}

// WithTimeout bounds one call including all of its retries
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Client представляет HTTP клиент удалённого хранилища документов
type Client struct {
	retry   *retryablehttp.Client
	token   TokenFunc
	logger  *slog.Logger
	baseURL string
	timeout time.Duration
}

var _ remote.Store = (*Client)(nil)

// NewClient создает новый API клиент. Connection errors, 5xx (except 501)
// and 429 are retried with exponential backoff.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	retry := retryablehttp.NewClient()
	retry.HTTPClient = cleanhttp.DefaultPooledClient()
	retry.RetryMax = defaultRetryMax
	retry.RetryWaitMin = defaultRetryWaitMin
	retry.RetryWaitMax = defaultRetryWaitMax
	retry.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: logger.With("subsystem", "api")})
	retry.CheckRetry = retryablehttp.DefaultRetryPolicy
	// Последний ответ нужен, чтобы отличить постоянную ошибку от временной
	retry.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		retry:   retry,
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Query returns the documents of collection
func (c *Client) Query(ctx context.Context, collection string, opts remote.QueryOptions) ([]models.Record, error) {
	req := api.QueryRequest{
		Collection: collection,
		OrderBy:    opts.OrderBy,
		Descending: opts.Descending,
		Limit:      opts.Limit,
	}

	var resp api.QueryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/query", req, &resp); err != nil {
		return nil, fmt.Errorf("query %s failed: %w", collection, err)
	}

	records := make([]models.Record, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		records = append(records, models.Record{
			ID:        d.ID,
			Fields:    d.Fields,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return records, nil
}

// Create writes a new document
func (c *Client) Create(ctx context.Context, collection, id string, fields map[string]any) error {
	return c.write(ctx, models.WriteCreate, collection, id, fields)
}

// Update merges fields into a document
func (c *Client) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return c.write(ctx, models.WriteUpdate, collection, id, fields)
}

// Delete removes a document
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	return c.write(ctx, models.WriteDelete, collection, id, nil)
}

func (c *Client) write(ctx context.Context, action models.WriteAction, collection, id string, fields map[string]any) error {
	req := api.WriteRequest{
		Action:     string(action),
		Collection: collection,
		ID:         id,
		Fields:     fields,
	}

	var resp api.WriteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/write", req, &resp); err != nil {
		return fmt.Errorf("%s %s/%s failed: %w", action, collection, id, err)
	}

	if resp.Replayed {
		c.logger.Debug("Write already applied by server", "collection", collection, "id", id)
	}
	return nil
}

// PutBlob uploads data under key and returns the server's reference to it
func (c *Client) PutBlob(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var resp api.BlobResponse
	if err := c.do(ctx, http.MethodPut, "/api/v1/blobs/"+escapePath(key), contentType, data, &resp); err != nil {
		return "", fmt.Errorf("upload blob %s failed: %w", key, err)
	}
	return resp.Ref, nil
}

// Health makes a single unretried request to the health endpoint
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.retry.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, method, path, "application/json", jsonData, result)
}

// do выполняет HTTP запрос
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, result any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	if key, ok := remote.IdempotencyKey(ctx); ok {
		req.Header.Set(api.HeaderIdempotencyKey, key)
	}

	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.retry.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			statusErr.Message = errResp.Error
			if errResp.Message != "" {
				statusErr.Message += ": " + errResp.Message
			}
		}
		return statusErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// StatusError is a non-2xx answer from the server
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Permanent reports whether repeating the request cannot succeed.
// 401 is not permanent: the request can pass once the user logs in again.
// 404 is not permanent either: an update may arrive before the upload that
// creates its document.
func (e *StatusError) Permanent() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Is makes errors.Is(err, remote.ErrPermanent) hold for permanent statuses
func (e *StatusError) Is(target error) bool {
	return target == remote.ErrPermanent && e.Permanent()
}

// StatusCode extracts the HTTP status from err, or 0
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func escapePath(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// leveledSlog downgrades the retry client's intermediate errors to warnings
type leveledSlog struct {
	inner *slog.Logger
}

func (l leveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}
