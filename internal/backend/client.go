// Package backend is the HTTP client for the project administration API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache stores raw GET response bodies. store.Store implements it.
type Cache interface {
	CachedResponse(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error)
	PutResponse(ctx context.Context, key string, body []byte) error
	PurgeCache(ctx context.Context) error
}

type Options struct {
	BaseURL    string
	Token      string
	ClientID   string
	Timeout    time.Duration
	CacheTTL   time.Duration
	Cache      Cache
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	baseURL  string
	token    string
	clientID string
	timeout  time.Duration
	cacheTTL time.Duration
	cache    Cache
	http     *http.Client
	log      *zap.Logger
}

func New(opts Options) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		token:    strings.TrimSpace(opts.Token),
		clientID: strings.TrimSpace(opts.ClientID),
		timeout:  opts.Timeout,
		cacheTTL: opts.CacheTTL,
		cache:    opts.Cache,
		http:     opts.HTTPClient,
		log:      opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// WithToken returns a copy of c authenticating as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = strings.TrimSpace(token)
	return &cp
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// cacheKey scopes entries to the server so two backends never share them.
func cacheKey(baseURL, method, path string, query url.Values) string {
	k := method + " " + baseURL + path
	if len(query) > 0 {
		k += "?" + query.Encode()
	}
	return k
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	key := cacheKey(c.baseURL, method, path, query)
	cacheable := method == http.MethodGet && c.cache != nil && c.cacheTTL > 0

	if cacheable {
		b, ok, err := c.cache.CachedResponse(ctx, key, c.cacheTTL)
		if err != nil {
			c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			c.log.Debug("cache hit", zap.String("key", key))
			return decodeData(b, out)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("request_id", reqID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: reading body: %w", method, path, err)
	}
	c.log.Debug("request",
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:    resp.StatusCode,
			Message:   errorMessage(raw),
			Method:    method,
			Path:      path,
			RequestID: reqID,
		}
		c.log.Info("api error",
			zap.String("request_id", reqID),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if cacheable {
		if err := c.cache.PutResponse(ctx, key, raw); err != nil {
			c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	} else if method != http.MethodGet && c.cache != nil {
		if err := c.cache.PurgeCache(ctx); err != nil {
			c.log.Warn("cache purge failed", zap.Error(err))
		}
	}
	return decodeData(raw, out)
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// rawOut receives the whole response body instead of its data field.
type rawOut struct{ p *json.RawMessage }

// decodeData unwraps {"data": X} into out. A missing or null data field
// leaves out untouched.
func decodeData(raw []byte, out any) error {
	if r, ok := out.(rawOut); ok {
		*r.p = append(json.RawMessage(nil), raw...)
		return nil
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	d := bytes.TrimSpace(env.Data)
	if len(d) == 0 || bytes.Equal(d, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(d, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// listData accepts a bare array or a paginated {"data": [...]} object.
type listData[T any] []T

func (l *listData[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var page struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(b, &page); err != nil {
		return err
	}
	*l = page.Data
	return nil
}

func errorMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && strings.TrimSpace(env.Message) != "" {
		return strings.TrimSpace(env.Message)
	}
	return ""
}
