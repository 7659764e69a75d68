package api

import (
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/shared/config"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// maxBody caps how much of an upstream response is read.
const maxBody = 8 << 20

var (
	_ ports.AuthAPI        = (*Client)(nil)
	_ ports.MarketplaceAPI = (*Client)(nil)
)

// envelope is the shape of every upstream response body.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// Client talks to the marketplace REST API. The bearer token is taken from
// the request context (ports.WithAccessToken).
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	log        zerolog.Logger
}

func NewClient(cfg config.APIConfig, baseLogger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		validate:   validator.New(),
		log:        baseLogger.With().Str("component", "api_client").Logger(),
	}
}

// do sends one request and returns the raw body of a 2xx response.
// Non-2xx responses become *ports.APIError.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := ports.AccessTokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("Upstream request failed")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Upstream call")

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errorFromResponse(resp.StatusCode, raw)
	}
	return raw, nil
}

func errorFromResponse(status int, raw []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	return &ports.APIError{Status: status, Message: body.Message}
}

// call sends in (JSON-encoded when non-nil) and decodes the envelope data as T.
func call[T any](ctx context.Context, c *Client, method, path string, in any) (*envelope[T], error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	raw, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return nil, err
	}
	return decode[T](c, method, path, raw)
}

func decode[T any](c *Client, method, path string, raw []byte) (*envelope[T], error) {
	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ports.ErrUnexpectedResponse, method, path, err)
	}
	if !env.Success {
		return nil, &ports.APIError{Status: http.StatusBadGateway, Message: env.Message}
	}
	if err := c.check(env.Data); err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Upstream payload failed validation")
		return nil, fmt.Errorf("%w: %s %s: %v", ports.ErrUnexpectedResponse, method, path, err)
	}
	return &env, nil
}

// check validates a struct, a pointer to one, or every struct in a slice.
func (c *Client) check(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return errors.New("missing data")
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return c.validate.Struct(rv.Interface())
	case reflect.Slice:
		if k := rv.Type().Elem().Kind(); k != reflect.Struct && k != reflect.Ptr {
			return nil
		}
		for i := 0; i < rv.Len(); i++ {
			if err := c.check(rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

// discard issues a call whose response body is not needed.
func (c *Client) discard(ctx context.Context, method, path string) error {
	_, err := c.do(ctx, method, path, "", nil)
	return err
}
