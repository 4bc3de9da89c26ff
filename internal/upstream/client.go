// Package upstream is the typed client for the scrum assessment REST API.
// Every call is a single-shot request: the gateway never retries, failed
// calls surface a typed error for the caller to display.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/scrum-console-gateway/pkg/errors"
)

// Config points the client at the assessment service. Observe, when set,
// receives the duration of every call, labelled by method and route pattern.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Observe func(operation string, duration time.Duration)
}

// Client talks to the assessment service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	observe func(operation string, duration time.Duration)
	logger  *zap.Logger
}

// New constructs a Client instance.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		observe: cfg.Observe,
		logger:  logger,
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

func (c *Client) doForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if c.observe != nil {
		c.observe(operationLabel(req.Method, req.URL.Path), time.Since(start))
	}
	if err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return c.mapStatus(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "invalid response from the assessment service")
	}
	return nil
}

// mapStatus converts an upstream failure response into the console taxonomy,
// preferring the server-supplied detail message over the generic one.
func (c *Client) mapStatus(resp *http.Response) error {
	detail := readDetail(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return appErrors.Clone(appErrors.ErrAuthExpired, detail)
	case http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrForbidden, detail)
	case http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return appErrors.Clone(appErrors.ErrRequestRejected, detail)
	default:
		return appErrors.Clone(appErrors.ErrUpstreamUnavailable, detail)
	}
}

// readDetail extracts a human-readable message from the upstream error body.
// The assessment service answers either {"detail": "..."} or
// {"error": {"detail": "...", "entity_name": "..."}} or {"error": "..."}.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}

	if msg := rawString(envelope.Detail); msg != "" {
		return msg
	}
	if msg := rawString(envelope.Error); msg != "" {
		return msg
	}

	var nested struct {
		Detail     string `json:"detail"`
		EntityName string `json:"entity_name"`
	}
	if len(envelope.Error) > 0 && json.Unmarshal(envelope.Error, &nested) == nil {
		if nested.Detail != "" && nested.EntityName != "" {
			return fmt.Sprintf("%s: %s", nested.EntityName, nested.Detail)
		}
		if nested.Detail != "" {
			return nested.Detail
		}
	}
	return ""
}

// operationLabel collapses a request path into a bounded metric label:
// numeric segments become ":id" so every user keeps the label set small.
func operationLabel(method, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			segments[i] = ":id"
		}
	}
	return method + " /" + strings.Join(segments, "/")
}

func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) > 0 && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return ""
}
