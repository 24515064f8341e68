// Package clicks is the HTTP client of the click counting and claim signing
// service.
package clicks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/pkg/safe"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second
	// The service rejects clicks closer than 500ms apart.
	clicksPerSecond = 2
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Failed to fetch. Return code %d from %s", e.Code, e.URL)
}

// ClicksResponse is the click count of a session.
type ClicksResponse struct {
	Success bool
	Clicks  uint64
	Message string
}

// ClickResponse is the result of a click. Token is the session the click was
// counted against and may differ from the one sent.
type ClickResponse struct {
	Success bool
	Token   string
	Clicks  uint64
}

type clicksBody struct {
	Success bool   `json:"success"`
	Clicks  *int64 `json:"clicks"`
	Message string `json:"message"`
}

type clickBody struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Clicks  *int64 `json:"clicks"`
}

// Client talks to the click service.
type Client struct {
	logger  *zap.Logger
	baseURL string
	http    *http.Client
	limiter ratelimit.Limiter
	metrics Metrics
}

// NewClient builds a Client for baseURL. httpClient may be nil.
func NewClient(logger *zap.Logger, baseURL string, httpClient *http.Client, metrics Metrics) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("click service url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parse click service url: %w", err)
	}
	if metrics == nil {
		return nil, errors.New("click service metrics is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		logger:  logger.Named("clicks"),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		limiter: ratelimit.New(clicksPerSecond),
		metrics: metrics,
	}, nil
}

// GetClicks returns the click count of token. Callers must not pass an
// empty token.
func (c *Client) GetClicks(ctx context.Context, token string) (resp ClicksResponse, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_clicks", err, started)
	}()

	if token == "" {
		return ClicksResponse{}, errors.New("session token is required")
	}

	var body clicksBody
	if err = c.do(ctx, http.MethodGet, "/clicks/"+url.PathEscape(token), nil, &body); err != nil {
		return ClicksResponse{}, err
	}
	clicks, err := toClicks(body.Clicks)
	if err != nil {
		return ClicksResponse{}, err
	}
	return ClicksResponse{Success: body.Success, Clicks: clicks, Message: body.Message}, nil
}

// SendClick records one click. An empty token asks the service for a new
// session.
func (c *Client) SendClick(ctx context.Context, token string) (resp ClickResponse, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("send_click", err, started)
	}()

	c.limiter.Take()

	req := map[string]interface{}{"token": nil}
	if token != "" {
		req["token"] = token
	}

	var body clickBody
	if err = c.do(ctx, http.MethodPost, "/click", req, &body); err != nil {
		return ClickResponse{}, err
	}
	clicks, err := toClicks(body.Clicks)
	if err != nil {
		return ClickResponse{}, err
	}
	return ClickResponse{Success: body.Success, Token: body.Token, Clicks: clicks}, nil
}

// GetClaim asks the service to co-sign a claim for the clicks of token. It
// returns nil without error when an argument is missing.
func (c *Client) GetClaim(ctx context.Context, token, recipient, contract string) (claim *model.Claim, err error) {
	if token == "" || recipient == "" || contract == "" {
		c.logger.Warn("missing argument(s) to GetClaim",
			zap.Bool("token", token != ""),
			zap.Bool("recipient", recipient != ""),
			zap.Bool("contract", contract != ""),
		)
		return nil, nil
	}

	started := time.Now()
	defer func() {
		c.metrics.Observe("get_claim", err, started)
	}()

	req := map[string]string{
		"token":     token,
		"recipient": recipient,
		"contract":  contract,
	}
	claim = new(model.Claim)
	if err = c.do(ctx, http.MethodPost, "/claim", req, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	endpoint := c.baseURL + path

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, URL: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func toClicks(v *int64) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	clicks, err := safe.Uint64(*v)
	if err != nil {
		return 0, fmt.Errorf("click count: %w", err)
	}
	return clicks, nil
}
