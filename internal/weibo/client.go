package weibo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Dict is a decoded JSON object as returned by the API. Numbers are kept as
// json.Number so 64-bit ids survive re-encoding.
type Dict = map[string]any

// MetricsHook is called once per API call.
type MetricsHook func(endpoint string, success bool, d time.Duration)

// Config configures a Client.
type Config struct {
	AppKey      string
	AppSecret   string
	RedirectURI string

	Endpoints  Endpoints
	HTTPClient *http.Client

	// RateLimit paces outgoing requests. Zero means 2 req/s.
	RateLimit rate.Limit
	Burst     int

	MetricsHook MetricsHook
	Logger      *zap.Logger
}

func (c *Config) defaults() {
	c.Endpoints = c.Endpoints.withDefaults()
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.RateLimit == 0 {
		c.RateLimit = 2
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Client issues requests against the Weibo REST API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a client. It performs no I/O.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		cfg:     cfg,
		http:    cfg.HTTPClient,
		limiter: rate.NewLimiter(cfg.RateLimit, cfg.Burst),
		logger:  cfg.Logger.Named("weibo"),
	}
}

// Endpoints returns the resolved endpoint set.
func (c *Client) Endpoints() Endpoints {
	return c.cfg.Endpoints
}

// attachment is a binary multipart part.
type attachment struct {
	field    string
	filename string
	data     []byte
}

// tokenRequest performs request with the account's access token attached.
func (c *Client) tokenRequest(ctx context.Context, acct *Account, method, endpoint, rawURL string, params url.Values, att *attachment) (Dict, error) {
	if acct == nil || acct.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	p := url.Values{}
	for k, v := range params {
		p[k] = append([]string(nil), v...)
	}
	p.Set("access_token", acct.AccessToken)
	return c.request(ctx, method, endpoint, rawURL, p, att)
}

// request performs one HTTP call and decodes the JSON object response.
func (c *Client) request(ctx context.Context, method, endpoint, rawURL string, params url.Values, att *attachment) (Dict, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, rawURL, params, att)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}

	start := time.Now()
	dict, err := c.do(req, endpoint)
	elapsed := time.Since(start)
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, err == nil, elapsed)
	}
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("dur", elapsed),
			zap.Error(err))
		return nil, err
	}
	return dict, nil
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, params url.Values, att *attachment) (*http.Request, error) {
	if method == http.MethodGet {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for k, v := range params {
			q[k] = v
		}
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, method, u.String(), nil)
	}

	if att == nil {
		req, err := http.NewRequestWithContext(ctx, method, rawURL, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range params[k] {
			if err := mw.WriteField(k, v); err != nil {
				return nil, err
			}
		}
	}
	part, err := mw.CreateFormFile(att.field, att.filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(att.data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

func (c *Client) do(req *http.Request, endpoint string) (Dict, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weibo %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("weibo %s: read body: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(endpoint, resp.StatusCode, body)
	}

	return decodeDict(body)
}

// decodeDict decodes a JSON object, keeping numbers as json.Number.
func decodeDict(body []byte) (Dict, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var d Dict
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("decode response: not a JSON object")
	}
	return d, nil
}
