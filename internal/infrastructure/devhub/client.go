package devhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/forcelift/forcelift/internal/config"
	flerrors "github.com/forcelift/forcelift/internal/errors"
	"github.com/forcelift/forcelift/internal/observability"
	"github.com/forcelift/forcelift/internal/tooling"
)

// getTimeout returns the configured timeout or default.
func getTimeout(cfg config.DevhubConfig) time.Duration {
	if cfg.Timeout == 0 {
		return 30 * time.Second
	}
	return cfg.Timeout
}

// Client talks to the Tooling API of one Dev Hub org. It implements
// ports.ToolingAPI: every call is issued exactly once, paced by an
// optional rate limiter, never retried.
type Client struct {
	session Session
	httpc   *http.Client
	limiter ratelimit.RateLimiter
	metrics *observability.Metrics
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Tooling API client for the given session.
func NewClient(session Session, cfg config.DevhubConfig, opts ...Option) *Client {
	c := &Client{
		session: session,
		httpc:   &http.Client{Timeout: getTimeout(cfg)},
		metrics: observability.Global(),
		logger:  log.Default(),
	}
	if cfg.RateLimitRPM > 0 {
		c.limiter = ratelimit.New(&ratelimit.Config{
			Rate:     cfg.RateLimitRPM,
			Burst:    cfg.RateLimitRPM,
			Interval: time.Minute,
		})
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query runs SELECT <fields> FROM <object> [WHERE <where>] against the
// Tooling API and returns all records.
func (c *Client) Query(ctx context.Context, fields []string, object, where string) ([]tooling.Record, error) {
	const op = "devhub.Query"

	soql := tooling.BuildQuery(fields, object, where)
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.session.QueryURL(soql), nil)
	if err != nil {
		return nil, flerrors.InternalWrap(err, op, "failed to build request")
	}
	req.Header.Set("Authorization", c.session.AuthorizationHeader())
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("tooling query", "soql", soql)
	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.metrics.RecordQuery(false, time.Since(start))
		return nil, flerrors.NetworkWrapSafe(err, op, "query request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	ok := err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300
	c.metrics.RecordQuery(ok, time.Since(start))
	if err != nil {
		return nil, flerrors.NetworkWrap(err, op, "failed to read query response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiFault(op, resp.StatusCode, body)
	}

	var result tooling.QueryResult
	if err := json.Unmarshal(body, &result); err != nil {
		// Rejected requests come back as a JSON array of messages, which
		// does not fit the query result shape.
		if apiErrs := parseAPIErrors(body); len(apiErrs) > 0 {
			return nil, optionsFault(apiErrs)
		}
		return nil, flerrors.QueryWrap(err, op, "unexpected query response")
	}
	return result.Records, nil
}

// QueryOne runs the query and returns the first record. With raiseError
// set, zero records is a query error citing the exact SOQL text; without
// it, zero records returns nil. Multiple records return the first.
func (c *Client) QueryOne(ctx context.Context, fields []string, object, where string, raiseError bool) (tooling.Record, error) {
	recs, err := c.Query(ctx, fields, object, where)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		if raiseError {
			soql := tooling.BuildQuery(fields, object, where)
			return nil, flerrors.New(flerrors.KindQuery, fmt.Sprintf("No records returned for query: %s", soql))
		}
		return nil, nil
	}
	return recs[0], nil
}

// PromotePackage2Version flips the IsReleased flag on a Package2Version
// row. Any 2xx status is success.
func (c *Client) PromotePackage2Version(ctx context.Context, id string) error {
	const op = "devhub.PromotePackage2Version"

	if err := c.pace(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]bool{"IsReleased": true})
	if err != nil {
		return flerrors.InternalWrap(err, op, "failed to encode update")
	}
	u := c.session.SObjectURL(tooling.ObjectPackage2Version, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(payload))
	if err != nil {
		return flerrors.InternalWrap(err, op, "failed to build request")
	}
	req.Header.Set("Authorization", c.session.AuthorizationHeader())
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("promoting package version", "package2_version_id", id)
	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.metrics.RecordUpdate(false, time.Since(start))
		return flerrors.NetworkWrapSafe(err, op, "update request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	ok := err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300
	c.metrics.RecordUpdate(ok, time.Since(start))
	if err != nil {
		return flerrors.NetworkWrap(err, op, "failed to read update response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiFault(op, resp.StatusCode, body)
	}
	return nil
}

// pace waits for a rate limiter token when pacing is configured.
func (c *Client) pace(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	start := time.Now()
	if err := c.limiter.Wait(ctx, "tooling-api"); err != nil {
		return flerrors.Wrap(err, flerrors.KindCanceled, "devhub.pace", "rate limit wait canceled")
	}
	c.metrics.RecordRateLimitWait(time.Since(start))
	return nil
}

// parseAPIErrors decodes the error-array body shape, returning nil when
// the body is anything else.
func parseAPIErrors(body []byte) []tooling.APIError {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var apiErrs []tooling.APIError
	if err := json.Unmarshal(trimmed, &apiErrs); err != nil {
		return nil
	}
	return apiErrs
}

// optionsFault turns an API error array into an options error, the shape
// the platform uses for requests it refuses outright.
func optionsFault(apiErrs []tooling.APIError) error {
	msgs := make([]string, 0, len(apiErrs))
	for _, e := range apiErrs {
		msgs = append(msgs, e.Message)
	}
	err := flerrors.New(flerrors.KindOptions, strings.Join(msgs, "; "))
	if apiErrs[0].ErrorCode != "" {
		err = err.WithDetail("error_code", apiErrs[0].ErrorCode)
	}
	return err
}

// apiFault maps a non-2xx response to an error, preferring the API's own
// message when the body carries one.
func apiFault(op string, status int, body []byte) error {
	if apiErrs := parseAPIErrors(body); len(apiErrs) > 0 {
		return optionsFault(apiErrs)
	}
	return flerrors.Network(op, fmt.Sprintf("unexpected status %d", status))
}
