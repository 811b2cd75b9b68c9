package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/salesboard/internal/core/domain"
	"github.com/custodia-labs/salesboard/internal/core/ports/driven"
	"github.com/custodia-labs/salesboard/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RowSource = (*Source)(nil)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is the default proactive throttle rate.
	DefaultRequestsPerSecond = 2.0

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// MaxPayloadSize caps the response body that will be decoded.
	MaxPayloadSize = 64 * 1024 * 1024

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	maxErrorBody = 512
)

// Config keys understood by the api source.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	ConfigToken             = "token"
	ConfigRequestsPerSecond = "requests_per_second"
	ConfigTimeoutSeconds    = "timeout_seconds"
	ConfigUploadURL         = "upload_url"
)

// Options are the defaults applied to sources that do not override them
// in their config.
type Options struct {
	RequestsPerSecond float64
	Timeout           time.Duration

	// RetryDelay overrides the initial backoff. Zero means RetryDelay.
	RetryDelay time.Duration

	// HTTPClient supplies the base transport. Nil means a default client.
	HTTPClient *http.Client
}

// Source fetches rows from a sales API endpoint.
type Source struct {
	source     domain.Source
	endpoint   *url.URL
	client     *http.Client
	limiter    *rate.Limiter
	retryDelay time.Duration

	closeOnce sync.Once
}

// Builder returns a driven.RowSourceBuilder for api sources.
func Builder(defaults Options) driven.RowSourceBuilder {
	return func(source domain.Source) (driven.RowSource, error) {
		return New(source, defaults)
	}
}

// New creates an api source for source.Location.
// Config values override opts.
func New(source domain.Source, opts Options) (*Source, error) {
	endpoint, err := url.Parse(source.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %v", domain.ErrInvalidInput, err)
	}
	if (endpoint.Scheme != "http" && endpoint.Scheme != "https") || endpoint.Host == "" {
		return nil, fmt.Errorf("%w: url must be http or https: %q", domain.ErrInvalidInput, source.Location)
	}

	rps := opts.RequestsPerSecond
	if v, ok := source.Config[ConfigRequestsPerSecond]; ok && v != "" {
		rps, err = strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, ConfigRequestsPerSecond)
		}
	}
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	timeout := opts.Timeout
	if v, ok := source.Config[ConfigTimeoutSeconds]; ok && v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, ConfigTimeoutSeconds)
		}
		timeout = time.Duration(secs) * time.Second
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = RetryDelay
	}

	return &Source{
		source:     source,
		endpoint:   endpoint,
		client:     newHTTPClient(opts.HTTPClient, source.Config[ConfigToken], timeout),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		retryDelay: retryDelay,
	}, nil
}

// newHTTPClient wraps base with bearer authentication when a token is set.
func newHTTPClient(base *http.Client, token string, timeout time.Duration) *http.Client {
	if base == nil {
		base = &http.Client{}
	}

	if token == "" {
		client := *base
		client.Timeout = timeout
		return &client
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: "Bearer"},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = timeout
	return tc
}

// Type returns the source type.
func (s *Source) Type() domain.SourceType {
	return domain.SourceTypeAPI
}

// Source returns the configuration this source was built from.
func (s *Source) Source() domain.Source {
	return s.source
}

// Capabilities returns what this source supports.
func (s *Source) Capabilities() driven.RowSourceCapabilities {
	return driven.RowSourceCapabilities{
		SupportsRateLimiting: true,
		RemoteFetch:          true,
	}
}

// Fetch GETs the endpoint and decodes the JSON payload.
// Transient failures are retried up to MaxRetries times with exponential
// backoff, honouring Retry-After when the server sends it.
func (s *Source) Fetch(ctx context.Context) (any, error) {
	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		payload, err := s.get(ctx)
		if err == nil {
			return payload, nil
		}
		if attempt >= MaxRetries || !retryable(err) {
			return nil, err
		}

		delay := s.retryDelay << attempt
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.RetryAfter > delay {
			delay = apiErr.RetryAfter
		}
		logger.Warn("GET %s failed (%v), retrying in %v", s.endpoint, err, delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (s *Source) get(ctx context.Context) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.wrapError(err, "get")
	}
	defer resp.Body.Close()

	logger.Debug("GET %s -> %d in %v", s.endpoint, resp.StatusCode, time.Since(start))

	if err := checkResponse(resp, s.endpoint.String()); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPayloadSize+1))
	if err != nil {
		return nil, s.wrapError(err, "read body")
	}
	if len(body) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: response larger than %d bytes", domain.ErrInvalidInput, MaxPayloadSize)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrInvalidInput, err)
	}
	return payload, nil
}

// checkResponse converts a non-2xx response into an *APIError.
func checkResponse(resp *http.Response, target string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := strings.TrimSpace(string(snippet))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		URL:        target,
	}
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
		}
	}
	return apiErr
}

// wrapError marks transport failures as the source being unavailable.
func (s *Source) wrapError(err error, op string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", op, s.endpoint, err)
	}
	return fmt.Errorf("%w: %s %s: %v", domain.ErrSourceUnavailable, op, s.endpoint, err)
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, domain.ErrSourceUnavailable)
}

// Watch is not supported for api sources.
func (s *Source) Watch(_ context.Context) (<-chan struct{}, error) {
	return nil, domain.ErrWatchUnsupported
}

// Close releases idle connections.
func (s *Source) Close() error {
	s.closeOnce.Do(s.client.CloseIdleConnections)
	return nil
}
