package source

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultUserAgent is sent when Options.UserAgent is empty.
const DefaultUserAgent = "uslegal-mcp/1.0"

const tracerName = "github.com/jonwraymond/uslegal/source"

// errorSnippetLimit bounds how much of an error body is kept for messages.
const errorSnippetLimit = 512

// Recorder receives per-request measurements. *metrics.Metrics implements it.
type Recorder interface {
	ObserveUpstream(source, op string, d time.Duration)
	UpstreamFailure(source, category string)
	RecordsReturned(source string, n int)
}

// Credential describes how a source authenticates. Exactly one of
// QueryParam or Header is set by the adapter; Key comes from configuration.
type Credential struct {
	// Key is the secret. Empty means unauthenticated.
	Key string
	// EnvVar names the configuration value that supplies Key. Used in
	// diagnostics only.
	EnvVar string
	// QueryParam carries the key as a query parameter.
	QueryParam string
	// Header carries the key as a request header, prefixed by Scheme.
	Header string
	Scheme string
	// Required refuses to call upstream without a key.
	Required bool
}

// Spec is the fixed description of one upstream, supplied by its adapter.
type Spec struct {
	Name       string
	BaseURL    string
	Credential Credential
	// Timeout is the adapter-local bound on one request. Zero relies on the
	// HTTP client's own timeout.
	Timeout time.Duration
}

// Options are the caller-tunable parts of an adapter client.
type Options struct {
	// BaseURL overrides the adapter's default endpoint (tests, proxies).
	BaseURL string
	// APIKey is the source credential, if the source takes one.
	APIKey string
	// Timeout overrides the adapter's default timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
	Logger     *slog.Logger
	// Reporter receives failure diagnostics. Defaults to LogReporter(Logger).
	Reporter Reporter
	Metrics  Recorder
	Tracer   trace.Tracer
}

// Client performs JSON GET requests against one upstream.
type Client struct {
	name       string
	baseURL    string
	credential Credential
	timeout    time.Duration
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
	reporter   Reporter
	metrics    Recorder
	tracer     trace.Tracer
}

// New creates a Client for spec with opts applied.
func New(spec Spec, opts Options) (*Client, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: source name is required", ErrInvalidConfig)
	}

	base := spec.BaseURL
	if opts.BaseURL != "" {
		base = opts.BaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %s base URL %q", ErrInvalidConfig, spec.Name, base)
	}

	cred := spec.Credential
	cred.Key = strings.TrimSpace(opts.APIKey)

	timeout := spec.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	rootLogger := opts.Logger
	if rootLogger == nil {
		rootLogger = slog.Default()
	}
	logger := rootLogger.With("source", spec.Name)

	// LogReporter adds the source attribute itself.
	reporter := opts.Reporter
	if reporter == nil {
		reporter = LogReporter(rootLogger)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Client{
		name:       spec.Name,
		baseURL:    strings.TrimRight(base, "/"),
		credential: cred,
		timeout:    timeout,
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
		reporter:   reporter,
		metrics:    opts.Metrics,
		tracer:     tracer,
	}, nil
}

// Name returns the source name.
func (c *Client) Name() string { return c.name }

// BaseURL returns the resolved endpoint root.
func (c *Client) BaseURL() string { return c.baseURL }

// Logger returns the source-scoped logger.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Authenticated reports whether a credential key is configured.
func (c *Client) Authenticated() bool { return c.credential.Key != "" }

// GetJSON issues GET baseURL+path?query and decodes the JSON body into out.
// op names the adapter operation for tracing, metrics and diagnostics.
// Failures are returned as *Error.
func (c *Client) GetJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, c.name+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("uslegal.source", c.name),
			attribute.String("uslegal.op", op),
		),
	)
	defer span.End()

	start := time.Now()
	err := c.get(ctx, op, path, query, out)
	if c.metrics != nil {
		c.metrics.ObserveUpstream(c.name, op, time.Since(start))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(CategoryOf(err)))
		if c.metrics != nil {
			c.metrics.UpstreamFailure(c.name, string(CategoryOf(err)))
		}
	}
	return err
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	if c.credential.Required && c.credential.Key == "" {
		return c.newError(op, CategoryAuthentication, 0, c.credentialMessage(), ErrMissingCredential)
	}

	q := url.Values{}
	for k, vs := range query {
		q[k] = append([]string(nil), vs...)
	}
	if c.credential.Key != "" && c.credential.QueryParam != "" {
		q.Set(c.credential.QueryParam, c.credential.Key)
	}

	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return c.newError(op, CategoryInternal, 0, "building request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.credential.Key != "" && c.credential.Header != "" {
		value := c.credential.Key
		if c.credential.Scheme != "" {
			value = c.credential.Scheme + " " + value
		}
		req.Header.Set(c.credential.Header, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		category := classifyTransport(err)
		return c.newError(op, category, 0, transportMessage(category), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetLimit))
		category := classifyStatus(resp.StatusCode)
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if category == CategoryAuthentication {
			msg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, c.credentialMessage())
		}
		var cause error
		if s := strings.TrimSpace(string(snippet)); s != "" {
			cause = errors.New(s)
		}
		return c.newError(op, category, resp.StatusCode, msg, cause)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		category := CategoryBadData
		if ctx.Err() != nil {
			category = classifyTransport(ctx.Err())
		}
		return c.newError(op, category, resp.StatusCode, "decoding response", err)
	}
	return nil
}

func (c *Client) newError(op string, category Category, status int, msg string, err error) *Error {
	return &Error{
		Category:   category,
		Source:     c.name,
		Op:         op,
		StatusCode: status,
		Message:    msg,
		Err:        err,
	}
}

// credentialMessage distinguishes a missing credential from a rejected one.
func (c *Client) credentialMessage() string {
	env := c.credential.EnvVar
	if env == "" {
		return "upstream requires authentication"
	}
	if c.credential.Key == "" {
		return fmt.Sprintf("credential missing: set %s", env)
	}
	return fmt.Sprintf("credential rejected: check %s", env)
}

func transportMessage(category Category) string {
	switch category {
	case CategoryTimeout:
		return "request timed out"
	case CategoryCanceled:
		return "request canceled"
	case CategoryOutage:
		return "upstream unreachable"
	default:
		return "request failed"
	}
}

// DecodeResults decodes the result list held under key of a response payload.
// A value that is present but not a list is a CategoryBadData *Error.
func (c *Client) DecodeResults(op, key string, raw json.RawMessage) ([]Fields, error) {
	list, err := DecodeList(raw)
	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamFailure(c.name, string(CategoryBadData))
		}
		return nil, c.newError(op, CategoryBadData, 0, fmt.Sprintf("response field %q is not a list", key), err)
	}
	return list, nil
}

// Fail reports err as a diagnostic. Adapters call it where they swallow an
// upstream failure and return an empty result.
func (c *Client) Fail(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}
	d := Diagnostic{
		Severity: SeverityError,
		Source:   c.name,
		Op:       op,
		Category: CategoryOf(err),
		Message:  fmt.Sprintf("%s %s failed", c.name, op),
		Err:      err,
	}
	var e *Error
	if errors.As(err, &e) {
		d.Message = fmt.Sprintf("%s %s failed: %s", c.name, op, e.Message)
		d.Err = e.Err
	}
	switch d.Category {
	case CategoryNotFound, CategoryCanceled:
		d.Severity = SeverityWarning
	}
	c.reporter.Report(ctx, d)
}

// Returned records how many records an operation produced.
func (c *Client) Returned(n int) {
	if c.metrics != nil {
		c.metrics.RecordsReturned(c.name, n)
	}
}

// DefaultLimit is used by adapter operations called with a non-positive limit.
const DefaultLimit = 20

// Limit returns n, or DefaultLimit when n is not positive.
func Limit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return n
}
