package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Ahim13/restkit/logger"
	"github.com/Ahim13/restkit/security"
)

const (
	tracerName      = "github.com/Ahim13/restkit/rest"
	headerRequestID = "X-Request-ID"
)

// Client executes HTTP transactions. It owns no per-transaction state:
// concurrent calls are independent, each with its own request scope and
// certificate-validator lifecycle.
type Client struct {
	httpClient *http.Client
	config     Config
	log        *logger.Logger
	tracer     trace.Tracer
	stampID    bool

	mu            sync.Mutex
	tlsTransports map[*security.TLSConfig]*http.Transport
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithLogger attaches a structured logger. The client emits one debug event
// per completed transaction and one error event per failed one.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log.WithComponent("rest")
	}
}

// WithTracing wraps every transaction in an OpenTelemetry client span using
// the globally registered tracer provider.
func WithTracing() Option {
	return func(c *Client) {
		c.tracer = otel.Tracer(tracerName)
	}
}

// WithRequestID stamps an X-Request-ID header on every outbound request
// that does not already carry one.
func WithRequestID() Option {
	return func(c *Client) {
		c.stampID = true
	}
}

// New creates a new client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config:        cfg,
		tlsTransports: make(map[*security.TLSConfig]*http.Transport),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// Close releases pooled connections held by the client and by cached
// per-call validator transports.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tlsTransports {
		t.CloseIdleConnections()
	}
}

// Do executes one complete transaction: apply per-call options, send the
// request, classify the outcome, and materialize the response. The verb
// entry points all funnel through here.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if c.stampID {
		req = stampRequestID(req)
	}

	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.Start(ctx, "rest."+req.Method,
			trace.WithSpanKind(trace.SpanKindClient))
		span.SetAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL),
		)
		defer span.End()
	}

	resp, err := c.transact(ctx, req)

	if span != nil {
		if resp != nil {
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transaction failed")
		}
	}
	if c.log != nil {
		fields := logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
		if id := req.Headers[headerRequestID]; id != "" {
			fields[logger.FieldRequestID] = id
		}
		if err != nil {
			c.log.WithError(err).Error("transaction failed", fields)
		} else {
			fields[logger.FieldStatus] = resp.StatusCode
			c.log.Debug("transaction complete", fields)
		}
	}

	return resp, err
}

// transact runs the processing pipeline for a single request. Steps run in
// a fixed order regardless of verb: per-call timeout, header application,
// content-type normalization, validator installation, execution,
// classification, materialization, release.
func (c *Client) transact(ctx context.Context, req Request) (resp *Response, err error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		// A lazy response reads its stream after this function returns,
		// so the deadline context must stay alive until the body is
		// released. Ownership of cancel moves to the Response on that
		// path; every other path cancels here.
		defer func() {
			if resp != nil && resp.body != nil {
				resp.cancel = cancel
				return
			}
			cancel()
		}()
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	hc, release, err := c.clientFor(req)
	if err != nil {
		return nil, err
	}
	if release != nil {
		defer release()
	}

	httpResp, err := hc.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			return nil, newTimeoutError(err)
		}
		return nil, newConnectionError(err)
	}

	return materialize(httpResp, req)
}

// buildRequest constructs the *http.Request: URL resolution, query
// parameters, header application (client defaults first, per-call second,
// last write wins), default content type, auth, and the content-type
// normalization workaround.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.URL
	if c.config.BaseURL != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(url, "/")
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, req.Body)
	if err != nil {
		return nil, fmt.Errorf("rest: create request: %w", err)
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if req.Body != nil && req.ContentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	normalizeContentType(httpReq)

	return httpReq, nil
}

// normalizeContentType strips literal quote characters from the
// Content-Type of POST and PUT requests. Some encoders wrap boundary
// parameters in quotes that strict header parsers reject; removing them
// changes no semantics. No other header is touched.
func normalizeContentType(req *http.Request) {
	if req.Method != http.MethodPost && req.Method != http.MethodPut {
		return
	}
	if ct := req.Header.Get("Content-Type"); strings.Contains(ct, `"`) {
		req.Header.Set("Content-Type", strings.ReplaceAll(ct, `"`, ""))
	}
}

// clientFor returns the http.Client for this call. Requests without a
// per-call validator share the client's transport. Requests with one get a
// transport built from it: disposed with the call when DisposeTLS is set,
// cached for reuse by the same validator handle otherwise.
func (c *Client) clientFor(req Request) (*http.Client, func(), error) {
	if req.TLS == nil {
		return c.httpClient, nil, nil
	}

	if !req.DisposeTLS {
		c.mu.Lock()
		cached, ok := c.tlsTransports[req.TLS]
		c.mu.Unlock()
		if ok {
			return &http.Client{Transport: cached, Timeout: c.httpClient.Timeout}, nil, nil
		}
	}

	transport, err := c.buildTransport(req.TLS)
	if err != nil {
		return nil, nil, err
	}

	var release func()
	if req.DisposeTLS {
		release = transport.CloseIdleConnections
	} else {
		c.mu.Lock()
		if cached, ok := c.tlsTransports[req.TLS]; ok {
			// Lost a race with a concurrent first use of the same
			// handle. Adopt the stored transport; ours has carried no
			// connections yet.
			transport = cached
		} else {
			c.tlsTransports[req.TLS] = transport
		}
		c.mu.Unlock()
	}

	return &http.Client{Transport: transport, Timeout: c.httpClient.Timeout}, release, nil
}

// buildTransport clones the client's transport and applies a per-call
// certificate validator to the clone.
func (c *Client) buildTransport(tcfg *security.TLSConfig) (*http.Transport, error) {
	tlsCfg, err := tcfg.Build()
	if err != nil {
		return nil, err
	}

	var transport *http.Transport
	if base, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport = base.Clone()
	} else {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	return transport, nil
}

// materialize classifies the outcome and builds the Response. Error
// statuses surface as *TransactionError with the full diagnostic; success
// statuses produce a Response shaped by the materialization mode. Body
// resources are released on every path except lazy mode, where ownership
// moves to the Response.
func materialize(resp *http.Response, req Request) (*Response, error) {
	headers := flattenHeaders(resp.Header)

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, newProtocolError(resp.StatusCode, body, headers)
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		mode:       req.Materialize,
	}

	if req.Materialize == MaterializeLazy && req.Sink == nil {
		result.body = resp.Body
		return result, nil
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, newConnectionError(fmt.Errorf("read response body: %w", err))
	}

	if req.Sink != nil {
		if _, err := req.Sink.Write(body); err != nil {
			return nil, fmt.Errorf("rest: write body sink: %w", err)
		}
	}

	result.setEager(req.Materialize, body)
	return result, nil
}

// stampRequestID returns req with an X-Request-ID header added unless the
// caller already set one. The caller's header map is never mutated.
func stampRequestID(req Request) Request {
	if req.Headers[headerRequestID] != "" {
		return req
	}
	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers[headerRequestID] = uuid.NewString()
	req.Headers = headers
	return req
}

// flattenHeaders folds response headers into a name to value map. Repeated
// headers keep every value, joined with ", ".
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		result[k] = strings.Join(v, ", ")
	}
	return result
}

func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
