package rest

import (
	"io"
	"time"

	"github.com/Ahim13/restkit/security"
)

// MaterializeMode selects how (and when) the response body is produced.
type MaterializeMode int

const (
	// MaterializeLazy defers body reads until Text or Bytes is called on
	// the Response. The caller must Close the Response. This is the zero
	// value.
	MaterializeLazy MaterializeMode = iota
	// MaterializeText reads the body eagerly and exposes it as a string.
	MaterializeText
	// MaterializeBinary reads the body eagerly and exposes it as bytes.
	MaterializeBinary
	// MaterializeBoth reads the body eagerly and exposes both forms.
	MaterializeBoth
)

// String returns the mode name.
func (m MaterializeMode) String() string {
	switch m {
	case MaterializeLazy:
		return "lazy"
	case MaterializeText:
		return "text"
	case MaterializeBinary:
		return "binary"
	case MaterializeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Request describes one outbound HTTP transaction. The verb entry points
// construct it; Do accepts it directly for anything they don't cover.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, ...).
	Method string
	// URL is the target. Relative URLs are resolved against the client's
	// BaseURL.
	URL string
	// Body is the already-encoded request body, nil for body-less verbs.
	Body io.Reader
	// ContentType is the body's default content type. A Content-Type set
	// via Headers wins.
	ContentType string
	// Headers are per-call headers, merged over the client defaults.
	// Last write wins per name.
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Auth overrides the client-level auth for this call.
	Auth *AuthConfig
	// Timeout bounds this call when > 0; otherwise the client default
	// applies untouched.
	Timeout time.Duration
	// TLS is a per-call certificate validator. When set, the exchange runs
	// over a transport built from it instead of the client's.
	TLS *security.TLSConfig
	// DisposeTLS ties the per-call transport's lifetime to this call: its
	// connections are torn down when the call returns. Leave false to
	// reuse the same validator handle across calls.
	DisposeTLS bool
	// Materialize selects the body materialization mode.
	Materialize MaterializeMode
	// Sink, when set, additionally receives a copy of the response body.
	// Setting a sink forces an eager body read.
	Sink io.Writer
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithHeaders adds a set of headers to the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			r.Headers[k] = v
		}
	}
}

// WithQueryParam adds a query parameter to the request.
func WithQueryParam(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithRequestAuth overrides authentication for the request.
func WithRequestAuth(auth *AuthConfig) RequestOption {
	return func(r *Request) {
		r.Auth = auth
	}
}

// WithTimeout bounds the request. Values <= 0 leave the client default.
func WithTimeout(d time.Duration) RequestOption {
	return func(r *Request) {
		r.Timeout = d
	}
}

// WithTLS supplies a per-call certificate validator. When dispose is true
// the validator's transport is torn down when the call's resources are
// released; when false it is cached so the same handle can serve later
// calls.
func WithTLS(cfg *security.TLSConfig, dispose bool) RequestOption {
	return func(r *Request) {
		r.TLS = cfg
		r.DisposeTLS = dispose
	}
}

// WithMaterialize selects the body materialization mode.
func WithMaterialize(mode MaterializeMode) RequestOption {
	return func(r *Request) {
		r.Materialize = mode
	}
}

// WithSink copies the response body into w in addition to the selected
// materialization.
func WithSink(w io.Writer) RequestOption {
	return func(r *Request) {
		r.Sink = w
	}
}

// newRequest builds a Request for a verb entry point and applies options.
func newRequest(method, url string, body io.Reader, contentType string, opts []RequestOption) Request {
	req := Request{
		Method:      method,
		URL:         url,
		Body:        body,
		ContentType: contentType,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}
