package rest

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrBodyReleased is returned by Text and Bytes when a lazy response body is
// requested after Close released it without a prior read.
var ErrBodyReleased = errors.New("rest: response body already released")

// ErrNotMaterialized is returned by Text or Bytes when the requested form
// was not selected by the call's materialization mode.
var ErrNotMaterialized = errors.New("rest: body not materialized in this mode")

// Response is the result of a completed transaction. Instances are built by
// the processing pipeline and never mutated afterwards, except for the
// deferred read a lazy response performs on first access.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers. Repeated header values are
	// joined with ", " under their shared name.
	Headers map[string]string

	mode MaterializeMode

	mu       sync.Mutex
	text     string
	textSet  bool
	data     []byte
	dataSet  bool
	body     io.ReadCloser // lazy mode: retained live stream
	cancel   func()        // lazy mode: per-call deadline tied to the stream
	released bool
}

// IsSuccess reports whether the transaction completed with a non-error
// status. Redirects are resolved by the transport before this layer sees
// the response, so any remaining 3xx counts as success.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// Text returns the response body as a string. In lazy mode the first call
// to Text or Bytes performs the read; in eager modes it returns the
// pre-fetched value, or ErrNotMaterialized if the mode excluded text.
func (r *Response) Text() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.textSet {
		return r.text, nil
	}
	if r.mode != MaterializeLazy {
		return "", ErrNotMaterialized
	}
	if err := r.readLocked(); err != nil {
		return "", err
	}
	return r.text, nil
}

// Bytes returns the raw response body. Semantics mirror Text.
func (r *Response) Bytes() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dataSet {
		return r.data, nil
	}
	if r.mode != MaterializeLazy {
		return nil, ErrNotMaterialized
	}
	if err := r.readLocked(); err != nil {
		return nil, err
	}
	return r.data, nil
}

// Close releases the retained body of a lazy response. It is a no-op for
// eager responses, whose resources were released before the call returned.
// Lazy bodies read before Close stay available afterwards.
func (r *Response) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelLocked()
	if r.released || r.body == nil {
		r.released = true
		return nil
	}
	r.released = true
	err := r.body.Close()
	r.body = nil
	return err
}

// readLocked drains the retained body and memoizes both forms. One read
// serves both Text and Bytes, so the two lazy producers observe identical
// content. Callers must hold r.mu.
func (r *Response) readLocked() error {
	if r.released {
		return ErrBodyReleased
	}
	if r.body == nil {
		return ErrBodyReleased
	}

	data, err := io.ReadAll(r.body)
	closeErr := r.body.Close()
	r.body = nil
	r.released = true
	r.cancelLocked()
	if err != nil {
		return fmt.Errorf("rest: read response body: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("rest: close response body: %w", closeErr)
	}

	r.data = data
	r.dataSet = true
	r.text = string(data)
	r.textSet = true
	return nil
}

// cancelLocked releases the per-call deadline held open for a lazy body.
// Callers must hold r.mu.
func (r *Response) cancelLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// setEager populates the response for an eager materialization mode.
func (r *Response) setEager(mode MaterializeMode, body []byte) {
	switch mode {
	case MaterializeText:
		r.text = string(body)
		r.textSet = true
	case MaterializeBinary:
		r.data = body
		r.dataSet = true
	case MaterializeBoth:
		r.text = string(body)
		r.textSet = true
		r.data = body
		r.dataSet = true
	case MaterializeLazy:
		// A sink forced the drain; serve lazy reads from the buffer.
		r.data = body
		r.dataSet = true
		r.text = string(body)
		r.textSet = true
	}
}
