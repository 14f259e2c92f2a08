package rest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TransactionError is the single failure type of the transaction layer. It
// covers both connection-level faults (no HTTP response obtained; StatusCode
// is 0) and protocol-level errors (4xx/5xx status received).
type TransactionError struct {
	// StatusCode is the HTTP status code, or 0 when no response was
	// received.
	StatusCode int
	// Body is the response body received with the error status, if any.
	Body []byte
	// Headers are the response headers received with the error status.
	Headers map[string]string
	// Timeout marks a connection fault caused by timeout expiry.
	Timeout bool
	// Err is the underlying transport error for connection faults.
	Err error
}

// Error renders the full diagnostic: prefix, status code, body text, and a
// newline-joined dump of every response header.
func (e *TransactionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rest: transaction failed: HTTP %d", e.StatusCode)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if len(e.Body) > 0 {
		b.WriteString(": ")
		b.Write(e.Body)
	}
	for _, name := range sortedHeaderNames(e.Headers) {
		b.WriteString("\n")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(e.Headers[name])
	}
	return b.String()
}

// Unwrap returns the underlying transport error, if any.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// newConnectionError creates a TransactionError for a fault that produced
// no HTTP response.
func newConnectionError(err error) *TransactionError {
	return &TransactionError{Err: err}
}

// newTimeoutError creates a TransactionError for a timeout expiry.
func newTimeoutError(err error) *TransactionError {
	return &TransactionError{Timeout: true, Err: err}
}

// newProtocolError creates a TransactionError for a 4xx/5xx response.
func newProtocolError(statusCode int, body []byte, headers map[string]string) *TransactionError {
	return &TransactionError{
		StatusCode: statusCode,
		Body:       body,
		Headers:    headers,
	}
}

// IsConnectionError checks if err is a transaction failure with no HTTP
// response (DNS, TCP, TLS, timeout).
func IsConnectionError(err error) bool {
	var e *TransactionError
	return errors.As(err, &e) && e.StatusCode == 0
}

// IsProtocolError checks if err is a transaction failure carrying an HTTP
// error status.
func IsProtocolError(err error) bool {
	var e *TransactionError
	return errors.As(err, &e) && e.StatusCode >= 400
}

// IsTimeout checks if err is a transaction failure caused by timeout
// expiry.
func IsTimeout(err error) bool {
	var e *TransactionError
	return errors.As(err, &e) && e.Timeout
}

func sortedHeaderNames(headers map[string]string) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
