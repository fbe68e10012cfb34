package httpkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError interface for HTTP-aware errors with detailed causes
type HTTPError interface {
	HTTPCode() int
	Cause() error
	error
}

// Header constants
const (
	contentTypeHeader  = "Content-Type"
	contentTypeOptions = "X-Content-Type-Options"
)

var (
	jsonContentType           = []string{"application/json; charset=utf-8"}
	nosniffContentTypeOptions = []string{"nosniff"}
)

func addHeaderIfNotSet(w http.ResponseWriter, key string, value []string) {
	header := w.Header()
	if val := header[key]; len(val) == 0 {
		header[key] = value
	}
}

// Context helpers for request-scoped error tracking
type ctxKeyError struct{}

type errorHolder struct {
	err error
}

// WithErrorTracking creates context with error tracking capability, or returns existing context if already present
func WithErrorTracking(ctx context.Context) context.Context {
	if _, ok := ctx.Value(ctxKeyError{}).(*errorHolder); ok {
		return ctx // Already has error tracking
	}
	holder := &errorHolder{}
	return context.WithValue(ctx, ctxKeyError{}, holder)
}

// SetError sets error in the context
func SetError(ctx context.Context, err error) {
	if holder, ok := ctx.Value(ctxKeyError{}).(*errorHolder); ok {
		holder.err = err
	}
}

// Error gets error from context
func Error(ctx context.Context) error {
	if holder, ok := ctx.Value(ctxKeyError{}).(*errorHolder); ok {
		return holder.err
	}
	return nil
}

// HTTP handler utilities
type HandlerFunc func(http.ResponseWriter, *http.Request) http.HandlerFunc

func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := WithErrorTracking(r.Context())
	r = r.WithContext(ctx)

	if handler := h(w, r); handler != nil {
		handler(w, r)
	}
}

// ErrEncodeFailed marks a response body that could not be rendered as JSON
var ErrEncodeFailed = errors.New("encoding response")

// encodeError reports a body that failed to encode, without leaking the value
type encodeError struct {
	cause error
}

func (e *encodeError) Error() string { return http.StatusText(http.StatusInternalServerError) }
func (e *encodeError) HTTPCode() int { return http.StatusInternalServerError }
func (e *encodeError) Cause() error  { return e.cause }
func (e *encodeError) Unwrap() error { return e.cause }

func (e *encodeError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"code":    e.HTTPCode(),
		"message": e.Error(),
	})
}

// JSON creates a handler that returns JSON response.
// The body is rendered before the status is written, so a value that cannot be
// encoded (NaN, Inf, channels) produces a 500 instead of an empty 200.
func JSON(data any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := encode(data)
		if err != nil {
			JsonError(&encodeError{cause: fmt.Errorf("%w: %w", ErrEncodeFailed, err)})(w, r)
			return
		}
		write(w, http.StatusOK, body)
	}
}

// JsonError creates a handler that sets an error in context and writes the error response
func JsonError(err HTTPError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Set error in context for middleware (if available)
		SetError(r.Context(), err)

		body, encErr := encode(err)
		if encErr != nil {
			body = []byte(`{"code":500,"message":"Internal Server Error"}` + "\n")
			write(w, http.StatusInternalServerError, body)
			return
		}
		write(w, err.HTTPCode(), body)
	}
}

func encode(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func write(w http.ResponseWriter, status int, body []byte) {
	addHeaderIfNotSet(w, contentTypeHeader, jsonContentType)
	addHeaderIfNotSet(w, contentTypeOptions, nosniffContentTypeOptions)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
