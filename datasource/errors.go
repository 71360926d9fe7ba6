package datasource

import (
	"context"
	"errors"
	"fmt"
	"net"
	"unicode/utf8"
)

// ErrorKind classifies a failed call to an upstream provider
type ErrorKind int

const (
	// KindHTTPFailure is any non-2xx status other than 401/403, or a transport failure
	KindHTTPFailure ErrorKind = iota
	// KindUnauthorized means the API key was rejected or exhausted. Never retry.
	KindUnauthorized
	// KindParseFailure means a 2xx body was malformed or had an unexpected shape
	KindParseFailure
	// KindTimeout means the per-call deadline expired
	KindTimeout
	// KindCanceled means the caller abandoned the request
	KindCanceled
	// KindInvalidRequest means the call was rejected before reaching the network
	KindInvalidRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTPFailure:
		return "http_failure"
	case KindUnauthorized:
		return "unauthorized"
	case KindParseFailure:
		return "parse_failure"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MaxRawBody bounds how much of an upstream body is kept for diagnostics
const MaxRawBody = 1024

// UpstreamError is the typed outcome of a failed provider call
type UpstreamError struct {
	Kind       ErrorKind
	API        string // provider API name, e.g. "City Search"
	StatusCode int    // HTTP status, 0 when no response was received
	Reason     string // HTTP reason phrase or short description
	RawBody    string // bounded response body, set for parse failures
	Err        error  // underlying cause, if any
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.API, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d", e.StatusCode)
		if e.Reason != "" {
			msg += " " + e.Reason
		}
		msg += ")"
	} else if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AsUpstreamError extracts an *UpstreamError from err's chain
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// KindOf returns the kind of err, treating foreign errors as HTTP failures
func KindOf(err error) ErrorKind {
	if ue, ok := AsUpstreamError(err); ok {
		return ue.Kind
	}
	return FromError("", err).Kind
}

// FromError converts an arbitrary error into an *UpstreamError.
// Context errors and network timeouts map to KindCanceled and KindTimeout.
func FromError(api string, err error) *UpstreamError {
	if ue, ok := AsUpstreamError(err); ok {
		return ue
	}

	kind := KindHTTPFailure
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		kind = KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	}

	return &UpstreamError{Kind: kind, API: api, Err: err}
}

// Truncate bounds a raw body for logging and error values
func Truncate(body []byte) string {
	if len(body) <= MaxRawBody {
		return string(body)
	}
	cut := MaxRawBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "...(truncated)"
}
