// Package neterr defines the closed set of network failure kinds and the
// mapping from transport, HTTP, and decoding outcomes onto that set. Every
// reachable failure path in the fetch pipeline terminates in exactly one Kind.
package neterr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// Kind identifies one failure category.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindNoInternet
	KindTimedOut
	KindCancelled
	KindBadResponse
	KindHTTP
	KindDecodingFailed
	KindTransport
)

// String returns the machine-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindNoInternet:
		return "no_internet"
	case KindTimedOut:
		return "timed_out"
	case KindCancelled:
		return "cancelled"
	case KindBadResponse:
		return "bad_response"
	case KindHTTP:
		return "http"
	case KindDecodingFailed:
		return "decoding_failed"
	case KindTransport:
		return "transport"
	case KindUnknown:
		return "unknown"
	}
	return "unknown"
}

// Error is a classified network failure. Status is set only for KindHTTP.
type Error struct {
	Kind   Kind
	Status int
	cause  error
}

// New wraps cause under the given kind.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

// HTTPStatus builds the error for an HTTP status outside [200,299].
func HTTPStatus(status int) *Error {
	return &Error{Kind: KindHTTP, Status: status}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTP:
		return fmt.Sprintf("neterr: http status %d", e.Status)
	case e.cause != nil:
		return fmt.Sprintf("neterr: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("neterr: %s", e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// connectivityErrnos are socket-level failures that indicate the host has no
// usable route to the service rather than a fault in the exchange itself.
var connectivityErrnos = []error{
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.ENETUNREACH,
	syscall.ENETDOWN,
	syscall.EHOSTUNREACH,
	syscall.EHOSTDOWN,
	syscall.EPIPE,
}

// Classify maps a transport-level failure onto the taxonomy. Precedence:
// connectivity loss, then timeout, then cancellation, then malformed
// response, then generic transport; anything unrecognizable is Unknown.
// A nil err classifies as Unknown so the mapping stays total.
func Classify(err error) *Error {
	if err == nil {
		return New(KindUnknown, nil)
	}

	var already *Error
	if errors.As(err, &already) {
		return already
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return New(KindNoInternet, err)
	}
	for _, errno := range connectivityErrnos {
		if errors.Is(err, errno) {
			return New(KindNoInternet, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return New(KindTimedOut, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return New(KindTimedOut, err)
	}

	if errors.Is(err, context.Canceled) {
		return New(KindCancelled, err)
	}

	if isMalformedResponse(err) {
		return New(KindBadResponse, err)
	}

	var urlErr *url.Error
	var opErr *net.OpError
	if errors.As(err, &urlErr) || errors.As(err, &opErr) {
		return New(KindTransport, err)
	}

	return New(KindUnknown, err)
}

// isMalformedResponse detects net/http's wire-parse failures, which carry no
// dedicated sentinel type.
func isMalformedResponse(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "malformed HTTP") ||
		strings.Contains(msg, "malformed MIME") ||
		strings.Contains(msg, "transport connection broken")
}
