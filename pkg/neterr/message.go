package neterr

import "net/http"

// User-facing messages. The switches below enumerate every Kind explicitly;
// a new Kind without a message here surfaces as the Unknown text instead of
// leaking a raw error string to the UI.

const (
	msgInvalidURL     = "The request could not be built. Please try again."
	msgNoInternet     = "You appear to be offline. Check your connection and try again."
	msgTimedOut       = "The request timed out. Please try again."
	msgCancelled      = "The request was cancelled."
	msgBadResponse    = "The server sent an unreadable response. Please try again later."
	msgDecodingFailed = "The news feed could not be read. Please try again later."
	msgTransport      = "A network error occurred. Check your connection and try again."
	msgUnknown        = "Something went wrong. Please try again."

	msgHTTPUnauthorized = "You are not authorized to access the news feed."
	msgHTTPNotFound     = "The news feed could not be found."
	msgHTTPRateLimited  = "Too many requests. Please wait a moment and try again."
	msgHTTPServerFault  = "The news service is having trouble. Please try again later."
	msgHTTPGeneric      = "The server returned an error. Please try again later."
)

// Message returns the pre-localized text shown to the user for this failure.
func (e *Error) Message() string {
	if e == nil {
		return msgUnknown
	}
	switch e.Kind {
	case KindInvalidURL:
		return msgInvalidURL
	case KindNoInternet:
		return msgNoInternet
	case KindTimedOut:
		return msgTimedOut
	case KindCancelled:
		return msgCancelled
	case KindBadResponse:
		return msgBadResponse
	case KindHTTP:
		return httpMessage(e.Status)
	case KindDecodingFailed:
		return msgDecodingFailed
	case KindTransport:
		return msgTransport
	case KindUnknown:
		return msgUnknown
	}
	return msgUnknown
}

// httpMessage branches by status class per the UX copy table.
func httpMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return msgHTTPUnauthorized
	case status == http.StatusNotFound:
		return msgHTTPNotFound
	case status == http.StatusTooManyRequests:
		return msgHTTPRateLimited
	case status >= 500 && status <= 599:
		return msgHTTPServerFault
	}
	return msgHTTPGeneric
}
