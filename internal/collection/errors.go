package collection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection reset, unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates an HTTP-level error (non-2xx status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a parsing error (malformed JSON, unexpected shape)
	ErrTypeParse
	// ErrTypeValidation indicates a request that was rejected before it was sent
	ErrTypeValidation
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the endpoint refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeCanceled indicates the caller's context was canceled
	ErrTypeCanceled
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is the failure value for every collection operation.
// Message is the text shown to the user.
type Error struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	Endpoint       string              // Host of the collection endpoint (for context)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more specific error type
func ClassifyNetworkError(err error, endpoint string) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return &Error{
			Type:     ErrTypeCanceled,
			Message:  "Request canceled",
			Err:      err,
			Endpoint: endpoint,
		}
	}

	// Check for timeout errors (includes context.DeadlineExceeded)
	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Endpoint:       endpoint,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			Endpoint:       endpoint,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &Error{
				Type:           ErrTypeConnectionRefused,
				Message:        "Endpoint refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Endpoint:       endpoint,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &Error{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Endpoint:       endpoint,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &Error{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Endpoint:       endpoint,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err, endpoint)
	}

	return &Error{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Endpoint:       endpoint,
	}
}

// NewNetworkError creates a network-level error with automatic classification.
// Timeouts, refusals and cancellations keep their classified message.
func NewNetworkError(message string, err error, endpoint string) *Error {
	classified := ClassifyNetworkError(err, endpoint)
	if classified == nil {
		return &Error{Type: ErrTypeNetwork, Message: message, Endpoint: endpoint}
	}
	if classified.Type == ErrTypeNetwork && classified.NetworkSubtype == NetworkErrorGeneral {
		classified.Message = message
	}
	return classified
}

// NewHTTPError creates an HTTP-level error for a non-2xx response
func NewHTTPError(statusCode int, endpoint string) *Error {
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("Request failed with status code %d", statusCode),
		StatusCode: statusCode,
		Endpoint:   endpoint,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	if e, ok := asError(err); ok {
		return e.Type == ErrTypeNetwork ||
			e.Type == ErrTypeTimeout ||
			e.Type == ErrTypeConnectionRefused ||
			e.Type == ErrTypeDNS
	}
	return false
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	if e, ok := asError(err); ok {
		return e.Type == ErrTypeHTTP
	}
	return false
}

// IsNotFound checks if an error is an HTTP 404
func IsNotFound(err error) bool {
	if e, ok := asError(err); ok {
		return e.Type == ErrTypeHTTP && e.StatusCode == 404
	}
	return false
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	if e, ok := asError(err); ok {
		return e.Type == ErrTypeParse
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if e, ok := asError(err); ok {
		return e.Type == ErrTypeValidation
	}
	return false
}

// IsCanceled checks if an error came from a canceled context
func IsCanceled(err error) bool {
	if e, ok := asError(err); ok {
		return e.Type == ErrTypeCanceled
	}
	return errors.Is(err, context.Canceled)
}

// MessageOf returns the user-facing message text of any error.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	e, ok := asError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch e.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The endpoint did not respond in time.",
			"Troubleshooting:",
			"  • Check your internet connection",
			"  • Try increasing the timeout with --timeout",
			"  • Hosted mock APIs can be slow to wake up; try again",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The endpoint refused the connection.",
			"Troubleshooting:",
			"  • If you use a local server, start it with 'todolist-server serve'",
			"  • Verify the port in the endpoint URL",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the endpoint hostname.",
			"Troubleshooting:",
			"  • Check the endpoint URL for typos",
			"  • Check your network DNS settings",
			"  • Use 'todolist scan' to find a local server by IP",
		}, "\n")

	case ErrTypeNetwork:
		hint := []string{"Network communication failed."}

		switch e.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			hint = append(hint, "The endpoint host is not reachable.",
				"Troubleshooting:",
				"  • Verify the endpoint URL is correct",
				"  • Try pinging the host: ping "+e.Endpoint)

		case NetworkErrorNetworkUnreachable:
			hint = append(hint, "Your computer has no route to the endpoint's network.",
				"Troubleshooting:",
				"  • Check your network adapter settings",
				"  • Verify you are online")

		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the endpoint URL")
		}

		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		if e.StatusCode == 404 {
			return strings.Join([]string{
				"The endpoint returned 404 Not Found.",
				"The record may already be deleted, or the collection URL is wrong.",
				"Troubleshooting:",
				"  • Run 'todolist ls' to see current records",
				"  • Check the endpoint with 'todolist config show'",
			}, "\n")
		}
		if e.StatusCode >= 500 {
			return strings.Join([]string{
				fmt.Sprintf("The endpoint returned a server error (HTTP %d).", e.StatusCode),
				"This is a problem on the server side; try again later.",
			}, "\n")
		}
		return fmt.Sprintf("The endpoint returned HTTP error %d. Check the request parameters.", e.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"Failed to parse the endpoint's response.",
			"The URL may not point at a collection of {id, title} records.",
		}, "\n")

	case ErrTypeValidation:
		return "The request was invalid. Check the error message for details."

	case ErrTypeCanceled:
		return "The request was canceled."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	e, ok := asError(err)
	if !ok {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeTimeout:
		return "Endpoint not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Endpoint refused connection - is the server running?"
	case ErrTypeDNS:
		return "Cannot resolve endpoint hostname"
	case ErrTypeNetwork:
		switch e.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Endpoint unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check connection"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Endpoint error (HTTP %d)", e.StatusCode)
	case ErrTypeParse:
		return "Failed to parse endpoint response"
	default:
		return e.Message
	}
}
