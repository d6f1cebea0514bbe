// Package errs implements the gateway's error taxonomy and the mapper
// that turns any stage error into the normalized client envelope.
//
// Conventions follow the teacher's internal/util error split: a sentinel
// per well-known condition for errors.Is() checks, plus one structured
// type (GatewayError) carrying the fields the envelope needs.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is one of the taxonomy values enumerated in the gateway's error
// handling design.
type Code string

const (
	CodeRouteNotFound           Code = "ROUTE_NOT_FOUND"
	CodeMissingToken            Code = "MISSING_TOKEN"
	CodeInvalidToken            Code = "INVALID_TOKEN"
	CodeTokenExpired            Code = "TOKEN_EXPIRED"
	CodeTokenNotActive          Code = "TOKEN_NOT_ACTIVE"
	CodeAuthFailed              Code = "AUTH_FAILED"
	CodeAuthenticationRequired  Code = "AUTHENTICATION_REQUIRED"
	CodeInsufficientPermissions Code = "INSUFFICIENT_PERMISSIONS"
	CodeRateLimitExceeded       Code = "RATE_LIMIT_EXCEEDED"
	CodeCircuitBreakerOpen      Code = "CIRCUIT_BREAKER_OPEN"
	CodeServiceUnavailable      Code = "SERVICE_UNAVAILABLE"
	CodeGatewayTimeout          Code = "GATEWAY_TIMEOUT"
	CodeUpstreamError           Code = "UPSTREAM_ERROR"
	CodeBadGateway              Code = "BAD_GATEWAY"
	CodeValidationError         Code = "VALIDATION_ERROR"
	CodeURITooLong              Code = "URI_TOO_LONG"
	CodePayloadTooLarge         Code = "PAYLOAD_TOO_LARGE"
	CodeInternal                Code = "INTERNAL_SERVER_ERROR"
)

// defaultStatus is the HTTP status associated with a code when the
// call site doesn't override it (UPSTREAM_ERROR can forward any
// upstream 4xx status, so callers building that one pass an explicit
// status instead of relying on this table).
var defaultStatus = map[Code]int{
	CodeRouteNotFound:           http.StatusNotFound,
	CodeMissingToken:            http.StatusUnauthorized,
	CodeInvalidToken:            http.StatusUnauthorized,
	CodeTokenExpired:            http.StatusUnauthorized,
	CodeTokenNotActive:          http.StatusUnauthorized,
	CodeAuthFailed:              http.StatusUnauthorized,
	CodeAuthenticationRequired:  http.StatusUnauthorized,
	CodeInsufficientPermissions: http.StatusForbidden,
	CodeRateLimitExceeded:       http.StatusTooManyRequests,
	CodeCircuitBreakerOpen:      http.StatusServiceUnavailable,
	CodeServiceUnavailable:      http.StatusServiceUnavailable,
	CodeGatewayTimeout:          http.StatusGatewayTimeout,
	CodeUpstreamError:           http.StatusBadGateway,
	CodeBadGateway:              http.StatusBadGateway,
	CodeValidationError:         http.StatusBadRequest,
	CodeURITooLong:              http.StatusRequestURITooLong,
	CodePayloadTooLarge:         http.StatusRequestEntityTooLarge,
	CodeInternal:                http.StatusInternalServerError,
}

// GatewayError is the structured error type every pipeline stage
// returns. It already carries everything the mapper needs to produce
// an envelope without re-classifying the failure.
type GatewayError struct {
	Code    Code
	Status  int
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a GatewayError with the same code, or
// the generic sentinel for that code family.
func (e *GatewayError) Is(target error) bool {
	var other *GatewayError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// New builds a GatewayError with the code's default status.
func New(code Code, message string) *GatewayError {
	return &GatewayError{Code: code, Status: defaultStatus[code], Message: message}
}

// Newf builds a GatewayError with a formatted message.
func Newf(code Code, format string, args ...any) *GatewayError {
	return New(code, fmt.Sprintf(format, args...))
}

// WithStatus overrides the HTTP status (used for UPSTREAM_ERROR, which
// forwards the upstream's own 4xx status instead of a fixed one).
func (e *GatewayError) WithStatus(status int) *GatewayError {
	e.Status = status
	return e
}

// WithCause attaches an underlying error.
func (e *GatewayError) WithCause(cause error) *GatewayError {
	e.Cause = cause
	return e
}

// WithDetails attaches structured detail fields surfaced in the
// envelope's "details" object.
func (e *GatewayError) WithDetails(details map[string]any) *GatewayError {
	e.Details = details
	return e
}

// RouteNotFound, MissingToken, ... are constructors for the taxonomy's
// fixed set of conditions; each fills in the code's default status.
func RouteNotFound(method, path string) *GatewayError {
	return Newf(CodeRouteNotFound, "no route found for %s %s", method, path)
}

func MissingToken() *GatewayError {
	return New(CodeMissingToken, "authentication required: no credential supplied")
}

func InvalidToken(cause error) *GatewayError {
	return New(CodeInvalidToken, "token signature or format invalid").WithCause(cause)
}

func TokenExpired() *GatewayError {
	return New(CodeTokenExpired, "token has expired")
}

func TokenNotActive() *GatewayError {
	return New(CodeTokenNotActive, "token is not yet active")
}

func AuthFailed(cause error) *GatewayError {
	return New(CodeAuthFailed, "authentication failed").WithCause(cause)
}

func AuthenticationRequired() *GatewayError {
	return New(CodeAuthenticationRequired, "authentication required for this operation")
}

func InsufficientPermissions() *GatewayError {
	return New(CodeInsufficientPermissions, "caller lacks the required role or permission")
}

func RateLimitExceeded(tier string, resetTime int64) *GatewayError {
	return New(CodeRateLimitExceeded, fmt.Sprintf("rate limit exceeded for tier %s", tier)).
		WithDetails(map[string]any{"tier": tier, "resetTime": resetTime})
}

func CircuitBreakerOpen(serviceKey string) *GatewayError {
	return New(CodeCircuitBreakerOpen, fmt.Sprintf("circuit breaker open for %s", serviceKey)).
		WithDetails(map[string]any{"service": serviceKey})
}

func ServiceUnavailable(serviceKey string, cause error) *GatewayError {
	return New(CodeServiceUnavailable, fmt.Sprintf("service %s unavailable", serviceKey)).WithCause(cause)
}

func GatewayTimeout(serviceKey string, cause error) *GatewayError {
	return New(CodeGatewayTimeout, fmt.Sprintf("timed out waiting for %s", serviceKey)).WithCause(cause)
}

func UpstreamError(status int, serviceKey string) *GatewayError {
	mapped := status
	if status >= 500 {
		mapped = http.StatusBadGateway
	}
	return New(CodeUpstreamError, fmt.Sprintf("upstream %s returned status %d", serviceKey, status)).
		WithStatus(mapped).
		WithDetails(map[string]any{"upstreamStatus": status})
}

func BadGateway(cause error) *GatewayError {
	return New(CodeBadGateway, "unclassified upstream fault").WithCause(cause)
}

func Validation(message string) *GatewayError {
	return New(CodeValidationError, message)
}

// URITooLong reports a request URL exceeding the gateway's admission limit.
func URITooLong(message string) *GatewayError {
	return New(CodeURITooLong, message)
}

// PayloadTooLarge reports a request body exceeding the configured size limit.
func PayloadTooLarge(message string) *GatewayError {
	return New(CodePayloadTooLarge, message)
}

func Internal(cause error) *GatewayError {
	return New(CodeInternal, "internal server error").WithCause(cause)
}
