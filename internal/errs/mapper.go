package errs

import (
	"errors"
	"net/http"
	"time"

	"github.com/vyrodovalexey/avapigw/internal/auth"
	"github.com/vyrodovalexey/avapigw/internal/util"
)

// Envelope is the normalized error body returned to clients.
type Envelope struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp string         `json:"timestamp"`
}

// Mapper turns any stage error into an Envelope plus the status code
// to write. It is idempotent: mapping an already-mapped GatewayError
// just refreshes the request id and timestamp.
type Mapper struct {
	// Production elides causes from Details to avoid leaking internal
	// error text (stack-trace-equivalent information) to clients.
	Production bool
}

// NewMapper creates a Mapper for the given environment mode.
func NewMapper(production bool) *Mapper {
	return &Mapper{Production: production}
}

// Map converts err into an Envelope and the status to write, pulling
// the request id from ctx's RequestContext convention.
func (m *Mapper) Map(requestID string, err error) (Envelope, int) {
	ge := m.classify(err)

	env := Envelope{
		Error:     string(ge.Code),
		Message:   ge.Message,
		RequestID: requestID,
		Timestamp: nowFunc().UTC().Format(time.RFC3339),
	}

	if ge.Details != nil {
		env.Details = ge.Details
	}

	if !m.Production && ge.Cause != nil {
		if env.Details == nil {
			env.Details = make(map[string]any, 1)
		}
		env.Details["cause"] = ge.Cause.Error()
	}

	status := ge.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return env, status
}

// classify normalizes err to a *GatewayError, mapping unrecognized
// errors to INTERNAL_SERVER_ERROR.
func (m *Mapper) classify(err error) *GatewayError {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge
	}

	if errors.Is(err, util.ErrNotFound) {
		return New(CodeRouteNotFound, err.Error())
	}
	if errors.Is(err, util.ErrTimeout) {
		return New(CodeGatewayTimeout, err.Error())
	}
	if errors.Is(err, util.ErrCircuitOpen) {
		return New(CodeCircuitBreakerOpen, err.Error())
	}
	if errors.Is(err, util.ErrRateLimited) {
		return New(CodeRateLimitExceeded, err.Error())
	}
	if errors.Is(err, util.ErrBackendUnavail) {
		return New(CodeServiceUnavailable, err.Error())
	}
	if errors.Is(err, util.ErrInvalidInput) {
		return New(CodeValidationError, err.Error())
	}

	if errors.Is(err, auth.ErrMissingToken) {
		return MissingToken()
	}
	if errors.Is(err, auth.ErrAuthenticationRequired) {
		return AuthenticationRequired()
	}
	if errors.Is(err, auth.ErrTokenExpired) {
		return TokenExpired()
	}
	if errors.Is(err, auth.ErrTokenNotYetValid) {
		return TokenNotActive()
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrMissingClaim) {
		return InvalidToken(err)
	}
	if errors.Is(err, auth.ErrInsufficientPermissions) {
		return InsufficientPermissions()
	}

	return Internal(err)
}

// nowFunc is a seam for deterministic tests, grounded on the same
// pattern the circuit breaker uses to inject time.
var nowFunc = time.Now
