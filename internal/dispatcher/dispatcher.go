// Package dispatcher builds and issues the upstream HTTP call for a
// matched route: request construction, circuit-breaker gating,
// retry/backoff, and response shaping.
package dispatcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/auth"
	"github.com/vyrodovalexey/avapigw/internal/circuitbreaker"
	"github.com/vyrodovalexey/avapigw/internal/errs"
	"github.com/vyrodovalexey/avapigw/internal/router"
)

// gatewayServiceName is the fixed X-Gateway-Service identifier the
// dispatcher stamps on every successful response.
const gatewayServiceName = "avapigw"

// hopHeaders must never be forwarded across a proxy hop.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Result is the shaped upstream response ready to be written back to
// the client.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Dispatcher issues the upstream call for a matched route.
type Dispatcher struct {
	client    *http.Client
	breakers  *circuitbreaker.Registry
	logger    *zap.Logger
	defaultTO time.Duration

	mu   sync.Mutex
	rand *rand.Rand
}

// New creates a Dispatcher. defaultTimeout applies when a route does
// not configure its own upstream timeout.
func New(breakers *circuitbreaker.Registry, logger *zap.Logger, defaultTimeout time.Duration) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultTimeout <= 0 {
		defaultTimeout = 5 * time.Second
	}

	return &Dispatcher{
		client: &http.Client{
			Transport: &http.Transport{},
			Timeout:   30 * time.Second,
		},
		breakers:  breakers,
		logger:    logger,
		defaultTO: defaultTimeout,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec
	}
}

// Dispatch builds the upstream request from inbound req, applies the
// route's stripPath/preserveHost rules, then runs it through the
// breaker and retry/backoff engine.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	req *http.Request,
	route *router.CompiledRoute,
	pathParams map[string]string,
	user *auth.UserContext,
	requestID string,
) (*Result, error) {
	dest := selectDestination(route)
	if dest == nil {
		return nil, errs.New(errs.CodeBadGateway, fmt.Sprintf("route %s has no destination configured", route.Name))
	}

	serviceKey := fmt.Sprintf("%s:%d", dest.Host, dest.Port)
	breaker := d.breakers.GetOrCreate(serviceKey)

	targetPath := buildTargetPath(route, req.URL.Path)
	timeout := routeTimeout(route, d.defaultTO)
	maxAttempts := routeMaxAttempts(route)

	var lastResp *Result
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if waitErr := d.wait(ctx, attempt); waitErr != nil {
				return nil, waitErr
			}
		}

		if !breaker.Allow() {
			d.logger.Debug("circuit breaker rejected dispatch",
				zap.String("service", serviceKey),
				zap.String("requestId", requestID),
			)
			return nil, errs.CircuitBreakerOpen(serviceKey)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := d.attempt(attemptCtx, req, dest, targetPath, pathParams, user, requestID, route)
		cancel()

		if err != nil {
			breaker.RecordFailure()
			lastErr = mapTransportError(err, serviceKey)
			d.logger.Debug("upstream attempt failed",
				zap.String("service", serviceKey),
				zap.Int("attempt", attempt+1),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if isTerminalErr(err) {
				return nil, lastErr
			}
			continue
		}

		if isTerminalStatus(resp.StatusCode) {
			breaker.RecordSuccess()
			return resp, nil
		}

		if resp.StatusCode >= 500 {
			breaker.RecordFailure()
		} else {
			breaker.RecordSuccess()
		}

		lastResp = resp
		lastErr = nil

		if resp.StatusCode < 500 {
			return resp, nil
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	if lastResp != nil {
		return nil, errs.UpstreamError(lastResp.StatusCode, serviceKey)
	}
	return nil, errs.ServiceUnavailable(serviceKey, nil)
}

// wait blocks for the retry delay of the given attempt (1-based retry
// count, i.e. attempt==1 is the first retry), cancellable via ctx.
func (d *Dispatcher) wait(ctx context.Context, attempt int) error {
	delay := d.nextDelay(attempt)
	if delay <= 0 {
		return nil
	}
	d.logger.Debug("waiting before retry", zap.Int("attempt", attempt), zap.Duration("wait", delay))
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nextDelay implements min(1000*2^(i-1), 10000)ms plus uniform jitter
// in [0, 0.1*delay).
func (d *Dispatcher) nextDelay(attempt int) time.Duration {
	base := 1000.0 * float64(int64(1)<<uint(attempt-1))
	if base > 10000 {
		base = 10000
	}

	d.mu.Lock()
	jitter := d.rand.Float64() * 0.1 * base
	d.mu.Unlock()

	return time.Duration(base+jitter) * time.Millisecond
}

func (d *Dispatcher) attempt(
	ctx context.Context,
	req *http.Request,
	dest *destination,
	targetPath string,
	pathParams map[string]string,
	user *auth.UserContext,
	requestID string,
	route *router.CompiledRoute,
) (*Result, error) {
	var body io.Reader
	var bodyBytes []byte
	if req.Body != nil && (req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch) {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(bodyBytes)
	}

	targetURL := &url.URL{
		Scheme:   "http",
		Host:     fmt.Sprintf("%s:%d", dest.Host, dest.Port),
		Path:     targetPath,
		RawQuery: req.URL.RawQuery,
	}

	outReq, err := http.NewRequestWithContext(ctx, req.Method, targetURL.String(), body)
	if err != nil {
		return nil, err
	}

	copyForwardHeaders(outReq, req)
	injectGatewayHeaders(outReq, req, requestID, user)

	if route.Config.PreserveHost {
		outReq.Host = req.Host
	}

	resp, err := d.client.Do(outReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	header := make(http.Header, len(resp.Header))
	for k, v := range resp.Header {
		if isHopHeader(k) {
			continue
		}
		header[k] = v
	}
	header.Set("X-Gateway-Service", gatewayServiceName)
	header.Set("X-Request-ID", requestID)

	return &Result{StatusCode: resp.StatusCode, Header: header, Body: respBody}, nil
}

// copyForwardHeaders copies inbound headers minus the hop-by-hop set.
func copyForwardHeaders(outReq, inReq *http.Request) {
	for k, v := range inReq.Header {
		if isHopHeader(k) {
			continue
		}
		outReq.Header[k] = append([]string(nil), v...)
	}
}

func isHopHeader(name string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

// injectGatewayHeaders adds the forwarding and identity headers spec.md
// §4.5 requires.
func injectGatewayHeaders(outReq, inReq *http.Request, requestID string, user *auth.UserContext) {
	clientIP := clientIPFrom(inReq)
	if clientIP != "" {
		if existing := outReq.Header.Get("X-Forwarded-For"); existing != "" {
			outReq.Header.Set("X-Forwarded-For", existing+", "+clientIP)
		} else {
			outReq.Header.Set("X-Forwarded-For", clientIP)
		}
	}

	scheme := "http"
	if inReq.TLS != nil {
		scheme = "https"
	}
	outReq.Header.Set("X-Forwarded-Proto", scheme)
	outReq.Header.Set("X-Forwarded-Host", inReq.Host)
	outReq.Header.Set("X-Request-ID", requestID)

	if user != nil {
		outReq.Header.Set("X-User-Id", user.Subject)
		if len(user.Roles) > 0 {
			outReq.Header.Set("X-User-Roles", strings.Join(user.Roles, ","))
		}
		if user.Tier != "" {
			outReq.Header.Set("X-User-Tier", user.Tier)
		}
	}
}

func clientIPFrom(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// destination is the resolved host/port the dispatcher calls.
type destination struct {
	Host string
	Port int
}

// selectDestination picks a destination from the route, favoring the
// highest-weighted entry. Single-destination routes (the common case)
// return that entry directly.
func selectDestination(route *router.CompiledRoute) *destination {
	dests := route.Config.Route
	if len(dests) == 0 {
		return nil
	}

	best := dests[0]
	for _, d := range dests[1:] {
		if d.Weight > best.Weight {
			best = d
		}
	}

	return &destination{Host: best.Destination.Host, Port: best.Destination.Port}
}

// buildTargetPath applies the route's stripPath rule to the inbound
// path, matching spec.md's "strip prefix, empty result becomes /".
func buildTargetPath(route *router.CompiledRoute, inboundPath string) string {
	if !route.Config.StripPath {
		return inboundPath
	}

	prefix := routeMatchPrefix(route)
	if prefix == "" {
		return inboundPath
	}

	trimmed := strings.TrimPrefix(inboundPath, prefix)
	if trimmed == "" || !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if trimmed == "" {
		trimmed = "/"
	}
	return trimmed
}

// routeMatchPrefix returns the configured prefix or exact match string
// used to compute the stripped path.
func routeMatchPrefix(route *router.CompiledRoute) string {
	for _, m := range route.Config.Match {
		if m.URI == nil {
			continue
		}
		if m.URI.Prefix != "" {
			return strings.TrimSuffix(m.URI.Prefix, "/")
		}
		if m.URI.Exact != "" {
			return m.URI.Exact
		}
	}
	return ""
}

func routeTimeout(route *router.CompiledRoute, fallback time.Duration) time.Duration {
	if route.Config.Timeout > 0 {
		return time.Duration(route.Config.Timeout)
	}
	return fallback
}

func routeMaxAttempts(route *router.CompiledRoute) int {
	if route.Config.Retries != nil && route.Config.Retries.Attempts > 0 {
		return route.Config.Retries.Attempts + 1
	}
	return 1
}

var terminalStatuses = map[int]bool{
	http.StatusBadRequest:          true,
	http.StatusUnauthorized:        true,
	http.StatusForbidden:           true,
	http.StatusNotFound:            true,
	http.StatusUnprocessableEntity: true,
}

func isTerminalStatus(status int) bool {
	return terminalStatuses[status]
}

// isTerminalErr reports whether a transport-level error should stop
// retries immediately. None currently do: connection refused, timeout,
// and other network errors are all retryable per spec.md §4.5; only
// breaker rejection and terminal HTTP statuses short-circuit, and
// breaker rejection is handled before attempt() is ever called. An
// oversized request body is a client error, not a transient upstream
// fault, so it's terminal too.
func isTerminalErr(err error) bool {
	return isBodyTooLarge(err)
}

// isBodyTooLarge reports whether err is the one http.MaxBytesReader
// returns once a request body crosses the server's configured limit.
func isBodyTooLarge(err error) bool {
	return err != nil && strings.Contains(err.Error(), "http: request body too large")
}

func mapTransportError(err error, serviceKey string) *errs.GatewayError {
	if isBodyTooLarge(err) {
		return errs.PayloadTooLarge("request body exceeds the configured size limit")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.GatewayTimeout(serviceKey, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && strings.Contains(opErr.Err.Error(), "refused") {
		return errs.ServiceUnavailable(serviceKey, err)
	}

	return errs.BadGateway(err)
}
