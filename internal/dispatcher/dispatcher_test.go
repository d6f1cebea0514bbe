package dispatcher

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/circuitbreaker"
	"github.com/vyrodovalexey/avapigw/internal/config"
	"github.com/vyrodovalexey/avapigw/internal/errs"
	"github.com/vyrodovalexey/avapigw/internal/router"
)

func testRoute(t *testing.T, upstream *httptest.Server, extra func(*config.Route)) *router.CompiledRoute {
	t.Helper()

	u, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	host, portStr, err := splitHostPortForTest(u.Host)
	require.NoError(t, err)

	route := config.Route{
		Name: "test-route",
		Match: []config.RouteMatch{
			{URI: &config.URIMatch{Prefix: "/api/"}},
		},
		Route: []config.RouteDestination{
			{Destination: config.Destination{Host: host, Port: port(portStr)}},
		},
	}
	if extra != nil {
		extra(&route)
	}

	r := router.New()
	require.NoError(t, r.AddRoute(route))

	compiled, ok := r.GetRoute("test-route")
	require.True(t, ok)
	return compiled
}

func splitHostPortForTest(hostport string) (string, string, error) {
	for i := len(hostport) - 1; i >= 0; i-- {
		if hostport[i] == ':' {
			return hostport[:i], hostport[i+1:], nil
		}
	}
	return hostport, "", nil
}

func port(s string) int {
	p := 0
	for _, c := range s {
		p = p*10 + int(c-'0')
	}
	return p
}

func newDispatcher() *Dispatcher {
	return New(circuitbreaker.NewRegistry(nil, zap.NewNop()), zap.NewNop(), time.Second)
}

func TestDispatch_Success(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	d := newDispatcher()
	route := testRoute(t, upstream, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	result, err := d.Dispatch(req.Context(), req, route, nil, nil, "req-1")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "avapigw", result.Header.Get("X-Gateway-Service"))
	assert.Equal(t, "req-1", result.Header.Get("X-Request-ID"))
	assert.Equal(t, `{"ok":true}`, string(result.Body))
}

func TestDispatch_StripPath(t *testing.T) {
	t.Parallel()

	var seenPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	d := newDispatcher()
	route := testRoute(t, upstream, func(r *config.Route) {
		r.StripPath = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/42", nil)
	_, err := d.Dispatch(req.Context(), req, route, nil, nil, "req-2")

	require.NoError(t, err)
	assert.Equal(t, "/orders/42", seenPath)
}

func TestDispatch_TerminalStatusNoRetry(t *testing.T) {
	t.Parallel()

	var calls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	d := newDispatcher()
	route := testRoute(t, upstream, func(r *config.Route) {
		r.Retries = &config.RetryPolicy{Attempts: 3}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/missing", nil)
	result, err := d.Dispatch(req.Context(), req, route, nil, nil, "req-3")

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Equal(t, 1, calls, "404 must not be retried")
}

func TestDispatch_BodyTooLarge_NoRetry(t *testing.T) {
	t.Parallel()

	var calls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	d := newDispatcher()
	route := testRoute(t, upstream, func(r *config.Route) {
		r.Retries = &config.RetryPolicy{Attempts: 3}
	})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, io.NopCloser(bytes.NewReader(bytes.Repeat([]byte("a"), 100))), 10)

	_, err := d.Dispatch(req.Context(), req, route, nil, nil, "req-body-too-large")

	require.Error(t, err)
	var gwErr *errs.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, errs.CodePayloadTooLarge, gwErr.Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, gwErr.Status)
	assert.Equal(t, 0, calls, "oversized body must not reach upstream or be retried")
}

func TestDispatch_RetriesOn5xxThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	d := newDispatcher()
	route := testRoute(t, upstream, func(r *config.Route) {
		r.Retries = &config.RetryPolicy{Attempts: 3}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/flaky", nil)
	result, err := d.Dispatch(req.Context(), req, route, nil, nil, "req-4")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, 3, calls)
}

func TestDispatch_CircuitOpensAfterThreshold(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	breakers := circuitbreaker.NewRegistry(
		circuitbreaker.DefaultConfig().WithMaxFailures(1),
		zap.NewNop(),
	)
	d := New(breakers, zap.NewNop(), time.Second)
	route := testRoute(t, upstream, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/down", nil)
	_, err := d.Dispatch(req.Context(), req, route, nil, nil, "req-5")
	require.Error(t, err)

	_, err = d.Dispatch(req.Context(), req, route, nil, nil, "req-6")
	require.Error(t, err)
	ge, ok := err.(*errs.GatewayError)
	require.True(t, ok)
	assert.Equal(t, errs.CodeCircuitBreakerOpen, ge.Code)
}

func TestDispatch_NoDestinationConfigured(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	r := router.New()
	require.NoError(t, r.AddRoute(config.Route{
		Name:  "empty-route",
		Match: []config.RouteMatch{{URI: &config.URIMatch{Prefix: "/api/"}}},
	}))
	route, ok := r.GetRoute("empty-route")
	require.True(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	_, err := d.Dispatch(req.Context(), req, route, nil, nil, "req-7")
	require.Error(t, err)
}

func TestNextDelay_BoundedAndMonotonic(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	prev := time.Duration(0)
	for attempt := 1; attempt <= 6; attempt++ {
		delay := d.nextDelay(attempt)
		assert.LessOrEqual(t, delay, 11*time.Second)
		if attempt > 1 {
			assert.GreaterOrEqual(t, delay, prev/2)
		}
		prev = delay
	}
}

func TestBuildTargetPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stripPath  bool
		prefix     string
		path       string
		wantResult string
	}{
		{"no strip", false, "/api/", "/api/users", "/api/users"},
		{"strip prefix leaves remainder", true, "/api", "/api/users", "/users"},
		{"strip prefix to empty becomes slash", true, "/api/users", "/api/users", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := &router.CompiledRoute{
				Config: config.Route{
					StripPath: tt.stripPath,
					Match:     []config.RouteMatch{{URI: &config.URIMatch{Prefix: tt.prefix}}},
				},
			}
			assert.Equal(t, tt.wantResult, buildTargetPath(route, tt.path))
		})
	}
}

func TestRouteMaxAttempts(t *testing.T) {
	t.Parallel()

	noRetries := &router.CompiledRoute{Config: config.Route{}}
	assert.Equal(t, 1, routeMaxAttempts(noRetries))

	withRetries := &router.CompiledRoute{Config: config.Route{Retries: &config.RetryPolicy{Attempts: 2}}}
	assert.Equal(t, 3, routeMaxAttempts(withRetries))
}

func TestIsTerminalStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []int{400, 401, 403, 404, 422} {
		assert.True(t, isTerminalStatus(s), fmt.Sprintf("status %d should be terminal", s))
	}
	for _, s := range []int{408, 429, 500, 502, 503, 504} {
		assert.False(t, isTerminalStatus(s), fmt.Sprintf("status %d should not be terminal", s))
	}
}
