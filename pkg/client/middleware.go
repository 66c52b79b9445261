package client

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/TFMV/querylab/pkg/infrastructure/metrics"
)

// Middleware wraps a RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// chain applies middlewares so that the last one listed runs outermost.
func chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	rt := base
	for _, mw := range mws {
		rt = mw(rt)
	}
	return rt
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// endpointLabel replaces numeric path segments so metric labels stay bounded.
func endpointLabel(req *http.Request) string {
	return numericSegment.ReplaceAllString(req.URL.Path, "/:id$1")
}

func statusClass(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}

// newLoggingTransport logs every request at debug, and failures at warn.
func newLoggingTransport(logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			duration := time.Since(start)

			code := 0
			if resp != nil {
				code = resp.StatusCode
			}

			event := logger.Debug()
			if err != nil {
				event = logger.Warn().Err(err)
			} else if code >= 400 {
				event = logger.Warn()
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("request_id", req.Header.Get(RequestIDHeader)).
				Int("status", code).
				Dur("duration", duration).
				Msg("Backend request")

			return resp, err
		})
	}
}

// newMetricsTransport counts requests and records latency per endpoint.
func newMetricsTransport(collector metrics.Collector) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			endpoint := endpointLabel(req)
			timer := collector.StartTimer(metrics.HTTPRequest, "endpoint", endpoint)
			resp, err := next.RoundTrip(req)
			timer.Stop()

			code := 0
			if resp != nil {
				code = resp.StatusCode
			}
			collector.IncrementCounter(metrics.HTTPRequestsTotal,
				"endpoint", endpoint,
				"class", statusClass(code))

			return resp, err
		})
	}
}
