package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, Limit) (*Result, error) {
	return nil, errors.New("store down")
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

func request(ip string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/registrations/x/handle-check", nil)
	r.RemoteAddr = ip + ":51234"
	return r
}

func TestLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limits := map[Class]Limit{ClassIdentity: {Requests: 2, Window: time.Minute}}

	t.Run("refuses the caller over budget", func(t *testing.T) {
		metrics := NewMetrics(prometheus.NewRegistry())
		h := New(NewInMemoryStore(), limits, WithLogger(logger), WithMetrics(metrics)).Limit(ClassIdentity)(ok)

		for range 2 {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, request("10.0.0.1"))
			assert.Equal(t, http.StatusOK, rr.Code)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, request("10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("Retry-After"))
		assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
		assert.Contains(t, rr.Body.String(), "rate_limited")
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Rejected.WithLabelValues("identity")))

		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, request("10.0.0.2"))
		assert.Equal(t, http.StatusOK, rr.Code, "other callers keep their budget")
	})

	t.Run("unconfigured class passes through", func(t *testing.T) {
		h := New(NewInMemoryStore(), limits, WithLogger(logger)).Limit(ClassLogin)(ok)
		for range 5 {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, request("10.0.0.1"))
			assert.Equal(t, http.StatusOK, rr.Code)
		}
	})

	t.Run("disabled passes through", func(t *testing.T) {
		h := New(NewInMemoryStore(), map[Class]Limit{ClassIdentity: {Requests: 1, Window: time.Minute}},
			WithLogger(logger), WithDisabled(true)).Limit(ClassIdentity)(ok)
		for range 3 {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, request("10.0.0.1"))
			assert.Equal(t, http.StatusOK, rr.Code)
		}
	})

	t.Run("store failure fails open", func(t *testing.T) {
		h := New(failingStore{}, limits, WithLogger(logger)).Limit(ClassIdentity)(ok)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, request("10.0.0.1"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
