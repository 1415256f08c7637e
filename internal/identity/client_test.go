package identity

import (
	"context"
	"encoding/json"
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
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"ddinvest/internal/registration/models"
	"ddinvest/internal/registration/workflow"
	sessionmodels "ddinvest/internal/session/models"
	dErrors "ddinvest/pkg/domain-errors"
	"ddinvest/pkg/platform/sentinel"
)

var _ workflow.Identity = (*Client)(nil)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	c, err := New(srv.URL+"/api/v1/", opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNew(t *testing.T) {
	t.Run("rejects relative base url", func(t *testing.T) {
		_, err := New("/api/v1")
		require.Error(t, err)
	})

	t.Run("accepts absolute base url", func(t *testing.T) {
		c, err := New("http://localhost:8000/api/v1/")
		require.NoError(t, err)
		assert.Equal(t, "/api/v1", c.baseURL.Path)
	})
}

func TestCheckHandleAvailability(t *testing.T) {
	t.Run("sends the handle as a query parameter", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/auth/check-username", r.URL.Path)
			assert.Equal(t, "al ice", r.URL.Query().Get("username"))
			writeJSON(w, http.StatusOK, map[string]any{"available": true, "message": "free"})
		})

		res, err := c.CheckHandleAvailability(context.Background(), "al ice")
		require.NoError(t, err)
		assert.True(t, res.Available)
		assert.Equal(t, "free", res.Message)
	})

	t.Run("taken handle is a successful answer", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"available": false, "message": "이미 존재하는 사용자명입니다"})
		})

		res, err := c.CheckHandleAvailability(context.Background(), "alice")
		require.NoError(t, err)
		assert.False(t, res.Available)
	})
}

func TestVerification(t *testing.T) {
	t.Run("send maps success to queued", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/auth/send-verification-email", r.URL.Path)
			assert.Equal(t, "a+b@example.com", r.URL.Query().Get("email"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "sent", "email": "a+b@example.com"})
		})

		res, err := c.SendVerificationEmail(context.Background(), "a+b@example.com")
		require.NoError(t, err)
		assert.True(t, res.Queued)
		assert.Equal(t, "sent", res.Message)
	})

	t.Run("verify sends email and code", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/auth/verify-email-code", r.URL.Path)
			assert.Equal(t, "a@b.com", r.URL.Query().Get("email"))
			assert.Equal(t, "123456", r.URL.Query().Get("code"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		})

		res, err := c.VerifyEmailCode(context.Background(), "a@b.com", "123456")
		require.NoError(t, err)
		assert.True(t, res.Verified)
	})

	t.Run("wrong code is a rejection with the detail", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "인증 코드가 올바르지 않습니다"})
		})

		_, err := c.VerifyEmailCode(context.Background(), "a@b.com", "000000")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRejected))
		assert.Equal(t, "인증 코드가 올바르지 않습니다", dErrors.MessageOf(err, ""))
		assert.False(t, errors.Is(err, models.ErrEmailAlreadyRegistered))
	})
}

func TestCreateAccount(t *testing.T) {
	name := "Alice Kim"
	birth := "1999-12-31"
	gender := models.GenderFemale

	t.Run("maps the payload onto the wire names", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice", body["username"])
			assert.Equal(t, "Alice", body["nickname"])
			assert.Equal(t, "Alice Kim", body["full_name"])
			assert.Equal(t, "1999-12-31", body["birth_date"])
			assert.Equal(t, "female", body["gender"])
			assert.Nil(t, body["phone"])
			assert.Contains(t, body, "phone")
			assert.Equal(t, true, body["terms_agreed"])
			assert.Equal(t, false, body["marketing_agreed"])

			writeJSON(w, http.StatusCreated, map[string]any{
				"id": 42, "username": "alice", "email": "alice@example.com",
				"nickname": "Alice", "created_at": "2026-10-14T09:30:00.123456",
			})
		})

		acc, err := c.CreateAccount(context.Background(), models.CreateAccountRequest{
			Handle: "alice", Email: "alice@example.com", Password: "Passw0rd!",
			DisplayName: "Alice", RealName: &name, BirthDate: &birth, Gender: &gender,
			TermsAgreed: true, PrivacyAgreed: true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), acc.ID)
		assert.Equal(t, "alice", acc.Handle)
		assert.Equal(t, "Alice", acc.DisplayName)
		assert.Equal(t, time.Date(2026, 10, 14, 9, 30, 0, 123456000, time.UTC), acc.CreatedAt)
	})

	emailTakenCases := []struct {
		name   string
		status int
		body   map[string]any
	}{
		{"localized detail", http.StatusBadRequest, map[string]any{"detail": "이미 존재하는 이메일입니다"}},
		{"english detail on conflict", http.StatusConflict, map[string]any{"detail": "Email already registered"}},
		{"explicit code", http.StatusUnprocessableEntity, map[string]any{"detail": "nope", "code": "email_taken"}},
	}
	for _, tc := range emailTakenCases {
		t.Run("duplicate email: "+tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			_, err := c.CreateAccount(context.Background(), models.CreateAccountRequest{Handle: "alice"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrEmailAlreadyRegistered))
			assert.True(t, dErrors.HasCode(err, dErrors.CodeRejected))
		})
	}

	t.Run("duplicate handle is a plain rejection", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "이미 존재하는 사용자명입니다"})
		})

		_, err := c.CreateAccount(context.Background(), models.CreateAccountRequest{Handle: "alice"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRejected))
		assert.False(t, errors.Is(err, models.ErrEmailAlreadyRegistered))
	})

	t.Run("validation detail list is joined", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"detail": []map[string]any{{"msg": "password too short"}, {"msg": "nickname required"}},
			})
		})

		_, err := c.CreateAccount(context.Background(), models.CreateAccountRequest{})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeRejected))
		assert.Equal(t, "password too short; nickname required", dErrors.MessageOf(err, ""))
	})
}

func TestTransportFailures(t *testing.T) {
	t.Run("5xx is unavailable", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "db down"})
		})

		_, err := c.CheckHandleAvailability(context.Background(), "alice")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
		assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
	})

	t.Run("undecodable body is unavailable", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>"))
		})

		_, err := c.SendVerificationEmail(context.Background(), "a@b.com")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	t.Run("unreachable service is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c, err := New(srv.URL)
		require.NoError(t, err)

		_, err = c.CheckHandleAvailability(context.Background(), "alice")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
		assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		release := make(chan struct{})
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-release
		}, WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
		defer close(release)

		_, err := c.CheckHandleAvailability(context.Background(), "alice")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func TestAuth(t *testing.T) {
	t.Run("login returns the token and user", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice", body["username"])
			assert.Equal(t, "Passw0rd!", body["password"])
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": "tok", "token_type": "bearer",
				"user": map[string]any{"id": 1, "username": "alice", "email": "alice@example.com"},
			})
		})

		tok, err := c.Login(context.Background(), sessionmodels.Credentials{Handle: "alice", Password: "Passw0rd!"})
		require.NoError(t, err)
		assert.Equal(t, "tok", tok.AccessToken)
		assert.Equal(t, "bearer", tok.TokenType)
		assert.Equal(t, "alice", tok.User.Handle)
	})

	t.Run("bad password is unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "비밀번호가 올바르지 않습니다"})
		})

		_, err := c.Login(context.Background(), sessionmodels.Credentials{Handle: "alice", Password: "x"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("logout sends the bearer token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/auth/logout", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		})

		assert.NoError(t, c.Logout(context.Background(), "tok"))
	})

	t.Run("current user passes the token as a query parameter", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v1/auth/me", r.URL.Path)
			assert.Equal(t, "tok", r.URL.Query().Get("token"))
			writeJSON(w, http.StatusOK, map[string]any{"id": 1, "username": "alice", "created_at": nil})
		})

		acc, err := c.CurrentUser(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "alice", acc.Handle)
		assert.True(t, acc.CreatedAt.IsZero())
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"available": true})
	}, WithMetrics(m))

	_, err := c.CheckHandleAvailability(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(m.CallDuration, "ddinvest_identity_call_duration_seconds"))
}

func TestTracePropagation(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	var traceparent string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("Traceparent")
		writeJSON(w, http.StatusOK, map[string]any{"available": true})
	}, WithTracer(tp.Tracer("test")))

	_, err := c.CheckHandleAvailability(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, traceparent)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "identity.check_handle", spans[0].Name())
	assert.Contains(t, traceparent, spans[0].SpanContext().TraceID().String())
}
