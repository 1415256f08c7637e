package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ddinvest/internal/platform/middleware"
	"ddinvest/internal/session/models"
	id "ddinvest/pkg/domain"
	dErrors "ddinvest/pkg/domain-errors"
	"ddinvest/pkg/platform/httputil"
	"ddinvest/pkg/requestcontext"
)

// Service is the session lifecycle used by the handler.
type Service interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
	Current(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Logout(ctx context.Context, sessionID id.SessionID) error
}

// Handler serves /session. Routes expect middleware.SessionCookie upstream.
type Handler struct {
	sessions     Service
	logger       *slog.Logger
	secureCookie bool
	limit        func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithLoginLimit wraps the login route.
func WithLoginLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.limit = mw
	}
}

func New(sessions Service, logger *slog.Logger, secureCookie bool, opts ...Option) *Handler {
	h := &Handler{
		sessions:     sessions,
		logger:       logger,
		secureCookie: secureCookie,
		limit:        func(next http.Handler) http.Handler { return next },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.With(h.limit).Post("/", h.handleLogin)
		r.Get("/", h.handleCurrent)
		r.Delete("/", h.handleLogout)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	creds, err := httputil.DecodeJSON[models.Credentials](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sess, err := h.sessions.Login(ctx, creds)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	middleware.SetSessionCookie(w, sess.ID, sess.ExpiresAt, h.secureCookie)
	httputil.WriteJSON(w, http.StatusOK, sess.ToView())
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, ok := requestcontext.SessionID(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "not signed in"))
		return
	}

	sess, err := h.sessions.Current(ctx, sid)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			middleware.ClearSessionCookie(w, h.secureCookie)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess.ToView())
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if sid, ok := requestcontext.SessionID(ctx); ok {
		if err := h.sessions.Logout(ctx, sid); err != nil {
			h.logger.ErrorContext(ctx, "logout failed", "session_id", sid, "error", err)
			httputil.WriteError(w, err)
			return
		}
	}
	middleware.ClearSessionCookie(w, h.secureCookie)
	w.WriteHeader(http.StatusNoContent)
}
