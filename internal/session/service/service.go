// Package service manages browser sessions backed by Identity Service access
// tokens.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Authenticator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	jwttoken "ddinvest/internal/jwt_token"
	regmodels "ddinvest/internal/registration/models"
	"ddinvest/internal/session/models"
	id "ddinvest/pkg/domain"
	dErrors "ddinvest/pkg/domain-errors"
	"ddinvest/pkg/platform/sentinel"
)

const defaultTTL = 24 * time.Hour

// Store persists sessions.
type Store interface {
	Save(ctx context.Context, sess *models.Session) error
	Get(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
}

// Authenticator is the login side of the Identity Service.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Token, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*regmodels.Account, error)
}

type Service struct {
	store  Store
	auth   Authenticator
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTTL sets the lifetime of sessions whose token carries no expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, auth Authenticator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if auth == nil {
		return nil, errors.New("authenticator is required")
	}
	s := &Service{
		store:  store,
		auth:   auth,
		logger: slog.Default(),
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login exchanges credentials for a new session. The session expires with the
// access token, or after the configured TTL when the token is opaque or has
// no expiry.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	if creds.Handle == "" || creds.Password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "handle and password are required")
	}

	tok, err := s.auth.Login(ctx, creds)
	if err != nil {
		s.logger.InfoContext(ctx, "login refused", "code", dErrors.CodeOf(err))
		return nil, err
	}

	now := s.now()
	sess := &models.Session{
		ID:          id.NewSessionID(),
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		User:        tok.User,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if claims, err := jwttoken.Inspect(tok.AccessToken); err == nil {
		sess.Subject = claims.Subject
		if !claims.ExpiresAt.IsZero() {
			sess.ExpiresAt = claims.ExpiresAt
		}
	}
	if sess.Expired(now) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "access token is already expired")
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}
	s.logger.InfoContext(ctx, "session started",
		"session_id", sess.ID,
		"account_id", sess.User.ID,
		"expires_at", sess.ExpiresAt,
	)
	return sess, nil
}

// Current returns the session and refreshes its user from the Identity
// Service. A token the service no longer accepts ends the session; an
// unreachable service leaves the cached user in place.
func (s *Service) Current(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.auth.CurrentUser(ctx, sess.AccessToken)
	switch {
	case err == nil:
		sess.User = *user
		if err := s.store.Save(ctx, sess); err != nil {
			s.logger.WarnContext(ctx, "failed to refresh session user", "session_id", sessionID, "error", err)
		}
	case dErrors.HasCode(err, dErrors.CodeUnauthorized):
		_ = s.store.Delete(ctx, sessionID)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session is no longer valid")
	default:
		s.logger.WarnContext(ctx, "serving cached session user", "session_id", sessionID, "error", err)
	}
	return sess, nil
}

// Authenticated reports whether sessionID names a live session. It makes no
// Identity Service call.
func (s *Service) Authenticated(ctx context.Context, sessionID id.SessionID) (bool, error) {
	if sessionID.IsNil() {
		return false, nil
	}
	_, err := s.store.Get(ctx, sessionID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrExpired):
		return false, nil
	default:
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
}

// Logout ends the session. The local session is removed even when the
// Identity Service cannot be told; an unknown session is not an error.
func (s *Service) Logout(ctx context.Context, sessionID id.SessionID) error {
	sess, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}

	if err := s.auth.Logout(ctx, sess.AccessToken); err != nil {
		s.logger.WarnContext(ctx, "remote logout failed", "session_id", sessionID, "error", err)
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
	}
	s.logger.InfoContext(ctx, "session ended", "session_id", sessionID)
	return nil
}

func (s *Service) lookup(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not signed in")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return sess, nil
}
