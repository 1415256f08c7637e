package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	regmodels "ddinvest/internal/registration/models"
	"ddinvest/internal/session/models"
	"ddinvest/internal/session/service/mocks"
	"ddinvest/internal/session/store"
	id "ddinvest/pkg/domain"
	dErrors "ddinvest/pkg/domain-errors"
)

// =============================================================================
// Session Service Test Suite
// =============================================================================
// Justification for unit tests: expiry derivation from the token and the
// ordering of local versus remote logout are invisible from the HTTP surface.

type SessionServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	auth    *mocks.MockAuthenticator
	store   *store.InMemory
	service *Service
	now     time.Time
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceSuite))
}

func (s *SessionServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.auth = mocks.NewMockAuthenticator(s.ctrl)
	s.now = time.Now().Truncate(time.Second)
	clock := func() time.Time { return s.now }
	s.store = store.NewInMemory(store.WithClock(clock))
	svc, err := New(s.store, s.auth,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithTTL(2*time.Hour),
		WithClock(clock),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *SessionServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

var creds = models.Credentials{Handle: "alice", Password: "Passw0rd!"}

func (s *SessionServiceSuite) signedToken(exp time.Time) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	s.Require().NoError(err)
	return tok
}

func (s *SessionServiceSuite) login(token string) *models.Session {
	s.auth.EXPECT().Login(gomock.Any(), creds).Return(&models.Token{
		AccessToken: token,
		TokenType:   "bearer",
		User:        regmodels.Account{ID: 1, Handle: "alice"},
	}, nil)
	sess, err := s.service.Login(context.Background(), creds)
	s.Require().NoError(err)
	return sess
}

func (s *SessionServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, s.auth)
		s.ErrorContains(err, "session store is required")
	})

	s.Run("nil authenticator returns error", func() {
		_, err := New(s.store, nil)
		s.ErrorContains(err, "authenticator is required")
	})
}

func (s *SessionServiceSuite) TestLogin() {
	s.Run("missing credentials fail locally", func() {
		_, err := s.service.Login(context.Background(), models.Credentials{Handle: "alice"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("expiry follows the token", func() {
		exp := s.now.Add(30 * time.Minute)
		sess := s.login(s.signedToken(exp))
		s.True(exp.Equal(sess.ExpiresAt))
		s.Equal("alice", sess.Subject)

		stored, err := s.store.Get(context.Background(), sess.ID)
		s.Require().NoError(err)
		s.Equal(sess.ID, stored.ID)
	})

	s.Run("opaque token gets the configured ttl", func() {
		sess := s.login("opaque-token")
		s.Equal(s.now.Add(2*time.Hour), sess.ExpiresAt)
		s.Empty(sess.Subject)
	})

	s.Run("already expired token is refused", func() {
		s.auth.EXPECT().Login(gomock.Any(), creds).Return(&models.Token{
			AccessToken: s.signedToken(s.now.Add(-time.Minute)),
		}, nil)
		_, err := s.service.Login(context.Background(), creds)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("refusal is passed through", func() {
		s.auth.EXPECT().Login(gomock.Any(), creds).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "wrong password"))
		_, err := s.service.Login(context.Background(), creds)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *SessionServiceSuite) TestCurrent() {
	s.Run("unknown session is unauthorized", func() {
		_, err := s.service.Current(context.Background(), id.NewSessionID())
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("refreshes the user from the service", func() {
		sess := s.login("opaque")
		s.auth.EXPECT().CurrentUser(gomock.Any(), "opaque").
			Return(&regmodels.Account{ID: 1, Handle: "alice", DisplayName: "Alice"}, nil)

		got, err := s.service.Current(context.Background(), sess.ID)
		s.Require().NoError(err)
		s.Equal("Alice", got.User.DisplayName)
	})

	s.Run("revoked token ends the session", func() {
		sess := s.login("opaque")
		s.auth.EXPECT().CurrentUser(gomock.Any(), "opaque").
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))

		_, err := s.service.Current(context.Background(), sess.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		ok, err := s.service.Authenticated(context.Background(), sess.ID)
		s.NoError(err)
		s.False(ok)
	})

	s.Run("unreachable service serves the cached user", func() {
		sess := s.login("opaque")
		s.auth.EXPECT().CurrentUser(gomock.Any(), "opaque").
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "down"))

		got, err := s.service.Current(context.Background(), sess.ID)
		s.Require().NoError(err)
		s.Equal("alice", got.User.Handle)
	})

	s.Run("session past its expiry is unauthorized", func() {
		sess := s.login(s.signedToken(s.now.Add(time.Minute)))
		s.now = s.now.Add(2 * time.Minute)

		_, err := s.service.Current(context.Background(), sess.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *SessionServiceSuite) TestAuthenticated() {
	s.Run("nil id is anonymous", func() {
		ok, err := s.service.Authenticated(context.Background(), id.SessionID{})
		s.NoError(err)
		s.False(ok)
	})

	s.Run("live session is authenticated", func() {
		sess := s.login("opaque")
		ok, err := s.service.Authenticated(context.Background(), sess.ID)
		s.NoError(err)
		s.True(ok)
	})

	s.Run("store failure is an error", func() {
		st := mocks.NewMockStore(s.ctrl)
		svc, err := New(st, s.auth)
		s.Require().NoError(err)
		st.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

		_, err = svc.Authenticated(context.Background(), id.NewSessionID())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *SessionServiceSuite) TestLogout() {
	s.Run("removes the session and tells the service", func() {
		sess := s.login("opaque")
		s.auth.EXPECT().Logout(gomock.Any(), "opaque").Return(nil)

		s.Require().NoError(s.service.Logout(context.Background(), sess.ID))
		ok, _ := s.service.Authenticated(context.Background(), sess.ID)
		s.False(ok)
	})

	s.Run("remote failure still removes the local session", func() {
		sess := s.login("opaque")
		s.auth.EXPECT().Logout(gomock.Any(), "opaque").
			Return(dErrors.New(dErrors.CodeUnavailable, "down"))

		s.Require().NoError(s.service.Logout(context.Background(), sess.ID))
		ok, _ := s.service.Authenticated(context.Background(), sess.ID)
		s.False(ok)
	})

	s.Run("unknown session is a no-op", func() {
		s.NoError(s.service.Logout(context.Background(), id.NewSessionID()))
	})
}
