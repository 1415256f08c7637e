package models

import (
	"time"

	regmodels "ddinvest/internal/registration/models"
	id "ddinvest/pkg/domain"
)

// Credentials is a login attempt. Handle may also be an email address.
type Credentials struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// Token is the Identity Service answer to a successful login.
type Token struct {
	AccessToken string
	TokenType   string
	User        regmodels.Account
}

// Session binds a browser cookie to an Identity Service access token.
type Session struct {
	ID          id.SessionID      `json:"id"`
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	Subject     string            `json:"subject,omitempty"`
	User        regmodels.Account `json:"user"`
	CreatedAt   time.Time         `json:"created_at"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// View is the client-facing session representation. The access token never
// leaves the server.
type View struct {
	User      regmodels.Account `json:"user"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ToView strips the secrets from s.
func (s *Session) ToView() View {
	return View{User: s.User, ExpiresAt: s.ExpiresAt}
}
