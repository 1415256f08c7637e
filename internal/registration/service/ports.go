package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks SessionChecker

import (
	"context"

	id "ddinvest/pkg/domain"
)

// SessionChecker reports whether a browser session is signed in.
type SessionChecker interface {
	Authenticated(ctx context.Context, sessionID id.SessionID) (bool, error)
}
