// Package requestcontext holds request-scoped values set by middleware and
// read by handlers and services. It has no net/http dependency.
//
//	sessionID, ok := requestcontext.SessionID(ctx)
//	ctx = requestcontext.WithSessionID(ctx, sessionID)
package requestcontext

import (
	"context"
	"time"

	id "ddinvest/pkg/domain"
)

type (
	sessionIDKey   struct{}
	requestTimeKey struct{}
)

// SessionID returns the browser session named by the request's cookie.
func SessionID(ctx context.Context) (id.SessionID, bool) {
	sid, ok := ctx.Value(sessionIDKey{}).(id.SessionID)
	return sid, ok && !sid.IsNil()
}

func WithSessionID(ctx context.Context, sessionID id.SessionID) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// Now returns the time captured when the request started, or the current
// time outside a request.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
