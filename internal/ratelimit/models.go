// Package ratelimit throttles the BFF routes that fan out to the Identity
// Service, per client IP, with a sliding window.
package ratelimit

import "time"

// Class groups routes that share a budget.
type Class string

const (
	// ClassIdentity covers handle checks, verification emails and submits.
	ClassIdentity Class = "identity"
	// ClassLogin covers password logins.
	ClassLogin Class = "login"
)

// Limit is a request budget over a window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of one budget check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds
}
