// Package jwttoken reads the registered claims of Identity Service access
// tokens. The BFF never holds the service's signing key, so signatures are
// not verified here; the token is only ever sent back to the service that
// issued it.
package jwttoken

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "ddinvest/pkg/domain-errors"
)

// Claims is the subset of an access token the session layer cares about.
// Zero times mean the claim was absent.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

var parser = jwt.NewParser()

// Inspect decodes the token's registered claims. Opaque (non-JWT) tokens are
// reported as unauthorized.
func Inspect(token string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(token, &rc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "malformed access token")
	}
	c := &Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}
