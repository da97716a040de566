package cmsdk

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry reads the expiry claim off an access token without verifying
// its signature. Signature verification is the backend's job; the client
// only needs to know when to stop presenting the token. Returns the zero
// time when the token is malformed or carries no expiry.
func tokenExpiry(raw string) time.Time {
	parser := jwt.NewParser()

	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
