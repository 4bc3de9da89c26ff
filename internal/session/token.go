package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired peeks at the upstream token's exp claim without verifying the
// signature (the signing key belongs to the assessment service). A token we
// cannot parse is treated as live and left for the profile fetch to judge.
func tokenExpired(raw string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}
