package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialPresent reports whether token can be sent to the backend.
//
// Tokens are opaque to the client. When a token happens to be a JWT carrying
// an "exp" claim that is already in the past it is treated as absent, which
// spares a round trip that would end in a 401 anyway. The signature is not
// checked here; the backend stays the authority.
func CredentialPresent(token string) bool {
	return credentialPresentAt(token, time.Now())
}

func credentialPresentAt(token string, now time.Time) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// not a JWT, nothing more to inspect
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.Before(exp.Time)
}
