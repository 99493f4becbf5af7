package session

import (
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

// TokenExpiry reads the exp claim of a JWT bearer token without verifying it.
// Opaque tokens and tokens without exp report false.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parsed, err := jwt.ParseInsecure([]byte(token))
	if err != nil {
		return time.Time{}, false
	}
	return parsed.Expiration()
}

// Expired reports whether token carries an exp claim that is not after now.
func Expired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !exp.After(now)
}
