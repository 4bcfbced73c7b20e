// Package identity resolves which backend user the client acts as.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIdentity is returned when no source yields a user id
var ErrNoIdentity = errors.New("no user id configured: pass --user, set user_id, or configure auth_token")

// ResolveUserID picks the acting user id: explicit flag, then the configured
// id, then the subject of the identity token. The token is parsed without
// verifying its signature; the backend verifies it.
func ResolveUserID(flag, configured, token string) (string, error) {
	if id := strings.TrimSpace(flag); id != "" {
		return id, nil
	}
	if id := strings.TrimSpace(configured); id != "" {
		return id, nil
	}
	if strings.TrimSpace(token) == "" {
		return "", ErrNoIdentity
	}

	sub, err := SubjectFromToken(token)
	if err != nil {
		return "", err
	}
	return sub, nil
}

// SubjectFromToken returns the sub claim of a JWT
func SubjectFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "), claims); err != nil {
		return "", fmt.Errorf("parse identity token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("read token subject: %w", err)
	}
	if sub == "" {
		return "", ErrNoIdentity
	}
	return sub, nil
}
