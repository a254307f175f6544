// Package auth signs and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session id in the standard "jti" claim and the user id
// in a custom claim.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// SessionID returns the id of the session the token refers to.
func (c *Claims) SessionID() string {
	return c.ID
}

func GenerateToken(sessionID, userID string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and expiry of tokenString. Expired tokens
// yield common.ErrTokenExpired, anything else common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.ID == "" || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// TokenFromHeader extracts the session token from the session cookie, falling
// back to an "Authorization: Bearer" header. It returns "" when neither is set.
func TokenFromHeader(h http.Header) string {
	r := &http.Request{Header: h}
	if c, err := r.Cookie(common.SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	scheme, token, ok := strings.Cut(h.Get(common.AuthorizationHeaderName), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
