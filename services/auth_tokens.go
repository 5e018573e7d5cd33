package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/godocompany/roomchat-api/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail signature or claims
// validation
var ErrInvalidToken = errors.New("invalid auth token")

// Session token lifetimes. "Remember me" logins get the long one.
const (
	SessionTokenLifetime    = 24 * time.Hour
	RememberMeTokenLifetime = 30 * 24 * time.Hour
)

// AuthTokensService issues and validates signed session tokens
type AuthTokensService struct {
	SigningPepper string
}

// CreateToken creates a signed session token for the user. The remember
// flag selects the extended lifetime.
func (s *AuthTokensService) CreateToken(user *models.User, remember bool) (string, error) {
	lifetime := SessionTokenLifetime
	if remember {
		lifetime = RememberMeTokenLifetime
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.SigningPepper))
}

// ValidateToken checks the token signature and claims and returns the
// user id it was issued for
func (s *AuthTokensService) ValidateToken(tokenString string) (uint64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.SigningPepper), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
