package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager generates and validates access tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
	AccessTTL() time.Duration
}

// AccessToken is an issued bearer token together with its lifetime.
type AccessToken struct {
	Token     string
	ExpiresIn time.Duration
	UserID    uuid.UUID
}
