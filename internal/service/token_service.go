package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/recipes-server/internal/logger"
	"github.com/dtroode/recipes-server/internal/model"
)

// TokenService issues access tokens and resolves them back to user IDs.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

func (s *TokenService) Issue(user model.User) (model.AccessToken, error) {
	token, err := s.manager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("issue access: %w", err)
	}

	return model.AccessToken{
		Token:     token,
		ExpiresIn: s.manager.AccessTTL(),
		UserID:    user.ID,
	}, nil
}

func (s *TokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(token)
}
