package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/recipes-server/internal/model"
)

// AuthService is a mock of handler.AuthService.
type AuthService struct {
	mock.Mock
}

func NewAuthService(t TestingT) *AuthService {
	m := &AuthService{}
	register(&m.Mock, t)
	return m
}

func (m *AuthService) Signup(ctx context.Context, email, password string) (model.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (model.AccessToken, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.AccessToken), args.Error(1)
}
