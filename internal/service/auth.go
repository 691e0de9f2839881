package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/recipes-server/internal/logger"
	"github.com/dtroode/recipes-server/internal/model"
)

const minPasswordLength = 6

type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	logger       *logger.Logger
	hashCost     int
}

func NewAuth(userStore model.UserStore, tokenService *TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenService: tokenService,
		logger:       logger,
		hashCost:     bcrypt.DefaultCost,
	}
}

// Signup registers a user with a bcrypt-hashed password.
func (a *Auth) Signup(ctx context.Context, email, password string) (model.User, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: starting user registration", "login", email)

	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return model.User{}, fmt.Errorf("%w: invalid email", model.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return model.User{}, fmt.Errorf("%w: password must be at least %d characters", model.ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return model.User{}, fmt.Errorf("%w: password too long", model.ErrInvalidInput)
		}
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			a.logger.Info("Auth service: user already exists", "login", email)
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"login", email,
		"user_id", user.ID)

	return user, nil
}

// Login checks the password and issues an access token.
func (a *Auth) Login(ctx context.Context, email, password string) (model.AccessToken, error) {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: login for unknown user", "login", email)
			return model.AccessToken{}, model.ErrInvalidCredentials
		}
		return model.AccessToken{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: wrong password", "login", email)
		return model.AccessToken{}, model.ErrInvalidCredentials
	}

	token, err := a.tokenService.Issue(user)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login successful", "user_id", user.ID)

	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
