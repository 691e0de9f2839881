package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/recipes-server/internal/api/rest/response"
	"github.com/dtroode/recipes-server/internal/logger"
	"github.com/dtroode/recipes-server/internal/model"
)

// AuthService is what the auth handler needs from the service layer.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (model.User, error)
	Login(ctx context.Context, email, password string) (model.AccessToken, error)
}

// Auth serves the /api/user routes.
type Auth struct {
	service AuthService
	logger  *logger.Logger
}

func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResult struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type signupResponse struct {
	Message string       `json:"message"`
	Result  signupResult `json:"result"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	UserID    uuid.UUID `json:"userId"`
}

// Signup handles POST /api/user/signup.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	user, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, signupResponse{
		Message: "User created!",
		Result:  signupResult{ID: user.ID, Email: user.Email},
	})
}

// Login handles POST /api/user/login. ExpiresIn is in seconds.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, loginResponse{
		Token:     token.Token,
		ExpiresIn: int64(token.ExpiresIn.Seconds()),
		UserID:    token.UserID,
	})
}

const maxCredentialsBytes = 1 << 16

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxCredentialsBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return credentialsRequest{}, fmt.Errorf("%w: malformed request body", model.ErrInvalidInput)
	}

	return req, nil
}
