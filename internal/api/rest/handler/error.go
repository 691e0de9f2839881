package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/recipes-server/internal/api/rest/response"
	"github.com/dtroode/recipes-server/internal/logger"
	"github.com/dtroode/recipes-server/internal/model"
)

func handleError(w http.ResponseWriter, log *logger.Logger, err error) {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, model.ErrInvalidMimeType):
		response.WriteMessage(w, http.StatusBadRequest, "Invalid mime type!")
	case errors.Is(err, model.ErrInvalidInput):
		response.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &maxBytesErr):
		response.WriteMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, model.ErrNotAuthorized):
		response.WriteMessage(w, http.StatusUnauthorized, "Not authorized!")
	case errors.Is(err, model.ErrInvalidCredentials):
		response.WriteMessage(w, http.StatusUnauthorized, "Auth failed")
	case errors.Is(err, model.ErrNotFound):
		response.WriteMessage(w, http.StatusNotFound, "Recipe not found!")
	case errors.Is(err, model.ErrEmailTaken):
		response.WriteMessage(w, http.StatusConflict, "Email is already taken!")
	default:
		log.Error("HTTP handler: internal error", "error", err)
		response.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
