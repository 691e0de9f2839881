package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dtroode/recipes-server/internal/api/rest/response"
	"github.com/dtroode/recipes-server/internal/imagefile"
	"github.com/dtroode/recipes-server/internal/logger"
	"github.com/dtroode/recipes-server/internal/model"
)

// Image serves stored images from whichever storage backend is configured.
type Image struct {
	storage model.Storage
	logger  *logger.Logger
}

func NewImage(storage model.Storage, logger *logger.Logger) *Image {
	return &Image{storage: storage, logger: logger}
}

// Serve handles GET and HEAD /images/{filename}.
func (h *Image) Serve(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	if r.Method == http.MethodHead {
		h.head(w, r, name)
		return
	}

	rc, err := h.storage.Download(r.Context(), name)
	if err != nil {
		h.handleStorageError(w, err)
		return
	}
	defer rc.Close()

	setImageHeaders(w, name)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("Image handler: failed to stream image",
			"image", name,
			"error", err)
	}
}

func (h *Image) head(w http.ResponseWriter, r *http.Request, name string) {
	exists, err := h.storage.Exists(r.Context(), name)
	if err != nil {
		h.handleStorageError(w, err)
		return
	}
	if !exists {
		response.WriteMessage(w, http.StatusNotFound, "Image not found!")
		return
	}

	setImageHeaders(w, name)
	w.WriteHeader(http.StatusOK)
}

func (h *Image) handleStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidInput) {
		response.WriteMessage(w, http.StatusNotFound, "Image not found!")
		return
	}
	handleError(w, h.logger, err)
}

func setImageHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", imagefile.ContentType(name))
	w.Header().Set("Cache-Control", "public, max-age=86400")
}
