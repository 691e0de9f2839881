package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dtroode/recipes-server/internal/api/rest/response"
	"github.com/dtroode/recipes-server/internal/imagefile"
	"github.com/dtroode/recipes-server/internal/logger"
	"github.com/dtroode/recipes-server/internal/model"
)

const (
	imageField          = "image"
	multipartMemorySize = 1 << 20
)

// RecipeService is what the recipe handler needs from the service layer.
type RecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, params model.CreateRecipeParams) (model.Recipe, error)
	UpdateRecipe(ctx context.Context, userID uuid.UUID, params model.UpdateRecipeParams) (model.Recipe, error)
	GetRecipes(ctx context.Context) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, recipeID uuid.UUID) (model.Recipe, error)
	DeleteRecipe(ctx context.Context, userID uuid.UUID, recipeID uuid.UUID) error
}

// Recipe serves the /api/recipes routes.
type Recipe struct {
	service        RecipeService
	contextManager model.ContextManager
	logger         *logger.Logger
	maxUploadBytes int64
	trustProxy     bool
}

func NewRecipe(
	service RecipeService,
	contextManager model.ContextManager,
	logger *logger.Logger,
	maxUploadBytes int64,
	trustProxy bool,
) *Recipe {
	return &Recipe{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		trustProxy:     trustProxy,
	}
}

type recipeResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ImagePath      string    `json:"imagePath"`
	AuthorizedUser uuid.UUID `json:"authorizedUser"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newRecipeResponse(r model.Recipe) recipeResponse {
	return recipeResponse{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		ImagePath:      r.ImagePath,
		AuthorizedUser: r.AuthorizedUser,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type recipeEnvelope struct {
	Message string         `json:"message"`
	Recipe  recipeResponse `json:"recipe"`
}

type recipesEnvelope struct {
	Message string           `json:"message"`
	Recipes []recipeResponse `json:"recipes"`
}

// recipeForm is a decoded create or update body.
type recipeForm struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImagePath   string `json:"imagePath"`
	image       *model.ImageFile
	file        multipart.File
}

func (f *recipeForm) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

// Create handles POST /api/recipes.
func (h *Recipe) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.WriteMessage(w, http.StatusUnauthorized, "You are not authenticated!")
		return
	}

	form, err := h.parseForm(w, r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	defer form.close()

	recipe, err := h.service.CreateRecipe(r.Context(), userID, model.CreateRecipeParams{
		Title:       form.Title,
		Description: form.Description,
		Image:       form.image,
		BaseURL:     h.baseURL(r),
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, recipeEnvelope{
		Message: "Recipe added successfully!",
		Recipe:  newRecipeResponse(recipe),
	})
}

// Update handles PUT /api/recipes/{id}.
func (h *Recipe) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.WriteMessage(w, http.StatusUnauthorized, "You are not authenticated!")
		return
	}

	recipeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handleError(w, h.logger, model.ErrNotAuthorized)
		return
	}

	form, err := h.parseForm(w, r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	defer form.close()

	if form.ID != "" {
		bodyID, err := uuid.Parse(form.ID)
		if err != nil || bodyID != recipeID {
			handleError(w, h.logger, fmt.Errorf("%w: id in body does not match path", model.ErrInvalidInput))
			return
		}
	}

	recipe, err := h.service.UpdateRecipe(r.Context(), userID, model.UpdateRecipeParams{
		ID:          recipeID,
		Title:       form.Title,
		Description: form.Description,
		ImagePath:   form.ImagePath,
		Image:       form.image,
		BaseURL:     h.baseURL(r),
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, recipeEnvelope{
		Message: "Update successful!",
		Recipe:  newRecipeResponse(recipe),
	})
}

// List handles GET /api/recipes.
func (h *Recipe) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.GetRecipes(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	out := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, newRecipeResponse(recipe))
	}

	response.JSON(w, http.StatusOK, recipesEnvelope{
		Message: "Recipes fetched successfully!",
		Recipes: out,
	})
}

// Get handles GET /api/recipes/{id}.
func (h *Recipe) Get(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handleError(w, h.logger, model.ErrNotFound)
		return
	}

	recipe, err := h.service.GetRecipe(r.Context(), recipeID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, newRecipeResponse(recipe))
}

// Delete handles DELETE /api/recipes/{id}.
func (h *Recipe) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		response.WriteMessage(w, http.StatusUnauthorized, "You are not authenticated!")
		return
	}

	recipeID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handleError(w, h.logger, model.ErrNotAuthorized)
		return
	}

	if err := h.service.DeleteRecipe(r.Context(), userID, recipeID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	response.WriteMessage(w, http.StatusOK, "Delete successful!")
}

// parseForm reads a multipart, JSON or urlencoded body. An attached image with
// a MIME type outside the allow-list fails with ErrInvalidMimeType.
func (h *Recipe) parseForm(w http.ResponseWriter, r *http.Request) (*recipeForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	form := &recipeForm{}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemorySize); err != nil {
			return nil, bodyError(err)
		}
		form.fill(r)

		file, header, err := r.FormFile(imageField)
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil
		}
		if err != nil {
			return nil, bodyError(err)
		}

		contentType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
		if err != nil || !imagefile.Allowed(contentType) {
			_ = file.Close()
			return nil, model.ErrInvalidMimeType
		}

		form.file = file
		form.image = &model.ImageFile{
			Name:        header.Filename,
			ContentType: contentType,
			Reader:      file,
		}
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(form); err != nil {
			return nil, bodyError(err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		form.fill(r)
	}

	return form, nil
}

func (f *recipeForm) fill(r *http.Request) {
	f.ID = r.FormValue("id")
	f.Title = r.FormValue("title")
	f.Description = r.FormValue("description")
	f.ImagePath = r.FormValue("imagePath")
}

func bodyError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: malformed request body: %v", model.ErrInvalidInput, err)
}

// baseURL returns scheme://host of the request. Forwarded headers are only
// honored when the server runs behind a trusted proxy.
func (h *Recipe) baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if h.trustProxy {
		if proto := firstHeaderValue(r, "X-Forwarded-Proto"); proto != "" {
			scheme = strings.ToLower(proto)
		}
		if fwdHost := firstHeaderValue(r, "X-Forwarded-Host"); fwdHost != "" {
			host = fwdHost
		}
	}

	return scheme + "://" + host
}

func firstHeaderValue(r *http.Request, name string) string {
	value, _, _ := strings.Cut(r.Header.Get(name), ",")
	return strings.TrimSpace(value)
}
