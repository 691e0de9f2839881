package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/recipes-server/internal/imagefile"
	"github.com/dtroode/recipes-server/internal/logger"
	"github.com/dtroode/recipes-server/internal/model"
)

const (
	maxTitleLength = 255
	// ImagesPathPrefix is the URL path uploaded images are served under.
	ImagesPathPrefix = "/images/"
)

// ImageProcessor transforms an uploaded image before it is stored.
type ImageProcessor interface {
	Process(contentType string, src io.Reader) (io.Reader, error)
}

type Recipe struct {
	recipeStore model.RecipeStore
	userStore   model.UserStore
	storage     model.Storage
	processor   ImageProcessor
	logger      *logger.Logger
	now         func() time.Time
}

func NewRecipe(
	recipeStore model.RecipeStore,
	userStore model.UserStore,
	storage model.Storage,
	processor ImageProcessor,
	logger *logger.Logger,
) *Recipe {
	return &Recipe{
		recipeStore: recipeStore,
		userStore:   userStore,
		storage:     storage,
		processor:   processor,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateRecipe stores the optional image and persists a recipe owned by userID.
func (s *Recipe) CreateRecipe(ctx context.Context, userID uuid.UUID, params model.CreateRecipeParams) (model.Recipe, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return model.Recipe{}, err
	}

	title, description, err := validateContent(params.Title, params.Description)
	if err != nil {
		return model.Recipe{}, err
	}

	var imageKey, imagePath string
	if params.Image != nil {
		imageKey, imagePath, err = s.storeImage(ctx, params.BaseURL, params.Image)
		if err != nil {
			return model.Recipe{}, fmt.Errorf("failed to store image: %w", err)
		}
	}

	recipe := model.Recipe{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		ImagePath:      imagePath,
		AuthorizedUser: userID,
	}

	saved, err := s.recipeStore.Create(ctx, recipe)
	if err != nil {
		s.discardImage(ctx, imageKey)
		return model.Recipe{}, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.logger.Info("Recipe service: recipe created",
		"recipe_id", saved.ID,
		"user_id", userID,
		"has_image", imageKey != "")

	return saved, nil
}

// UpdateRecipe rewrites a recipe owned by userID. Missing and foreign recipes
// both yield ErrNotAuthorized.
func (s *Recipe) UpdateRecipe(ctx context.Context, userID uuid.UUID, params model.UpdateRecipeParams) (model.Recipe, error) {
	if params.ID == uuid.Nil {
		return model.Recipe{}, model.ErrNotAuthorized
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return model.Recipe{}, err
	}

	title, description, err := validateContent(params.Title, params.Description)
	if err != nil {
		return model.Recipe{}, err
	}

	var imageKey string
	imagePath := params.ImagePath
	if params.Image != nil {
		imageKey, imagePath, err = s.storeImage(ctx, params.BaseURL, params.Image)
		if err != nil {
			return model.Recipe{}, fmt.Errorf("failed to store image: %w", err)
		}
	}

	updated, err := s.recipeStore.UpdateOwned(ctx, model.Recipe{
		ID:             params.ID,
		Title:          title,
		Description:    description,
		ImagePath:      imagePath,
		AuthorizedUser: userID,
	})
	if err != nil {
		s.discardImage(ctx, imageKey)
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Recipe service: update rejected",
				"recipe_id", params.ID,
				"user_id", userID)
			return model.Recipe{}, model.ErrNotAuthorized
		}
		return model.Recipe{}, fmt.Errorf("failed to update recipe: %w", err)
	}

	s.logger.Info("Recipe service: recipe updated",
		"recipe_id", updated.ID,
		"user_id", userID,
		"new_image", imageKey != "")

	return updated, nil
}

func (s *Recipe) GetRecipes(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.recipeStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	return recipes, nil
}

func (s *Recipe) GetRecipe(ctx context.Context, recipeID uuid.UUID) (model.Recipe, error) {
	recipe, err := s.recipeStore.GetByID(ctx, recipeID)
	if err != nil {
		return model.Recipe{}, fmt.Errorf("failed to get recipe by id: %w", err)
	}

	return recipe, nil
}

// DeleteRecipe removes a recipe owned by userID. Missing and foreign recipes
// both yield ErrNotAuthorized.
func (s *Recipe) DeleteRecipe(ctx context.Context, userID uuid.UUID, recipeID uuid.UUID) error {
	if userID == uuid.Nil || recipeID == uuid.Nil {
		return model.ErrNotAuthorized
	}

	if err := s.recipeStore.DeleteOwned(ctx, recipeID, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Recipe service: delete rejected",
				"recipe_id", recipeID,
				"user_id", userID)
			return model.ErrNotAuthorized
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.logger.Info("Recipe service: recipe deleted",
		"recipe_id", recipeID,
		"user_id", userID)

	return nil
}

// checkUser makes sure the token owner still exists.
func (s *Recipe) checkUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return model.ErrNotAuthorized
	}

	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Recipe service: unknown user", "user_id", userID)
			return model.ErrNotAuthorized
		}
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	return nil
}

func (s *Recipe) storeImage(ctx context.Context, baseURL string, image *model.ImageFile) (string, string, error) {
	key := imagefile.FileName(image.Name, image.ContentType, s.now())
	if key == "" {
		return "", "", model.ErrInvalidMimeType
	}

	reader, err := s.processor.Process(image.ContentType, image.Reader)
	if err != nil {
		return "", "", fmt.Errorf("failed to process image: %w", err)
	}

	if err := s.storage.Upload(ctx, key, reader); err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	return key, strings.TrimRight(baseURL, "/") + ImagesPathPrefix + key, nil
}

// discardImage removes an image stored earlier in a request that then failed.
func (s *Recipe) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}

	if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Error("Recipe service: failed to delete orphaned image",
			"image", key,
			"error", err)
	}
}

func validateContent(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return "", "", fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", "", fmt.Errorf("%w: title too long (max %d characters)", model.ErrInvalidInput, maxTitleLength)
	}
	if description == "" {
		return "", "", fmt.Errorf("%w: description is required", model.ErrInvalidInput)
	}

	return title, description, nil
}
