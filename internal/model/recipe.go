package model

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// RecipeStore defines persistence operations for recipes.
type RecipeStore interface {
	Create(ctx context.Context, recipe Recipe) (Recipe, error)
	GetByID(ctx context.Context, id uuid.UUID) (Recipe, error)
	List(ctx context.Context) ([]Recipe, error)
	// UpdateOwned rewrites title, description and image path of the recipe
	// matching both recipe.ID and recipe.AuthorizedUser. An empty ImagePath keeps
	// the stored one. It returns ErrNotFound when nothing matched.
	UpdateOwned(ctx context.Context, recipe Recipe) (Recipe, error)
	// DeleteOwned removes the recipe matching both id and ownerID. It returns
	// ErrNotFound when nothing matched.
	DeleteOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

// Recipe represents a stored recipe.
type Recipe struct {
	ID             uuid.UUID
	Title          string
	Description    string
	ImagePath      string
	AuthorizedUser uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ImageFile is an uploaded image as received from the client.
type ImageFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// CreateRecipeParams contains parameters to create a recipe.
type CreateRecipeParams struct {
	Title       string
	Description string
	Image       *ImageFile
	// BaseURL is scheme://host of the incoming request, used to build image URLs.
	BaseURL string
}

// UpdateRecipeParams contains parameters to update a recipe.
type UpdateRecipeParams struct {
	ID          uuid.UUID
	Title       string
	Description string
	// ImagePath is kept as is when Image is nil. Empty keeps the stored path.
	ImagePath string
	Image     *ImageFile
	BaseURL   string
}
