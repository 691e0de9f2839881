package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/recipes-server/internal/model"
)

var _ model.RecipeStore = (*RecipeRepository)(nil)

const recipeColumns = `id, title, description, image_path, owner_id, created_at, updated_at`

type RecipeRepository struct {
	db *Connection
}

func NewRecipeRepository(db *Connection) *RecipeRepository {
	return &RecipeRepository{
		db: db,
	}
}

func scanRecipe(row pgx.Row) (model.Recipe, error) {
	var recipe model.Recipe
	err := row.Scan(
		&recipe.ID, &recipe.Title, &recipe.Description, &recipe.ImagePath,
		&recipe.AuthorizedUser, &recipe.CreatedAt, &recipe.UpdatedAt,
	)
	return recipe, err
}

func (r *RecipeRepository) Create(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	query := `INSERT INTO recipes (id, title, description, image_path, owner_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + recipeColumns

	saved, err := scanRecipe(r.db.QueryRow(ctx, query,
		recipe.ID, recipe.Title, recipe.Description, recipe.ImagePath, recipe.AuthorizedUser,
	))
	if err != nil {
		return model.Recipe{}, fmt.Errorf("failed to create recipe: %w", err)
	}

	return saved, nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`

	recipe, err := scanRecipe(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Recipe{}, model.ErrNotFound
		}
		return model.Recipe{}, fmt.Errorf("failed to get recipe by id: %w", err)
	}

	return recipe, nil
}

func (r *RecipeRepository) List(ctx context.Context) ([]model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]model.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	return recipes, nil
}

// UpdateOwned matches on id and owner in a single statement, so a foreign
// caller can never modify the row. An empty image path keeps the stored one.
func (r *RecipeRepository) UpdateOwned(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	query := `UPDATE recipes
			  SET title = $3, description = $4, image_path = COALESCE(NULLIF($5, ''), image_path), updated_at = NOW()
			  WHERE id = $1 AND owner_id = $2
			  RETURNING ` + recipeColumns

	updated, err := scanRecipe(r.db.QueryRow(ctx, query,
		recipe.ID, recipe.AuthorizedUser, recipe.Title, recipe.Description, recipe.ImagePath,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Recipe{}, model.ErrNotFound
		}
		return model.Recipe{}, fmt.Errorf("failed to update recipe: %w", err)
	}

	return updated, nil
}

func (r *RecipeRepository) DeleteOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	const query = `DELETE FROM recipes WHERE id = $1 AND owner_id = $2`

	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
