package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/recipes-server/internal/model"
)

// RecipeService is a mock of handler.RecipeService.
type RecipeService struct {
	mock.Mock
}

func NewRecipeService(t TestingT) *RecipeService {
	m := &RecipeService{}
	register(&m.Mock, t)
	return m
}

func (m *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, params model.CreateRecipeParams) (model.Recipe, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).(model.Recipe), args.Error(1)
}

func (m *RecipeService) UpdateRecipe(ctx context.Context, userID uuid.UUID, params model.UpdateRecipeParams) (model.Recipe, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).(model.Recipe), args.Error(1)
}

func (m *RecipeService) GetRecipes(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	var recipes []model.Recipe
	if v := args.Get(0); v != nil {
		recipes = v.([]model.Recipe)
	}
	return recipes, args.Error(1)
}

func (m *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID) (model.Recipe, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(model.Recipe), args.Error(1)
}

func (m *RecipeService) DeleteRecipe(ctx context.Context, userID uuid.UUID, recipeID uuid.UUID) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}
