package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/recipes-server/internal/model"
)

// RecipeStore is a mock of model.RecipeStore.
type RecipeStore struct {
	mock.Mock
}

var _ model.RecipeStore = (*RecipeStore)(nil)

func NewRecipeStore(t TestingT) *RecipeStore {
	m := &RecipeStore{}
	register(&m.Mock, t)
	return m
}

func (m *RecipeStore) Create(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	args := m.Called(ctx, recipe)
	return args.Get(0).(model.Recipe), args.Error(1)
}

func (m *RecipeStore) GetByID(ctx context.Context, id uuid.UUID) (model.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Recipe), args.Error(1)
}

func (m *RecipeStore) List(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	var recipes []model.Recipe
	if v := args.Get(0); v != nil {
		recipes = v.([]model.Recipe)
	}
	return recipes, args.Error(1)
}

func (m *RecipeStore) UpdateOwned(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	args := m.Called(ctx, recipe)
	return args.Get(0).(model.Recipe), args.Error(1)
}

func (m *RecipeStore) DeleteOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
