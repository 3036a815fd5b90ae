package mocks

import (
	"context"

	"github.com/pageza/recipefinder/backend/internal/model"
	"github.com/pageza/recipefinder/backend/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

// ListRecipes mocks the ListRecipes method
func (m *MockRecipeService) ListRecipes(ctx context.Context, criteria service.Criteria, page, pageSize int) (*service.RecipePage, error) {
	args := m.Called(ctx, criteria, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipePage), args.Error(1)
}

// RelatedRecipes mocks the RelatedRecipes method
func (m *MockRecipeService) RelatedRecipes(ctx context.Context, excludeID uint, limit int) ([]model.Recipe, error) {
	args := m.Called(ctx, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// GetRecipeBySlug mocks the GetRecipeBySlug method
func (m *MockRecipeService) GetRecipeBySlug(ctx context.Context, slug string) (*model.Recipe, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}
