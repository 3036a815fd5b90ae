package service

import (
	"context"

	"github.com/pageza/recipefinder/backend/internal/model"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, criteria Criteria, page, pageSize int) (*RecipePage, error)
	RelatedRecipes(ctx context.Context, excludeID uint, limit int) ([]model.Recipe, error)
	GetRecipeBySlug(ctx context.Context, slug string) (*model.Recipe, error)
}

var _ IRecipeService = (*RecipeService)(nil)
