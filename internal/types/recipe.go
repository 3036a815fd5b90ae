package types

import (
	"context"
	"time"

	"github.com/pageza/recipefinder/backend/internal/assets"
	"github.com/pageza/recipefinder/backend/internal/model"
)

// Image holds the resolved image URLs of a recipe.
type Image struct {
	Large string `json:"large"`
	Small string `json:"small"`
}

// RecipeSummary is the list representation of a recipe.
type RecipeSummary struct {
	ID              uint    `json:"id"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Overview        *string `json:"overview"`
	Servings        int     `json:"servings"`
	PrepMinutes     int     `json:"prep_minutes"`
	CookMinutes     int     `json:"cook_minutes"`
	TotalMinutes    int     `json:"total_minutes"`
	IngredientCount int     `json:"ingredient_count"`
	Image           Image   `json:"image"`
}

// RecipeDetail adds the full ingredient and instruction lists.
type RecipeDetail struct {
	RecipeSummary
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filters echoes the criteria a listing was produced with. Unset criteria
// are omitted.
type Filters struct {
	SearchTerm  string `json:"searchTerm,omitempty"`
	MaxPrepTime *int   `json:"maxPrepTime,omitempty"`
	MaxCookTime *int   `json:"maxCookTime,omitempty"`
}

// Links are shareable URLs for navigating a listing. Prev and Next are null
// at the edges.
type Links struct {
	Self         string  `json:"self"`
	First        string  `json:"first"`
	Last         string  `json:"last"`
	Prev         *string `json:"prev"`
	Next         *string `json:"next"`
	ClearFilters string  `json:"clear_filters"`
}

type RecipeListResponse struct {
	Recipes    []RecipeSummary `json:"recipes"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
	Filters    Filters         `json:"filters"`
	Links      Links           `json:"links"`
}

type RecipeResponse struct {
	Recipe RecipeDetail `json:"recipe"`
}

type RelatedRecipesResponse struct {
	Recipes []RecipeSummary `json:"recipes"`
}

// ErrorResponse is the body of every non-2xx reply. Field names the offending
// query parameter for validation failures.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// NewRecipeSummary converts a stored recipe, resolving its image paths.
func NewRecipeSummary(ctx context.Context, r model.Recipe, resolver assets.URLResolver) (RecipeSummary, error) {
	large, err := resolver.Resolve(ctx, r.ImageLarge)
	if err != nil {
		return RecipeSummary{}, err
	}
	small, err := resolver.Resolve(ctx, r.ImageSmall)
	if err != nil {
		return RecipeSummary{}, err
	}

	return RecipeSummary{
		ID:              r.ID,
		Title:           r.Title,
		Slug:            r.Slug,
		Overview:        r.Overview,
		Servings:        r.Servings,
		PrepMinutes:     r.PrepMinutes,
		CookMinutes:     r.CookMinutes,
		TotalMinutes:    r.TotalMinutes(),
		IngredientCount: r.IngredientCount(),
		Image:           Image{Large: large, Small: small},
	}, nil
}

// NewRecipeSummaries converts a slice. The result is never nil.
func NewRecipeSummaries(ctx context.Context, recipes []model.Recipe, resolver assets.URLResolver) ([]RecipeSummary, error) {
	out := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		s, err := NewRecipeSummary(ctx, r, resolver)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func NewRecipeDetail(ctx context.Context, r model.Recipe, resolver assets.URLResolver) (RecipeDetail, error) {
	summary, err := NewRecipeSummary(ctx, r, resolver)
	if err != nil {
		return RecipeDetail{}, err
	}

	ingredients := []string(r.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}
	instructions := []string(r.Instructions)
	if instructions == nil {
		instructions = []string{}
	}

	return RecipeDetail{
		RecipeSummary: summary,
		Ingredients:   ingredients,
		Instructions:  instructions,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}
