package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/internal/assets"
	"github.com/pageza/recipefinder/backend/internal/service"
	"github.com/pageza/recipefinder/backend/internal/types"
)

// RecipeHandler serves the read-only recipe endpoints.
type RecipeHandler struct {
	service    service.IRecipeService
	resolver   assets.URLResolver
	pagination config.PaginationConfig
}

func NewRecipeHandler(svc service.IRecipeService, resolver assets.URLResolver, pagination config.PaginationConfig) *RecipeHandler {
	if pagination.DefaultPerPage <= 0 {
		pagination.DefaultPerPage = service.DefaultPageSize
	}
	if pagination.MaxPerPage <= 0 {
		pagination.MaxPerPage = service.MaxPageSize
	}
	return &RecipeHandler{
		service:    svc,
		resolver:   resolver,
		pagination: pagination,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:slug", h.GetRecipe)
		recipes.GET("/:slug/related", h.RelatedRecipes)
	}
}

// ListRecipes handles GET /recipes.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params, err := parseListParams(c.Request.URL.Query(), h.pagination)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	page, err := h.service.ListRecipes(ctx, params.criteria, params.page, params.perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	summaries, err := types.NewRecipeSummaries(ctx, page.Recipes, h.resolver)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.RecipeListResponse{
		Recipes:    summaries,
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PageSize,
		TotalPages: page.TotalPages(),
		Filters:    filtersOf(params),
		Links:      buildLinks(c.Request.URL.Path, params, h.pagination.DefaultPerPage, page.TotalPages()),
	})
}

// GetRecipe handles GET /recipes/:slug.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	ctx := c.Request.Context()

	recipe, err := h.service.GetRecipeBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := types.NewRecipeDetail(ctx, *recipe, h.resolver)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.RecipeResponse{Recipe: detail})
}

// RelatedRecipes handles GET /recipes/:slug/related.
func (h *RecipeHandler) RelatedRecipes(c *gin.Context) {
	limit, err := optionalInt(c.Request.URL.Query(), paramLimit, 1, service.MaxRelatedLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.service.GetRecipeBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	n := 0
	if limit != nil {
		n = *limit
	}
	related, err := h.service.RelatedRecipes(ctx, recipe.ID, n)
	if err != nil {
		respondError(c, err)
		return
	}

	summaries, err := types.NewRecipeSummaries(ctx, related, h.resolver)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.RelatedRecipesResponse{Recipes: summaries})
}
