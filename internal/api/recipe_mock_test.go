package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/pageza/recipefinder/backend/internal/mocks"
	"github.com/pageza/recipefinder/backend/internal/model"
	"github.com/pageza/recipefinder/backend/internal/service"
	"github.com/pageza/recipefinder/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListRecipesPassesCriteria(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	router := setupRecipeTestRouter(t, svc)

	svc.On("ListRecipes", mock.Anything, mock.MatchedBy(func(c service.Criteria) bool {
		return c.SearchTerm == "tofu" &&
			c.MaxPrepMinutes != nil && *c.MaxPrepMinutes == 10 &&
			c.MaxCookMinutes == nil
	}), 1, 12).Return(&service.RecipePage{Recipes: []model.Recipe{}, Page: 1, PageSize: 12}, nil)

	w := get(t, router, "/api/v1/recipes?searchTerm=%20tofu%20&maxPrepTime=10")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListRecipesStorageFailure(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	router := setupRecipeTestRouter(t, svc)

	svc.On("ListRecipes", mock.Anything, mock.Anything, 1, 12).Return(nil, errors.New("connection refused"))

	w := get(t, router, "/api/v1/recipes")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestListRecipesServiceValidationError(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	router := setupRecipeTestRouter(t, svc)

	svc.On("ListRecipes", mock.Anything, mock.Anything, 1, 12).
		Return(nil, &service.ValidationError{Field: "perPage", Message: "must be between 1 and 100"})

	w := get(t, router, "/api/v1/recipes")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "perPage", decode[types.ErrorResponse](t, w).Field)
}

func TestGetRecipeStorageFailure(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	router := setupRecipeTestRouter(t, svc)

	svc.On("GetRecipeBySlug", mock.Anything, "avocado-toast").Return(nil, errors.New("disk I/O error"))

	w := get(t, router, "/api/v1/recipes/avocado-toast")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRelatedRecipesUsesRecipeID(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	router := setupRecipeTestRouter(t, svc)

	svc.On("GetRecipeBySlug", mock.Anything, "soup").Return(&model.Recipe{ID: 42, Slug: "soup"}, nil)
	svc.On("RelatedRecipes", mock.Anything, uint(42), 0).Return([]model.Recipe{{ID: 7, Title: "Stew", Slug: "stew"}}, nil)

	w := get(t, router, "/api/v1/recipes/soup/related")
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[types.RelatedRecipesResponse](t, w)
	assert.Equal(t, []string{"Stew"}, summaryTitles(resp.Recipes))
	svc.AssertExpectations(t)
}
