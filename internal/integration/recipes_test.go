package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/data"
	"github.com/pageza/recipefinder/backend/internal/assets"
	"github.com/pageza/recipefinder/backend/internal/model"
	"github.com/pageza/recipefinder/backend/internal/router"
	"github.com/pageza/recipefinder/backend/internal/seed"
	"github.com/pageza/recipefinder/backend/internal/service"
	"github.com/pageza/recipefinder/backend/internal/testhelpers"
	"github.com/pageza/recipefinder/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// These tests run the full stack against postgres and redis containers and
// are skipped when docker is unavailable.

func setupStack(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupPostgresDB(t, true)
	redisClient := testhelpers.SetupRedis(t)

	cfg := &config.Config{
		CORS:       config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		RateLimit:  config.RateLimitConfig{Enabled: true, Requests: 100, Window: time.Hour},
		Pagination: config.PaginationConfig{DefaultPerPage: 12, MaxPerPage: 48},
	}

	engine := router.SetupRouter(router.Dependencies{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Recipes:  service.NewRecipeService(db),
		Resolver: assets.NewStaticResolver("https://cdn.example.com"),
	})
	return engine, db
}

func getJSON(t *testing.T, engine *gin.Engine, target string, out interface{}) int {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func titles(recipes []types.RecipeSummary) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Title
	}
	return out
}

func TestPostgresListAndSearch(t *testing.T) {
	engine, _ := setupStack(t)

	var all types.RecipeListResponse
	require.Equal(t, http.StatusOK, getJSON(t, engine, "/api/v1/recipes", &all))
	assert.Equal(t, int64(8), all.Total)
	assert.Equal(t, "Avocado Toast", all.Recipes[0].Title)
	assert.Equal(t, "https://cdn.example.com/assets/images/avocado-toast-small.webp", all.Recipes[0].Image.Small)

	var avocado types.RecipeListResponse
	require.Equal(t, http.StatusOK, getJSON(t, engine, "/api/v1/recipes?searchTerm=avocado", &avocado))
	assert.Equal(t, []string{"Avocado Toast", "Sweet Potato Black Bean Tacos"}, titles(avocado.Recipes))

	var exact types.RecipeListResponse
	require.Equal(t, http.StatusOK, getJSON(t, engine, "/api/v1/recipes?searchTerm=honey", &exact))
	assert.Empty(t, exact.Recipes, "ingredient search matches whole elements only")

	var quick types.RecipeListResponse
	require.Equal(t, http.StatusOK, getJSON(t, engine, "/api/v1/recipes?maxPrepTime=5&maxCookTime=0", &quick))
	assert.Equal(t, []string{"Avocado Toast", "Greek Yogurt Berry Parfait"}, titles(quick.Recipes))
}

func TestPostgresTitleMatchAndOrder(t *testing.T) {
	engine, db := setupStack(t)
	for _, r := range []model.Recipe{
		{Title: "apple crumble", Slug: "apple-crumble"},
		{Title: "Éclair Royale", Slug: "eclair-royale"},
	} {
		r.ImageLarge, r.ImageSmall = "l.webp", "s.webp"
		testhelpers.InsertRecipe(t, db, r)
	}

	var eclair types.RecipeListResponse
	require.Equal(t, http.StatusOK, getJSON(t, engine, "/api/v1/recipes?searchTerm=%C3%89clair", &eclair))
	assert.Equal(t, []string{"Éclair Royale"}, titles(eclair.Recipes))

	var royale types.RecipeListResponse
	require.Equal(t, http.StatusOK, getJSON(t, engine, "/api/v1/recipes?searchTerm=ROYALE", &royale))
	assert.Equal(t, []string{"Éclair Royale"}, titles(royale.Recipes))

	var all types.RecipeListResponse
	require.Equal(t, http.StatusOK, getJSON(t, engine, "/api/v1/recipes", &all))
	got := titles(all.Recipes)
	require.Len(t, got, 10)
	assert.Equal(t, []string{"apple crumble", "Éclair Royale"}, got[8:], "titles sort by byte value")
}

func TestPostgresDetailAndRelated(t *testing.T) {
	engine, _ := setupStack(t)

	var detail types.RecipeResponse
	require.Equal(t, http.StatusOK, getJSON(t, engine, "/api/v1/recipes/lentil-and-spinach-soup", &detail))
	assert.Equal(t, 30, detail.Recipe.TotalMinutes)
	assert.Contains(t, detail.Recipe.Ingredients, "2 cups spinach")

	assert.Equal(t, http.StatusNotFound, getJSON(t, engine, "/api/v1/recipes/Lentil-And-Spinach-Soup", nil))

	var related types.RelatedRecipesResponse
	require.Equal(t, http.StatusOK, getJSON(t, engine, "/api/v1/recipes/lentil-and-spinach-soup/related?limit=7", &related))
	assert.Len(t, related.Recipes, 7)
	for _, r := range related.Recipes {
		assert.NotEqual(t, "lentil-and-spinach-soup", r.Slug)
	}
}

func TestPostgresSeedIsIdempotent(t *testing.T) {
	_, db := setupStack(t)

	res, err := seed.LoadAndRun(context.Background(), db, data.Recipes)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Skipped: 8}, res)

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(8), count)
}

func TestPostgresHealth(t *testing.T) {
	engine, _ := setupStack(t)
	assert.Equal(t, http.StatusOK, getJSON(t, engine, "/health", nil))
}
