package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/internal/assets"
	"github.com/pageza/recipefinder/backend/internal/service"
	"github.com/pageza/recipefinder/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	return &config.Config{
		CORS:       config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		RateLimit:  config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Hour},
		Pagination: config.PaginationConfig{DefaultPerPage: 12, MaxPerPage: 48},
	}
}

func setupTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupSQLiteDB(t, true)
	return SetupRouter(Dependencies{
		Config:   cfg,
		DB:       db,
		Recipes:  service.NewRecipeService(db),
		Resolver: assets.NewStaticResolver("/"),
	})
}

func do(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = false
	r := setupTestRouter(t, cfg)

	tests := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/recipes", http.StatusOK},
		{http.MethodGet, "/api/v1/recipes/avocado-toast", http.StatusOK},
		{http.MethodGet, "/api/v1/recipes/avocado-toast/related", http.StatusOK},
		{http.MethodGet, "/api/v1/recipes/missing", http.StatusNotFound},
		{http.MethodGet, "/api/v2/recipes", http.StatusNotFound},
		{http.MethodPost, "/api/v1/recipes", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/v1/recipes/avocado-toast", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := do(r, tt.method, tt.target)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupTestRouter(t, testConfig())

	do(r, http.MethodGet, "/api/v1/recipes/avocado-toast")
	w := do(r, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "recipefinder_http_requests_total"))
	assert.Contains(t, body, `route="/api/v1/recipes/:slug"`)
}

func TestRateLimitAppliesToAPIOnly(t *testing.T) {
	r := setupTestRouter(t, testConfig())

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/recipes").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/recipes").Code)
	w := do(r, http.MethodGet, "/api/v1/recipes")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health").Code)
}
