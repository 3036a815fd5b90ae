package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/pageza/recipefinder/backend/internal/metrics"
	"github.com/pageza/recipefinder/backend/internal/model"
	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when a caller passes a page size of zero.
	DefaultPageSize = 12
	// MaxPageSize is the largest page ListRecipes will return.
	MaxPageSize = 100

	// DefaultRelatedLimit is used when RelatedRecipes gets a limit of zero or less.
	DefaultRelatedLimit = 3
	// MaxRelatedLimit caps the related sample size.
	MaxRelatedLimit = 12
)

// RandomSource draws the sample for related recipes.
type RandomSource interface {
	// Perm returns a pseudo-random permutation of [0, n).
	Perm(n int) []int
}

type globalRand struct{}

func (globalRand) Perm(n int) []int { return rand.Perm(n) }

// RecipeServiceOption configures a RecipeService.
type RecipeServiceOption func(*RecipeService)

// WithRandomSource replaces the source used to sample related recipes.
func WithRandomSource(src RandomSource) RecipeServiceOption {
	return func(s *RecipeService) {
		if src != nil {
			s.random = src
		}
	}
}

// RecipeService answers read-only recipe queries. It keeps no state between
// calls and is safe for concurrent use.
type RecipeService struct {
	db     *gorm.DB
	random RandomSource
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, opts ...RecipeServiceOption) *RecipeService {
	s := &RecipeService{
		db:     db,
		random: globalRand{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecipePage is one page of a filtered listing.
type RecipePage struct {
	Recipes  []model.Recipe
	Total    int64
	Page     int
	PageSize int
}

// TotalPages is the number of pages the full result spans.
func (p *RecipePage) TotalPages() int {
	if p.Total == 0 || p.PageSize <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// HasNext reports whether a later page holds results.
func (p *RecipePage) HasNext() bool { return p.Page < p.TotalPages() }

// HasPrevious reports whether this is not the first page.
func (p *RecipePage) HasPrevious() bool { return p.Page > 1 }

// ListRecipes returns the recipes satisfying every set criterion, ordered by
// title then id. A page past the end is empty but still reports the total.
func (s *RecipeService) ListRecipes(ctx context.Context, criteria Criteria, page, pageSize int) (*RecipePage, error) {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return nil, invalid("page", "must be at least 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, invalid("perPage", "must be between 1 and %d", MaxPageSize)
	}
	if err := criteria.validate(); err != nil {
		return nil, err
	}

	dialect := s.db.Dialector.Name()
	preds := scopes(criteria.Predicates(dialect))

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Scopes(preds...).Count(&total).Error; err != nil {
		metrics.RecipeQueryErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	recipes := []model.Recipe{}
	result := &RecipePage{
		Recipes:  recipes,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	// Checked in int64 so a huge page never reaches the offset arithmetic.
	if int64(page-1) >= (total+int64(pageSize)-1)/int64(pageSize) {
		metrics.RecipeListResults.Observe(0)
		return result, nil
	}

	err := s.db.WithContext(ctx).
		Scopes(preds...).
		Order(titleOrder(dialect)).
		Order("recipes.id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&recipes).Error
	if err != nil {
		metrics.RecipeQueryErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	metrics.RecipeListResults.Observe(float64(len(recipes)))

	result.Recipes = recipes
	return result, nil
}

// titleOrder sorts titles by byte value on every dialect. SQLite compares
// with BINARY by default; postgres needs the C collation to do the same.
func titleOrder(dialect string) string {
	if dialect == "postgres" {
		return `recipes.title COLLATE "C" ASC`
	}
	return "recipes.title ASC"
}

// RelatedRecipes returns up to limit recipes drawn uniformly at random from
// every recipe except excludeID. A limit of zero or less means
// DefaultRelatedLimit.
func (s *RecipeService) RelatedRecipes(ctx context.Context, excludeID uint, limit int) ([]model.Recipe, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	limit = min(limit, MaxRelatedLimit)

	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("id <> ?", excludeID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		metrics.RecipeQueryErrors.WithLabelValues("related").Inc()
		return nil, fmt.Errorf("failed to load recipe ids: %w", err)
	}

	n := min(limit, len(ids))
	if n == 0 {
		return []model.Recipe{}, nil
	}

	perm := s.random.Perm(len(ids))
	picked := make([]uint, n)
	for i := range picked {
		picked[i] = ids[perm[i]]
	}

	var rows []model.Recipe
	if err := s.db.WithContext(ctx).Where("id IN ?", picked).Find(&rows).Error; err != nil {
		metrics.RecipeQueryErrors.WithLabelValues("related").Inc()
		return nil, fmt.Errorf("failed to load related recipes: %w", err)
	}

	byID := make(map[uint]model.Recipe, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	related := make([]model.Recipe, 0, n)
	for _, id := range picked {
		if r, ok := byID[id]; ok {
			related = append(related, r)
		}
	}
	return related, nil
}

// GetRecipeBySlug returns the recipe whose slug equals slug exactly.
func (s *RecipeService) GetRecipeBySlug(ctx context.Context, slug string) (*model.Recipe, error) {
	if slug == "" {
		metrics.RecipeLookupsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return nil, ErrRecipeNotFound
	}

	var recipe model.Recipe
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Take(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecipeLookupsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		metrics.RecipeQueryErrors.WithLabelValues("find_by_slug").Inc()
		return nil, fmt.Errorf("failed to find recipe %q: %w", slug, err)
	}

	metrics.RecipeLookupsTotal.WithLabelValues(metrics.OutcomeFound).Inc()
	return &recipe, nil
}
