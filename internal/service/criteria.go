package service

import (
	"strings"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// Criteria narrows a recipe listing. A nil bound or an empty search term
// leaves that dimension unrestricted; all set criteria must hold together.
type Criteria struct {
	SearchTerm     string
	MaxPrepMinutes *int
	MaxCookMinutes *int
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.SearchTerm) == "" && c.MaxPrepMinutes == nil && c.MaxCookMinutes == nil
}

func (c Criteria) validate() error {
	if c.MaxPrepMinutes != nil && *c.MaxPrepMinutes < 0 {
		return invalid("maxPrepTime", "must not be negative")
	}
	if c.MaxCookMinutes != nil && *c.MaxCookMinutes < 0 {
		return invalid("maxCookTime", "must not be negative")
	}
	return nil
}

// Predicate restricts a recipe query.
type Predicate func(*gorm.DB) *gorm.DB

// Predicates turns the criteria into an ordered list of query scopes for the
// given SQL dialect.
func (c Criteria) Predicates(dialect string) []Predicate {
	var preds []Predicate

	if term := strings.TrimSpace(c.SearchTerm); term != "" {
		preds = append(preds, matchSearchTerm(dialect, term))
	}
	if c.MaxPrepMinutes != nil {
		limit := *c.MaxPrepMinutes
		preds = append(preds, func(db *gorm.DB) *gorm.DB {
			return db.Where("recipes.prep_minutes <= ?", limit)
		})
	}
	if c.MaxCookMinutes != nil {
		limit := *c.MaxCookMinutes
		preds = append(preds, func(db *gorm.DB) *gorm.DB {
			return db.Where("recipes.cook_minutes <= ?", limit)
		})
	}

	return preds
}

// matchSearchTerm admits a recipe whose title contains term ignoring case, or
// whose ingredient list holds an element exactly equal to term. Postgres folds
// case with ILIKE for every letter; SQLite's LIKE folds ASCII letters only, so
// other letters there match in their exact case.
func matchSearchTerm(dialect, term string) Predicate {
	like := "%" + escapeLike(term) + "%"

	return func(db *gorm.DB) *gorm.DB {
		if dialect == "postgres" {
			element, _ := json.Marshal([]string{term})
			return db.Where(
				`(recipes.title ILIKE ? ESCAPE '\' OR recipes.ingredients @> CAST(? AS jsonb))`,
				like, string(element),
			)
		}

		return db.Where(
			`(recipes.title LIKE ? ESCAPE '\' OR EXISTS (SELECT 1 FROM json_each(recipes.ingredients) WHERE json_each.value = ?))`,
			like, term,
		)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scopes(preds []Predicate) []func(*gorm.DB) *gorm.DB {
	out := make([]func(*gorm.DB) *gorm.DB, len(preds))
	for i, p := range preds {
		out[i] = p
	}
	return out
}
