// Package seed loads recipe documents into storage. It is the only writer of
// the recipes table.
package seed

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/pageza/recipefinder/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Image holds the two image variants of a document.
type Image struct {
	Large string `json:"large" validate:"required,max=512"`
	Small string `json:"small" validate:"required,max=512"`
}

// Document is one entry of the seed dataset.
type Document struct {
	Title        string   `json:"title" validate:"required,max=255"`
	Slug         string   `json:"slug" validate:"required,max=255,slug"`
	Overview     *string  `json:"overview"`
	Servings     *int     `json:"servings" validate:"omitempty,min=0"`
	PrepMinutes  *int     `json:"prepMinutes" validate:"required,min=0"`
	CookMinutes  *int     `json:"cookMinutes" validate:"required,min=0"`
	Image        Image    `json:"image"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// ToRecipe maps the document onto a storage record.
func (d Document) ToRecipe() model.Recipe {
	servings := 1
	if d.Servings != nil {
		servings = *d.Servings
	}

	r := model.Recipe{
		Title:        d.Title,
		Slug:         d.Slug,
		Overview:     d.Overview,
		Servings:     servings,
		ImageLarge:   d.Image.Large,
		ImageSmall:   d.Image.Small,
		Ingredients:  model.StringList{},
		Instructions: model.StringList{},
	}
	if d.PrepMinutes != nil {
		r.PrepMinutes = *d.PrepMinutes
	}
	if d.CookMinutes != nil {
		r.CookMinutes = *d.CookMinutes
	}
	if d.Ingredients != nil {
		r.Ingredients = append(r.Ingredients, d.Ingredients...)
	}
	if d.Instructions != nil {
		r.Instructions = append(r.Instructions, d.Instructions...)
	}
	return r
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// Parse decodes a JSON array of documents.
func Parse(raw []byte) ([]Document, error) {
	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("invalid recipe JSON: %w", err)
	}
	return docs, nil
}

// Validate checks every document and slug uniqueness across the set.
func Validate(docs []Document) error {
	var problems []error
	seen := make(map[string]int, len(docs))

	for i, d := range docs {
		if err := validate.Struct(d); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return err
			}
			for _, fe := range fieldErrs {
				problems = append(problems, fmt.Errorf("recipe %d (%q): %s failed %q", i, d.Slug, fe.Namespace(), fe.Tag()))
			}
		}
		if first, dup := seen[d.Slug]; dup && d.Slug != "" {
			problems = append(problems, fmt.Errorf("recipe %d: slug %q already used by recipe %d", i, d.Slug, first))
		} else {
			seen[d.Slug] = i
		}
	}

	return errors.Join(problems...)
}

// Result reports what a seeding run did.
type Result struct {
	Inserted int
	Skipped  int
}

// Run validates docs and inserts them in one transaction. Recipes whose slug
// already exists are left untouched, so running twice is harmless.
func Run(ctx context.Context, db *gorm.DB, docs []Document) (Result, error) {
	var res Result
	if err := Validate(docs); err != nil {
		return res, fmt.Errorf("invalid seed data: %w", err)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range docs {
			recipe := d.ToRecipe()
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoNothing: true,
			}).Create(&recipe)
			if result.Error != nil {
				return fmt.Errorf("failed to insert recipe %q: %w", d.Slug, result.Error)
			}
			if result.RowsAffected == 0 {
				res.Skipped++
				continue
			}
			res.Inserted++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logging.Ctx(ctx).Info().
		Int("inserted", res.Inserted).
		Int("skipped", res.Skipped).
		Msg("seeded recipes")
	return res, nil
}

// LoadAndRun parses raw and seeds it.
func LoadAndRun(ctx context.Context, db *gorm.DB, raw []byte) (Result, error) {
	docs, err := Parse(raw)
	if err != nil {
		return Result{}, err
	}
	return Run(ctx, db, docs)
}
