package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// StringList is an ordered list of strings stored as a JSON array. It never
// writes NULL and scans NULL as an empty list.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	*l = items
	return nil
}

// Recipe is a single dish. Rows are written by the seeder only.
type Recipe struct {
	ID           uint       `gorm:"primaryKey"`
	Title        string     `gorm:"size:255;not null"`
	Slug         string     `gorm:"size:255;not null;uniqueIndex"`
	Overview     *string    `gorm:"type:text"`
	Servings     int        `gorm:"not null"`
	PrepMinutes  int        `gorm:"not null;index"`
	CookMinutes  int        `gorm:"not null;index"`
	ImageLarge   string     `gorm:"size:512;not null"`
	ImageSmall   string     `gorm:"size:512;not null"`
	Ingredients  StringList `gorm:"not null"`
	Instructions StringList `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TotalMinutes is prep plus cook time.
func (r Recipe) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}

// IngredientCount is the number of ingredient lines.
func (r Recipe) IngredientCount() int {
	return len(r.Ingredients)
}
