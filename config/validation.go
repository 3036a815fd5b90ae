package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateConfig checks the struct tag rules and the cross-field rules that
// depend on the current environment.
func ValidateConfig(cfg *Config) error {
	var problems []error

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			problems = append(problems, ValidationError{
				Field:   strings.TrimPrefix(fe.Namespace(), "Config."),
				Message: describe(fe),
			})
		}
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.DSN == "" && cfg.Database.Host == "" {
		problems = append(problems, ValidationError{
			Field:   "Database.Host",
			Message: "postgres requires a DSN or a host",
		})
	}

	if GetEnvironment() == Production && cfg.Database.Driver != "postgres" {
		problems = append(problems, ValidationError{
			Field:   "Database.Driver",
			Message: "production requires the postgres driver",
		})
	}

	if cfg.Pagination.DefaultPerPage > cfg.Pagination.MaxPerPage {
		problems = append(problems, ValidationError{
			Field:   "Pagination.DefaultPerPage",
			Message: fmt.Sprintf("must not exceed max_per_page (%d)", cfg.Pagination.MaxPerPage),
		})
	}

	return errors.Join(problems...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
