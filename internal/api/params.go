package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/internal/service"
)

// Query parameter names of the list endpoint.
const (
	paramSearchTerm  = "searchTerm"
	paramMaxPrepTime = "maxPrepTime"
	paramMaxCookTime = "maxCookTime"
	paramPage        = "page"
	paramPerPage     = "perPage"
	paramLimit       = "limit"
)

// listParams is a validated list request. A criterion is unset only when its
// key is absent from the query string.
type listParams struct {
	criteria service.Criteria
	page     int
	perPage  int
}

func parseListParams(q url.Values, pagination config.PaginationConfig) (listParams, error) {
	p := listParams{
		criteria: service.Criteria{SearchTerm: strings.TrimSpace(q.Get(paramSearchTerm))},
		page:     1,
		perPage:  pagination.DefaultPerPage,
	}

	var err error
	if p.criteria.MaxPrepMinutes, err = optionalInt(q, paramMaxPrepTime, 0, -1); err != nil {
		return p, err
	}
	if p.criteria.MaxCookMinutes, err = optionalInt(q, paramMaxCookTime, 0, -1); err != nil {
		return p, err
	}

	page, err := optionalInt(q, paramPage, 1, -1)
	if err != nil {
		return p, err
	}
	if page != nil {
		p.page = *page
	}

	perPage, err := optionalInt(q, paramPerPage, 1, pagination.MaxPerPage)
	if err != nil {
		return p, err
	}
	if perPage != nil {
		p.perPage = *perPage
	}

	return p, nil
}

// optionalInt returns nil when key is absent. A present value must be an
// integer of at least lo and, when hi is not negative, at most hi.
func optionalInt(q url.Values, key string, lo, hi int) (*int, error) {
	values, present := q[key]
	if !present {
		return nil, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil || n < lo || (hi >= 0 && n > hi) {
		return nil, &service.ValidationError{Field: key, Message: describeRange(lo, hi)}
	}
	return &n, nil
}

func describeRange(lo, hi int) string {
	switch {
	case hi >= 0:
		return fmt.Sprintf("must be an integer between %d and %d", lo, hi)
	case lo == 0:
		return "must be a non-negative integer"
	default:
		return fmt.Sprintf("must be an integer of at least %d", lo)
	}
}
