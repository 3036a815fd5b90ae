package api

import (
	"net/url"
	"strconv"

	"github.com/pageza/recipefinder/backend/internal/types"
)

// buildLinks returns navigation URLs that carry the active filters, so any
// filtered page can be shared or bookmarked.
func buildLinks(path string, p listParams, defaultPerPage, totalPages int) types.Links {
	base := url.Values{}
	if p.criteria.SearchTerm != "" {
		base.Set(paramSearchTerm, p.criteria.SearchTerm)
	}
	if p.criteria.MaxPrepMinutes != nil {
		base.Set(paramMaxPrepTime, strconv.Itoa(*p.criteria.MaxPrepMinutes))
	}
	if p.criteria.MaxCookMinutes != nil {
		base.Set(paramMaxCookTime, strconv.Itoa(*p.criteria.MaxCookMinutes))
	}
	if p.perPage != defaultPerPage {
		base.Set(paramPerPage, strconv.Itoa(p.perPage))
	}

	pageURL := func(page int) string {
		q := url.Values{}
		for k, v := range base {
			q[k] = v
		}
		q.Set(paramPage, strconv.Itoa(page))
		return path + "?" + q.Encode()
	}

	last := max(totalPages, 1)
	links := types.Links{
		Self:         pageURL(p.page),
		First:        pageURL(1),
		Last:         pageURL(last),
		ClearFilters: path,
	}
	if p.page > 1 {
		prev := pageURL(min(p.page-1, last))
		links.Prev = &prev
	}
	if p.page < totalPages {
		next := pageURL(p.page + 1)
		links.Next = &next
	}
	return links
}

func filtersOf(p listParams) types.Filters {
	return types.Filters{
		SearchTerm:  p.criteria.SearchTerm,
		MaxPrepTime: p.criteria.MaxPrepMinutes,
		MaxCookTime: p.criteria.MaxCookMinutes,
	}
}
