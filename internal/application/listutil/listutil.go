package listutil

import (
	"net/url"
)

// FilterParams carries search and filter parameters for a list view. The
// console forwards these to the backend verbatim; it never post-filters a
// fetched page client-side.
type FilterParams struct {
	Search  string            // free-text search query
	Filters map[string]string // exact-match filters (e.g. role=ADMIN)
	Active  *bool             // tri-state active flag; nil means not filtered
}

// ParseFilterParams extracts search and named filters from URL query values.
// Empty values are dropped so an omitted filter is absent from the outbound
// query rather than present-as-empty.
// PRE: filterKeys lists the allowed filter parameter names
// POST: Returns FilterParams with only recognised, non-empty keys
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Search:  q.Get("search"),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := q.Get(key); v != "" {
			fp.Filters[key] = v
		}
	}
	switch q.Get("isActive") {
	case "true":
		t := true
		fp.Active = &t
	case "false":
		f := false
		fp.Active = &f
	}
	return fp
}

// HasAny reports whether any filter is set.
// INVARIANT: FilterParams is not mutated
func (fp FilterParams) HasAny() bool {
	return fp.Search != "" || len(fp.Filters) > 0 || fp.Active != nil
}

// Query rebuilds the URL query for links that must preserve the current
// filter tuple (modal open/close navigation).
// POST: Contains exactly the non-empty filter fields
func (fp FilterParams) Query() url.Values {
	q := url.Values{}
	if fp.Search != "" {
		q.Set("search", fp.Search)
	}
	for k, v := range fp.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	if fp.Active != nil {
		if *fp.Active {
			q.Set("isActive", "true")
		} else {
			q.Set("isActive", "false")
		}
	}
	return q
}
