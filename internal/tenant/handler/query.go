package handler

import (
	"net/http"
	"strconv"
	"strings"

	"tenantadmin/internal/tenant/store"
)

// listQueryFromRequest reads the list controls off the query string.
// Non-numeric or out-of-range paging values clamp via Normalize rather than
// rejecting the request.
func listQueryFromRequest(r *http.Request) store.ListQuery {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return store.ListQuery{
		Page:      page,
		Limit:     limit,
		Industry:  strings.TrimSpace(q.Get("industry")),
		Status:    strings.TrimSpace(q.Get("status")),
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    q.Get("sortBy"),
		Ascending: strings.EqualFold(q.Get("order"), "asc"),
	}
}
