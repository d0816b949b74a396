// Package store persists tenant documents. Memory backs tests and the demo
// environment; Mongo backs everything else. Both return sentinel errors so
// the service layer can translate them into domain errors exactly once.
package store

// Sort fields accepted by List. Anything else falls back to created_at.
const (
	SortByName      = "name"
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByIndustry  = "industry"
	SortByStatus    = "status"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery selects, orders, and pages tenants.
type ListQuery struct {
	Page  int
	Limit int

	// Exact-match filters; empty means unfiltered.
	Industry string
	Status   string

	// Search matches name OR industry case-insensitively as a substring.
	Search string

	SortBy    string
	Ascending bool
}

// Normalize clamps paging controls into range and pins the sort field to the
// whitelist. Out-of-range values clamp rather than reject.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	switch q.SortBy {
	case SortByName, SortByCreatedAt, SortByUpdatedAt, SortByIndustry, SortByStatus:
	default:
		q.SortBy = SortByCreatedAt
	}
	return q
}

// Skip returns the number of documents to skip for the requested page.
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}
