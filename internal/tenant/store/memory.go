package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tenantadmin/internal/sentinel"
	"tenantadmin/internal/tenant/models"
	id "tenantadmin/pkg/domain"
)

// Memory stores tenants in memory for tests and the demo environment.
// Documents are deep-copied on the way in and out so callers can mutate
// results freely, mirroring what a real round-trip through the database does.
type Memory struct {
	mu       sync.RWMutex
	tenants  map[id.TenantID]*models.Tenant
	emailIdx map[string]id.TenantID
}

// NewMemory creates an in-memory tenant store.
func NewMemory() *Memory {
	return &Memory{
		tenants:  make(map[id.TenantID]*models.Tenant),
		emailIdx: make(map[string]id.TenantID),
	}
}

// Insert adds the tenant if its contact email is not already taken
// (emails are stored lowercased, so the check is case-insensitive).
func (s *Memory) Insert(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(t.ContactEmail)
	if _, exists := s.emailIdx[email]; exists {
		return fmt.Errorf("contact_email %q: %w", email, sentinel.ErrDuplicateEmail)
	}
	s.tenants[t.ID] = t.Clone()
	s.emailIdx[email] = t.ID
	return nil
}

// FindByID retrieves a tenant by id.
func (s *Memory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tenants[tenantID]; ok {
		return t.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

// Replace overwrites the stored document with the given one.
func (s *Memory) Replace(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tenants[t.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	email := strings.ToLower(t.ContactEmail)
	if owner, taken := s.emailIdx[email]; taken && owner != t.ID {
		return fmt.Errorf("contact_email %q: %w", email, sentinel.ErrDuplicateEmail)
	}
	delete(s.emailIdx, strings.ToLower(current.ContactEmail))
	s.tenants[t.ID] = t.Clone()
	s.emailIdx[email] = t.ID
	return nil
}

// Delete removes a tenant by id.
func (s *Memory) Delete(_ context.Context, tenantID id.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[tenantID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.emailIdx, strings.ToLower(t.ContactEmail))
	delete(s.tenants, tenantID)
	return nil
}

// DeleteMany removes every listed tenant that exists and reports how many
// documents were removed. Absent ids are not an error.
func (s *Memory) DeleteMany(_ context.Context, ids []id.TenantID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for _, tenantID := range ids {
		if t, ok := s.tenants[tenantID]; ok {
			delete(s.emailIdx, strings.ToLower(t.ContactEmail))
			delete(s.tenants, tenantID)
			deleted++
		}
	}
	return deleted, nil
}

// List returns one page of tenants matching the query plus the total match
// count.
func (s *Memory) List(_ context.Context, q ListQuery) ([]*models.Tenant, int64, error) {
	q = q.Normalize()

	s.mu.RLock()
	matched := make([]*models.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		if matches(t, q) {
			matched = append(matched, t)
		}
	}
	s.mu.RUnlock()

	sortTenants(matched, q)

	total := int64(len(matched))
	start := q.Skip()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]*models.Tenant, 0, end-start)
	for _, t := range matched[start:end] {
		page = append(page, t.Clone())
	}
	return page, total, nil
}

func matches(t *models.Tenant, q ListQuery) bool {
	if q.Industry != "" && string(t.Industry) != q.Industry {
		return false
	}
	if q.Status != "" && string(t.Status) != q.Status {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(t.Name), needle) &&
			!strings.Contains(strings.ToLower(string(t.Industry)), needle) {
			return false
		}
	}
	return true
}

func sortTenants(ts []*models.Tenant, q ListQuery) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if !q.Ascending {
			a, b = b, a
		}
		switch q.SortBy {
		case SortByName:
			return a.Name < b.Name
		case SortByUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case SortByIndustry:
			return a.Industry < b.Industry
		case SortByStatus:
			return a.Status < b.Status
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}
