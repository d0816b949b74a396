// Package service orchestrates tenant lifecycle and management operations.
// Stores return sentinel errors; translation into domain errors happens here,
// exactly once, so handlers only ever see stable codes.
package service

import (
	"context"
	"errors"
	"log/slog"

	"tenantadmin/internal/sentinel"
	tenantmetrics "tenantadmin/internal/tenant/metrics"
	"tenantadmin/internal/tenant/models"
	"tenantadmin/internal/tenant/store"
	id "tenantadmin/pkg/domain"
	dErrors "tenantadmin/pkg/domain-errors"
)

// TenantStore is the persistence contract the service depends on.
type TenantStore interface {
	Insert(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	Replace(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, tenantID id.TenantID) error
	DeleteMany(ctx context.Context, ids []id.TenantID) (int64, error)
	List(ctx context.Context, q store.ListQuery) ([]*models.Tenant, int64, error)
}

// Service exposes tenant lifecycle and management operations over a store.
type Service struct {
	tenants TenantStore
	logger  *slog.Logger
	metrics *tenantmetrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the tenant service.
func New(tenants TenantStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{tenants: tenants, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fixed messages of the API's error contract.
const (
	msgTenantNotFound = "Tenant not found"
	msgDuplicateEmail = "A tenant with this email already exists"
	msgDBUnavailable  = "Database connection not available"
)

// translateStoreErr maps store sentinels onto domain errors. fallback names
// the failed operation for the generic internal case.
func translateStoreErr(err error, fallback string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, msgTenantNotFound)
	case errors.Is(err, sentinel.ErrDuplicateEmail):
		return dErrors.New(dErrors.CodeConflict, msgDuplicateEmail)
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msgDBUnavailable)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, fallback)
	}
}
