package service

import (
	"context"
	"time"

	"tenantadmin/internal/tenant/models"
	"tenantadmin/internal/tenant/store"
	id "tenantadmin/pkg/domain"
	"tenantadmin/pkg/requestcontext"
)

// CreateTenantCommand carries the validated input for tenant creation.
type CreateTenantCommand struct {
	Name             string
	Industry         models.Industry
	ContactEmail     string
	SubscriptionTier models.SubscriptionTier
	ComplianceLevel  models.ComplianceLevel
	Metadata         models.Metadata
}

// CreateTenant constructs a tenant with defaults (active status, default
// settings, the initial history entry) and persists it. The name rule is
// re-checked here so the invariant holds for every caller, not just HTTP.
func (s *Service) CreateTenant(ctx context.Context, cmd CreateTenantCommand) (*models.Tenant, error) {
	name, err := models.ValidateName(cmd.Name)
	if err != nil {
		return nil, err
	}

	actor := requestcontext.ActorID(ctx, models.SystemActor)
	tenant := models.NewTenant(name, cmd.Industry, cmd.ContactEmail,
		cmd.SubscriptionTier, cmd.ComplianceLevel, cmd.Metadata, time.Now().UTC(), actor)

	if err := s.tenants.Insert(ctx, tenant); err != nil {
		return nil, translateStoreErr(err, "failed to create tenant")
	}

	if s.metrics != nil {
		s.metrics.IncrementTenantsCreated()
	}
	s.logger.InfoContext(ctx, "tenant created",
		"tenant_id", tenant.ID.Hex(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return tenant, nil
}

// Pagination describes the page of results a list call returned.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// TenantPage is one page of tenants plus pagination metadata.
type TenantPage struct {
	Tenants    []*models.Tenant
	Pagination Pagination
}

// ListTenants returns a page of tenants. Paging controls clamp into range;
// unknown sort fields fall back to creation time, newest first.
func (s *Service) ListTenants(ctx context.Context, q store.ListQuery) (*TenantPage, error) {
	q = q.Normalize()
	tenants, total, err := s.tenants.List(ctx, q)
	if err != nil {
		return nil, translateStoreErr(err, "failed to list tenants")
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &TenantPage{
		Tenants: tenants,
		Pagination: Pagination{
			CurrentPage: q.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			HasNext:     q.Page < totalPages,
			HasPrev:     q.Page > 1,
		},
	}, nil
}

// GetTenant fetches a tenant by id.
func (s *Service) GetTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to get tenant")
	}
	return tenant, nil
}

// UpdateTenant applies a partial merge of the provided top-level fields.
// A present name is re-validated with the create rule.
func (s *Service) UpdateTenant(ctx context.Context, tenantID id.TenantID, patch models.Patch) (*models.Tenant, error) {
	if patch.Name != nil {
		name, err := models.ValidateName(*patch.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}

	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to get tenant")
	}

	tenant.Apply(patch, time.Now().UTC())

	if err := s.tenants.Replace(ctx, tenant); err != nil {
		return nil, translateStoreErr(err, "failed to update tenant")
	}
	return tenant, nil
}

// DeleteTenant removes a tenant. The delete is unconditional: no cascades, no
// tombstones.
func (s *Service) DeleteTenant(ctx context.Context, tenantID id.TenantID) error {
	if err := s.tenants.Delete(ctx, tenantID); err != nil {
		return translateStoreErr(err, "failed to delete tenant")
	}
	if s.metrics != nil {
		s.metrics.AddTenantsDeleted(1)
	}
	return nil
}

// BulkDeleteTenants removes every listed tenant that exists and reports how
// many documents were removed. Id shape validation happens at the boundary;
// ids that do not resolve to a tenant are skipped.
func (s *Service) BulkDeleteTenants(ctx context.Context, ids []id.TenantID) (int64, error) {
	deleted, err := s.tenants.DeleteMany(ctx, ids)
	if err != nil {
		return 0, translateStoreErr(err, "failed to delete tenants")
	}
	if s.metrics != nil {
		s.metrics.AddTenantsDeleted(deleted)
		s.metrics.ObserveBulkBatchSize(len(ids))
	}
	s.logger.InfoContext(ctx, "tenants bulk deleted",
		"requested", len(ids),
		"deleted", deleted,
		"request_id", requestcontext.RequestID(ctx),
	)
	return deleted, nil
}
