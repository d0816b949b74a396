package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"tenantadmin/internal/sentinel"
	"tenantadmin/internal/tenant/models"
	id "tenantadmin/pkg/domain"
	"tenantadmin/pkg/requestcontext"
)

// bulkConcurrency bounds the fan-out of bulk status updates.
const bulkConcurrency = 8

// StatusInfo is the read model for the status endpoints.
type StatusInfo struct {
	Status    models.Status `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	ChangedAt time.Time     `json:"changedAt"`
}

// UpdateStatus transitions a tenant to the given status, recording the reason
// and the acting identity in the append-only history.
func (s *Service) UpdateStatus(ctx context.Context, tenantID id.TenantID, status models.Status, reason string) (*StatusInfo, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to get tenant")
	}

	actor := requestcontext.ActorID(ctx, models.SystemActor)
	if err := tenant.ChangeStatus(status, reason, time.Now().UTC(), actor); err != nil {
		return nil, err
	}

	if err := s.tenants.Replace(ctx, tenant); err != nil {
		return nil, translateStoreErr(err, "failed to update tenant status")
	}

	if s.metrics != nil {
		s.metrics.IncrementStatusTransition(status.String())
	}
	s.logger.InfoContext(ctx, "tenant status changed",
		"tenant_id", tenantID.Hex(),
		"status", status,
		"changed_by", actor,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &StatusInfo{
		Status:    tenant.Status,
		Reason:    tenant.StatusReason,
		ChangedAt: tenant.StatusChangedAt,
	}, nil
}

// GetStatus returns the tenant's current status. Read-only.
func (s *Service) GetStatus(ctx context.Context, tenantID id.TenantID) (*StatusInfo, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to get tenant")
	}
	return &StatusInfo{
		Status:    tenant.Status,
		Reason:    tenant.StatusReason,
		ChangedAt: tenant.StatusChangedAt,
	}, nil
}

// GetStatusHistory returns the full append-only status history. Read-only.
func (s *Service) GetStatusHistory(ctx context.Context, tenantID id.TenantID) ([]models.StatusHistoryEntry, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to get tenant")
	}
	return tenant.StatusHistory, nil
}

// BulkUpdateStatus applies one status and reason uniformly to the listed
// tenants. Each tenant is an independent read-modify-write, fired in parallel
// and joined on completion: ids that do not resolve to a tenant are skipped,
// and a failure on one tenant does not abort the others. The returned count
// covers only tenants actually updated.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []id.TenantID, status models.Status, reason string) (int64, error) {
	actor := requestcontext.ActorID(ctx, models.SystemActor)
	now := time.Now().UTC()

	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for _, tenantID := range ids {
		g.Go(func() error {
			tenant, err := s.tenants.FindByID(gctx, tenantID)
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil
			}
			if err != nil {
				return translateStoreErr(err, "failed to get tenant")
			}

			if err := tenant.ChangeStatus(status, reason, now, actor); err != nil {
				return err
			}
			if err := s.tenants.Replace(gctx, tenant); err != nil {
				// A concurrent delete between the read and the write is a
				// skip, not a failure.
				if errors.Is(err, sentinel.ErrNotFound) {
					return nil
				}
				return translateStoreErr(err, "failed to update tenant status")
			}

			updated.Add(1)
			if s.metrics != nil {
				s.metrics.IncrementStatusTransition(status.String())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return updated.Load(), err
	}

	if s.metrics != nil {
		s.metrics.ObserveBulkBatchSize(len(ids))
	}
	s.logger.InfoContext(ctx, "tenant statuses bulk updated",
		"requested", len(ids),
		"updated", updated.Load(),
		"status", status,
		"request_id", requestcontext.RequestID(ctx),
	)
	return updated.Load(), nil
}

// UpdateSettings shallow-merges the patch over the tenant's settings and
// returns the updated settings record. Key whitelisting happens at the
// boundary; by the time the patch reaches here it only carries allowed keys.
func (s *Service) UpdateSettings(ctx context.Context, tenantID id.TenantID, patch models.SettingsPatch) (*models.Settings, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to get tenant")
	}

	tenant.ApplySettings(patch, time.Now().UTC())

	if err := s.tenants.Replace(ctx, tenant); err != nil {
		return nil, translateStoreErr(err, "failed to update tenant settings")
	}
	return &tenant.Settings, nil
}

// GetSettings returns the tenant's settings record.
func (s *Service) GetSettings(ctx context.Context, tenantID id.TenantID) (*models.Settings, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to get tenant")
	}
	return &tenant.Settings, nil
}

// UpdateMetadata shallow-merges the patch over the tenant's metadata and
// returns the updated metadata record.
func (s *Service) UpdateMetadata(ctx context.Context, tenantID id.TenantID, patch models.MetadataPatch) (*models.Metadata, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to get tenant")
	}

	tenant.ApplyMetadata(patch, time.Now().UTC())

	if err := s.tenants.Replace(ctx, tenant); err != nil {
		return nil, translateStoreErr(err, "failed to update tenant metadata")
	}
	return &tenant.Metadata, nil
}

// GetMetadata returns the tenant's metadata record.
func (s *Service) GetMetadata(ctx context.Context, tenantID id.TenantID) (*models.Metadata, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to get tenant")
	}
	return &tenant.Metadata, nil
}
