package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"tenantadmin/internal/tenant/models"
	"tenantadmin/internal/tenant/store"
	id "tenantadmin/pkg/domain"
	dErrors "tenantadmin/pkg/domain-errors"
	"tenantadmin/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	store *store.Memory
	svc   *Service
	ctx   context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	s.svc = New(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.ctx = context.Background()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) create(name, email string) *models.Tenant {
	tenant, err := s.svc.CreateTenant(s.ctx, CreateTenantCommand{
		Name:             name,
		Industry:         models.IndustryTechnology,
		ContactEmail:     email,
		SubscriptionTier: models.TierBasic,
		ComplianceLevel:  models.ComplianceStandard,
	})
	s.Require().NoError(err)
	return tenant
}

func (s *ServiceSuite) TestCreateTenantDefaults() {
	tenant := s.create("Acme Corp", "ops@acme.test")

	s.Equal(models.StatusActive, tenant.Status)
	s.Equal(models.DefaultSettings(), tenant.Settings)
	s.Require().Len(tenant.StatusHistory, 1)
	s.Equal(models.StatusActive, tenant.StatusHistory[0].Status)
	s.Equal(models.SystemActor, tenant.StatusHistory[0].ChangedBy)
	s.False(tenant.ID.IsZero())
}

func (s *ServiceSuite) TestCreateTenantRecordsActor() {
	ctx := requestcontext.WithActor(s.ctx, requestcontext.Actor{ID: "user-7", Role: "admin"})
	tenant, err := s.svc.CreateTenant(ctx, CreateTenantCommand{
		Name:         "Beta Inc",
		Industry:     models.IndustryFinance,
		ContactEmail: "ops@beta.test",
	})
	s.Require().NoError(err)
	s.Equal("user-7", tenant.StatusHistory[0].ChangedBy)
}

func (s *ServiceSuite) TestCreateTenantInvalidName() {
	_, err := s.svc.CreateTenant(s.ctx, CreateTenantCommand{
		Name:         "A",
		ContactEmail: "ops@short.test",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "Name must be at least 2 characters")
}

func (s *ServiceSuite) TestCreateTenantDuplicateEmail() {
	s.create("Acme Corp", "ops@acme.test")

	_, err := s.svc.CreateTenant(s.ctx, CreateTenantCommand{
		Name:         "Acme Clone",
		ContactEmail: "OPS@ACME.TEST", // case-folded before the uniqueness check
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Contains(err.Error(), "A tenant with this email already exists")
}

func (s *ServiceSuite) TestGetTenantNotFound() {
	_, err := s.svc.GetTenant(s.ctx, id.NewTenantID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Contains(err.Error(), "Tenant not found")
}

func (s *ServiceSuite) TestUpdateTenantPartialMerge() {
	tenant := s.create("Acme Corp", "ops@acme.test")

	name := "Acme Holdings"
	tier := models.TierEnterprise
	updated, err := s.svc.UpdateTenant(s.ctx, tenant.ID, models.Patch{
		Name:             &name,
		SubscriptionTier: &tier,
	})
	s.Require().NoError(err)
	s.Equal("Acme Holdings", updated.Name)
	s.Equal(models.TierEnterprise, updated.SubscriptionTier)
	// Untouched fields survive the merge.
	s.Equal("ops@acme.test", updated.ContactEmail)
	s.Equal(models.IndustryTechnology, updated.Industry)
}

func (s *ServiceSuite) TestUpdateTenantRejectsLongName() {
	tenant := s.create("Acme Corp", "ops@acme.test")

	name := strings.Repeat("x", 101)
	_, err := s.svc.UpdateTenant(s.ctx, tenant.ID, models.Patch{Name: &name})
	s.Require().Error(err)
	s.Contains(err.Error(), "Name cannot exceed 100 characters")

	got, err := s.svc.GetTenant(s.ctx, tenant.ID)
	s.Require().NoError(err)
	s.Equal("Acme Corp", got.Name)
}

func (s *ServiceSuite) TestDeleteTenant() {
	tenant := s.create("Acme Corp", "ops@acme.test")

	s.Require().NoError(s.svc.DeleteTenant(s.ctx, tenant.ID))

	_, err := s.svc.GetTenant(s.ctx, tenant.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestBulkDeleteSkipsMissing() {
	a := s.create("Acme Corp", "ops@acme.test")
	b := s.create("Beta Inc", "ops@beta.test")

	deleted, err := s.svc.BulkDeleteTenants(s.ctx, []id.TenantID{a.ID, id.NewTenantID(), b.ID})
	s.Require().NoError(err)
	s.Equal(int64(2), deleted)
}

func (s *ServiceSuite) TestUpdateStatusAppendsHistory() {
	tenant := s.create("Acme Corp", "ops@acme.test")

	ctx := requestcontext.WithActor(s.ctx, requestcontext.Actor{ID: "user-7", Role: "admin"})
	info, err := s.svc.UpdateStatus(ctx, tenant.ID, models.StatusSuspended, "payment overdue")
	s.Require().NoError(err)
	s.Equal(models.StatusSuspended, info.Status)
	s.Equal("payment overdue", info.Reason)
	s.False(info.ChangedAt.IsZero())

	history, err := s.svc.GetStatusHistory(s.ctx, tenant.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(models.StatusSuspended, history[1].Status)
	s.Equal("payment overdue", history[1].Reason)
	s.Equal("user-7", history[1].ChangedBy)
}

func (s *ServiceSuite) TestUpdateStatusInvalidValue() {
	tenant := s.create("Acme Corp", "ops@acme.test")

	_, err := s.svc.UpdateStatus(s.ctx, tenant.ID, models.Status("archived"), "cleanup")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	history, err := s.svc.GetStatusHistory(s.ctx, tenant.ID)
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *ServiceSuite) TestGetStatus() {
	tenant := s.create("Acme Corp", "ops@acme.test")

	info, err := s.svc.GetStatus(s.ctx, tenant.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, info.Status)
}

func (s *ServiceSuite) TestBulkUpdateStatusSkipsMissing() {
	a := s.create("Acme Corp", "ops@acme.test")
	b := s.create("Beta Inc", "ops@beta.test")

	updated, err := s.svc.BulkUpdateStatus(s.ctx,
		[]id.TenantID{a.ID, id.NewTenantID(), b.ID},
		models.StatusInactive, "seasonal shutdown")
	s.Require().NoError(err)
	s.Equal(int64(2), updated)

	for _, tid := range []id.TenantID{a.ID, b.ID} {
		info, err := s.svc.GetStatus(s.ctx, tid)
		s.Require().NoError(err)
		s.Equal(models.StatusInactive, info.Status)
		s.Equal("seasonal shutdown", info.Reason)
	}
}

func (s *ServiceSuite) TestUpdateSettingsShallowMerge() {
	tenant := s.create("Acme Corp", "ops@acme.test")

	tz := "Europe/Berlin"
	settings, err := s.svc.UpdateSettings(s.ctx, tenant.ID, models.SettingsPatch{Timezone: &tz})
	s.Require().NoError(err)
	s.Equal("Europe/Berlin", settings.Timezone)
	// Untouched keys keep their defaults.
	s.Equal("MM/DD/YYYY", settings.DateFormat)
	s.Equal("en-US", settings.Language)
}

func (s *ServiceSuite) TestUpdateMetadataShallowMerge() {
	tenant := s.create("Acme Corp", "ops@acme.test")

	region := "EMEA"
	tags := []string{"priority", "beta"}
	meta, err := s.svc.UpdateMetadata(s.ctx, tenant.ID, models.MetadataPatch{
		Region: &region,
		Tags:   &tags,
	})
	s.Require().NoError(err)
	s.Equal("EMEA", meta.Region)
	s.Equal([]string{"priority", "beta"}, meta.Tags)

	got, err := s.svc.GetMetadata(s.ctx, tenant.ID)
	s.Require().NoError(err)
	s.Equal("EMEA", got.Region)
}

func (s *ServiceSuite) TestListTenantsPagination() {
	for i := range 15 {
		s.create("Tenant "+string(rune('A'+i)), "ops"+string(rune('a'+i))+"@list.test")
	}

	page, err := s.svc.ListTenants(s.ctx, store.ListQuery{Page: 2, Limit: 5})
	s.Require().NoError(err)
	s.Len(page.Tenants, 5)
	s.Equal(2, page.Pagination.CurrentPage)
	s.Equal(3, page.Pagination.TotalPages)
	s.Equal(int64(15), page.Pagination.TotalItems)
	s.True(page.Pagination.HasNext)
	s.True(page.Pagination.HasPrev)
}

func (s *ServiceSuite) TestListTenantsEmpty() {
	page, err := s.svc.ListTenants(s.ctx, store.ListQuery{})
	s.Require().NoError(err)
	s.Empty(page.Tenants)
	s.Equal(0, page.Pagination.TotalPages)
	s.False(page.Pagination.HasNext)
	s.False(page.Pagination.HasPrev)
}
