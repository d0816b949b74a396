// Package handler exposes the tenant API over HTTP. Handlers own request
// decoding and validation; everything past the boundary speaks domain types.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tenantadmin/internal/tenant/models"
	"tenantadmin/internal/tenant/service"
	id "tenantadmin/pkg/domain"
	dErrors "tenantadmin/pkg/domain-errors"
	"tenantadmin/pkg/platform/httputil"
	mwauth "tenantadmin/pkg/platform/middleware/auth"
	"tenantadmin/pkg/requestcontext"
)

// Roles recognized by the API.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// Handler serves the tenant endpoints.
type Handler struct {
	svc    *service.Service
	tokens mwauth.TokenValidator
	logger *slog.Logger
}

func New(svc *service.Service, tokens mwauth.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

// Register mounts the tenant routes. Every route requires a valid bearer
// token; writes additionally require the operator or admin role, and
// destructive or bulk operations require admin.
func (h *Handler) Register(r chi.Router) {
	read := mwauth.RequireRole(h.logger, RoleAdmin, RoleOperator, RoleViewer)
	write := mwauth.RequireRole(h.logger, RoleAdmin, RoleOperator)
	admin := mwauth.RequireRole(h.logger, RoleAdmin)

	r.Route("/api/tenants", func(r chi.Router) {
		r.Use(mwauth.RequireAuth(h.tokens, h.logger))

		r.With(write).Post("/", h.CreateTenant)
		r.With(read).Get("/", h.ListTenants)

		r.With(admin).Post("/bulk/delete", h.BulkDeleteTenants)
		r.With(admin).Post("/bulk/status", h.BulkUpdateStatus)

		r.Route("/{tenantID}", func(r chi.Router) {
			r.With(read).Get("/", h.GetTenant)
			r.With(write).Put("/", h.UpdateTenant)
			r.With(admin).Delete("/", h.DeleteTenant)

			r.With(write).Put("/status", h.UpdateStatus)
			r.With(read).Get("/status", h.GetStatus)
			r.With(read).Get("/status/history", h.GetStatusHistory)

			r.With(write).Put("/settings", h.UpdateSettings)
			r.With(read).Get("/settings", h.GetSettings)

			r.With(write).Put("/metadata", h.UpdateMetadata)
			r.With(read).Get("/metadata", h.GetMetadata)
		})
	})
}

// tenantID extracts and shape-checks the path identifier. A token of the
// wrong shape is a client error, never a lookup.
func (h *Handler) tenantID(w http.ResponseWriter, r *http.Request) (id.TenantID, bool) {
	raw := chi.URLParam(r, "tenantID")
	tid, err := id.ParseTenantID(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid tenant ID format"))
		return id.NilTenantID, false
	}
	return tid, true
}

func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tenant, err := h.svc.CreateTenant(ctx, service.CreateTenantCommand{
		Name:             req.Name,
		Industry:         models.Industry(req.Industry),
		ContactEmail:     req.ContactEmail,
		SubscriptionTier: models.SubscriptionTier(req.SubscriptionTier),
		ComplianceLevel:  models.ComplianceLevel(req.ComplianceLevel),
		Metadata:         req.Metadata.toModel(),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tenant)
}

func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListTenants(r.Context(), listQueryFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newListResponse(page))
}

func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	tenant, err := h.svc.GetTenant(r.Context(), tid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tenant)
}

func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateTenantRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	tenant, err := h.svc.UpdateTenant(ctx, tid, req.toPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tenant)
}

func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTenant(r.Context(), tid); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "Tenant deleted successfully"})
}

func (h *Handler) BulkDeleteTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BulkDeleteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	deleted, err := h.svc.BulkDeleteTenants(ctx, req.parsedIDs())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, bulkDeleteResponse{
		Message:      "Tenants deleted successfully",
		DeletedCount: deleted,
	})
}
