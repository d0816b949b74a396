package handler

import (
	"net/http"

	"tenantadmin/internal/tenant/models"
	"tenantadmin/pkg/platform/httputil"
	"tenantadmin/pkg/requestcontext"
)

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateStatusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	info, err := h.svc.UpdateStatus(ctx, tid, models.Status(req.Status), req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	info, err := h.svc.GetStatus(r.Context(), tid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	history, err := h.svc.GetStatusHistory(r.Context(), tid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if history == nil {
		history = []models.StatusHistoryEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, history)
}

func (h *Handler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BulkStatusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	updated, err := h.svc.BulkUpdateStatus(ctx, req.parsedIDs(), models.Status(req.Status), req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newBulkStatusResponse(updated))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateSettingsRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	settings, err := h.svc.UpdateSettings(ctx, tid, req.toPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	settings, err := h.svc.GetSettings(r.Context(), tid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateMetadataRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	meta, err := h.svc.UpdateMetadata(ctx, tid, req.toPatch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, meta)
}

func (h *Handler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	tid, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	meta, err := h.svc.GetMetadata(r.Context(), tid)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, meta)
}
