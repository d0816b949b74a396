package handler

import (
	"fmt"

	"tenantadmin/internal/tenant/models"
	"tenantadmin/internal/tenant/service"
)

// listResponse is the wire shape of the list endpoint.
type listResponse struct {
	Data       []*models.Tenant   `json:"data"`
	Pagination service.Pagination `json:"pagination"`
}

func newListResponse(page *service.TenantPage) listResponse {
	data := page.Tenants
	if data == nil {
		data = []*models.Tenant{}
	}
	return listResponse{Data: data, Pagination: page.Pagination}
}

// messageResponse confirms an operation with no entity to return.
type messageResponse struct {
	Message string `json:"message"`
}

// bulkDeleteResponse reports how many documents a bulk delete removed.
type bulkDeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// bulkStatusResponse reports the best-effort outcome of a bulk transition.
type bulkStatusResponse struct {
	Message      string `json:"message"`
	UpdatedCount int64  `json:"updatedCount"`
}

func newBulkStatusResponse(updated int64) bulkStatusResponse {
	return bulkStatusResponse{
		Message:      fmt.Sprintf("Successfully updated %d tenants", updated),
		UpdatedCount: updated,
	}
}
