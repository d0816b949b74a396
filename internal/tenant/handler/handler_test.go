package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"tenantadmin/internal/auth"
	"tenantadmin/internal/tenant/service"
	"tenantadmin/internal/tenant/store"
)

const testSigningKey = "handler-test-signing-key"

type HandlerSuite struct {
	suite.Suite
	router chi.Router
	store  *store.Memory
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = store.NewMemory()
	svc := service.New(s.store, logger)

	s.router = chi.NewRouter()
	New(svc, auth.NewJWTService(testSigningKey), logger).Register(s.router)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) token(role string) string {
	token, err := auth.Sign(testSigningKey, "user-1", role, time.Hour)
	s.Require().NoError(err)
	return token
}

// do issues a request with the given role's bearer token and decodes the
// JSON response body into a generic map.
func (s *HandlerSuite) do(role, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(role))
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func validCreatePayload(name, email string) map[string]any {
	return map[string]any{
		"name":              name,
		"industry":          "Technology",
		"contact_email":     email,
		"subscription_tier": "Professional",
		"compliance_level":  "Enhanced",
		"metadata": map[string]any{
			"industry": "Technology",
			"region":   "EMEA",
			"country":  "DE",
		},
	}
}

func (s *HandlerSuite) createTenant(name, email string) string {
	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants", validCreatePayload(name, email))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	tid, _ := body["id"].(string)
	s.Require().NotEmpty(tid)
	return tid
}

func (s *HandlerSuite) TestRequiresToken() {
	rec, body := s.do("", http.MethodGet, "/api/tenants", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("Access denied. No token provided.", body["message"])
}

func (s *HandlerSuite) TestRejectsInvalidToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "Invalid token.")
}

func (s *HandlerSuite) TestViewerCannotCreate() {
	rec, body := s.do(RoleViewer, http.MethodPost, "/api/tenants", validCreatePayload("Acme Corp", "ops@acme.test"))
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("Forbidden: Insufficient permissions", body["message"])
}

func (s *HandlerSuite) TestOperatorCannotDelete() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, _ := s.do(RoleOperator, http.MethodDelete, "/api/tenants/"+tid, nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestCreateTenant() {
	rec, body := s.do(RoleOperator, http.MethodPost, "/api/tenants", validCreatePayload("Acme Corp", "Ops@Acme.Test"))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	s.Equal("active", body["status"])
	s.Equal("ops@acme.test", body["contact_email"])
	history, ok := body["statusHistory"].([]any)
	s.Require().True(ok)
	s.Len(history, 1)
}

func (s *HandlerSuite) TestCreateTenantValidation() {
	payload := validCreatePayload("A", "not-an-email")
	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants", payload)
	s.Equal(http.StatusBadRequest, rec.Code)
	msg, _ := body["message"].(string)
	s.Contains(msg, "Name must be at least 2 characters")
	s.Contains(msg, "Invalid email format")
}

func (s *HandlerSuite) TestCreateTenantRequiresSubscriptionTier() {
	payload := validCreatePayload("Acme Corp", "ops@acme.test")
	delete(payload, "subscription_tier")

	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants", payload)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(body["message"], "Subscription tier is required")
}

func (s *HandlerSuite) TestCreateTenantRequiresComplianceLevel() {
	payload := validCreatePayload("Acme Corp", "ops@acme.test")
	delete(payload, "compliance_level")

	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants", payload)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(body["message"], "Compliance level is required")
}

func (s *HandlerSuite) TestCreateTenantDuplicateEmail() {
	s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants", validCreatePayload("Acme Clone", "OPS@ACME.TEST"))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("A tenant with this email already exists", body["message"])
}

func (s *HandlerSuite) TestGetTenantMalformedID() {
	rec, body := s.do(RoleViewer, http.MethodGet, "/api/tenants/not-hex", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid tenant ID format", body["message"])
}

func (s *HandlerSuite) TestGetTenantNotFound() {
	rec, body := s.do(RoleViewer, http.MethodGet, "/api/tenants/aaaaaaaaaaaaaaaaaaaaaaaa", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Tenant not found", body["message"])
}

func (s *HandlerSuite) TestGetTenantRoundTrip() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleViewer, http.MethodGet, "/api/tenants/"+tid, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(tid, body["id"])
	s.Equal("Acme Corp", body["name"])
	s.Equal("Professional", body["subscription_tier"])
}

func (s *HandlerSuite) TestUpdateTenantPartial() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleOperator, http.MethodPut, "/api/tenants/"+tid,
		map[string]any{"name": "Acme Holdings"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("Acme Holdings", body["name"])
	s.Equal("ops@acme.test", body["contact_email"])
}

func (s *HandlerSuite) TestDeleteTenant() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodDelete, "/api/tenants/"+tid, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Tenant deleted successfully", body["message"])

	rec, _ = s.do(RoleAdmin, http.MethodGet, "/api/tenants/"+tid, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestBulkDeleteRejectsEmptyList() {
	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants/bulk/delete",
		map[string]any{"tenantIds": []string{}})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("No tenant IDs provided", body["message"])
}

func (s *HandlerSuite) TestBulkDeleteRejectsMalformedID() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants/bulk/delete",
		map[string]any{"tenantIds": []string{tid, "bogus"}})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid tenant ID format: bogus", body["message"])

	// All-or-nothing: the valid id must not have been deleted.
	rec, _ = s.do(RoleAdmin, http.MethodGet, "/api/tenants/"+tid, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestBulkDelete() {
	a := s.createTenant("Acme Corp", "ops@acme.test")
	b := s.createTenant("Beta Inc", "ops@beta.test")

	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants/bulk/delete",
		map[string]any{"tenantIds": []string{a, b}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Tenants deleted successfully", body["message"])
	s.Equal(float64(2), body["deletedCount"])
}

func (s *HandlerSuite) TestUpdateStatus() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleOperator, http.MethodPut, "/api/tenants/"+tid+"/status",
		map[string]any{"status": "suspended", "reason": "payment overdue"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("suspended", body["status"])
	s.Equal("payment overdue", body["reason"])
	s.NotEmpty(body["changedAt"])

	rec, history := s.doList(RoleViewer, "/api/tenants/"+tid+"/status/history")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(history, 2)
}

func (s *HandlerSuite) TestUpdateStatusRequiresReason() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodPut, "/api/tenants/"+tid+"/status",
		map[string]any{"status": "inactive"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(body["message"], "Reason is required")
}

func (s *HandlerSuite) TestUpdateStatusInvalidValue() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodPut, "/api/tenants/"+tid+"/status",
		map[string]any{"status": "archived", "reason": "cleanup"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(body["message"], "Invalid status value")
}

// doList issues a GET whose response body is a JSON array.
func (s *HandlerSuite) doList(role, path string) (*httptest.ResponseRecorder, []any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+s.token(role))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded []any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func (s *HandlerSuite) TestBulkStatusSkipsMissing() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants/bulk/status", map[string]any{
		"tenantIds": []string{tid, "bbbbbbbbbbbbbbbbbbbbbbbb"},
		"status":    "inactive",
		"reason":    "seasonal shutdown",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal(float64(1), body["updatedCount"])
	s.Equal("Successfully updated 1 tenants", body["message"])
}

func (s *HandlerSuite) TestBulkStatusRequiresReason() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodPost, "/api/tenants/bulk/status", map[string]any{
		"tenantIds": []string{tid},
		"status":    "inactive",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(body["message"], "Reason is required")

	// The transition must not have applied.
	rec, status := s.do(RoleViewer, http.MethodGet, "/api/tenants/"+tid+"/status", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("active", status["status"])
}

func (s *HandlerSuite) TestUpdateSettings() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleOperator, http.MethodPut, "/api/tenants/"+tid+"/settings",
		map[string]any{"timezone": "Europe/Berlin"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("Europe/Berlin", body["timezone"])
	s.Equal("MM/DD/YYYY", body["dateFormat"])
}

func (s *HandlerSuite) TestUpdateSettingsUnknownKey() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodPut, "/api/tenants/"+tid+"/settings",
		map[string]any{"foo": 1})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid settings: foo", body["message"])

	// The stored record must be untouched.
	rec, body = s.do(RoleViewer, http.MethodGet, "/api/tenants/"+tid+"/settings", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("UTC", body["timezone"])
}

func (s *HandlerSuite) TestUpdateSettingsInvalidTimezone() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodPut, "/api/tenants/"+tid+"/settings",
		map[string]any{"timezone": "Mars/Olympus"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(body["message"], "Invalid timezone")
}

func (s *HandlerSuite) TestUpdateMetadataUnknownKey() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleAdmin, http.MethodPut, "/api/tenants/"+tid+"/metadata",
		map[string]any{"region": "APAC", "budget": 100})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid metadata fields: budget", body["message"])
}

func (s *HandlerSuite) TestUpdateMetadata() {
	tid := s.createTenant("Acme Corp", "ops@acme.test")

	rec, body := s.do(RoleOperator, http.MethodPut, "/api/tenants/"+tid+"/metadata",
		map[string]any{"region": "APAC", "tags": []string{"priority"}})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("APAC", body["region"])
	s.Equal("DE", body["country"])
}

func (s *HandlerSuite) TestListPagination() {
	for i := range 15 {
		s.createTenant(fmt.Sprintf("Tenant %02d", i), fmt.Sprintf("ops%02d@list.test", i))
	}

	rec, body := s.do(RoleViewer, http.MethodGet, "/api/tenants?page=2&limit=5", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	data, ok := body["data"].([]any)
	s.Require().True(ok)
	s.Len(data, 5)

	pagination, ok := body["pagination"].(map[string]any)
	s.Require().True(ok)
	s.Equal(float64(2), pagination["currentPage"])
	s.Equal(float64(3), pagination["totalPages"])
	s.Equal(float64(15), pagination["totalItems"])
	s.Equal(true, pagination["hasNext"])
	s.Equal(true, pagination["hasPrev"])
}

func (s *HandlerSuite) TestListSearch() {
	s.createTenant("Globex Industrial", "ops@globex.test")
	s.createTenant("Initech Systems", "ops@initech.test")

	rec, body := s.do(RoleViewer, http.MethodGet, "/api/tenants?search=globex", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	data, ok := body["data"].([]any)
	s.Require().True(ok)
	s.Require().Len(data, 1)
	first, _ := data[0].(map[string]any)
	s.Equal("Globex Industrial", first["name"])
}
