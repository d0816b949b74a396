package handler

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"tenantadmin/internal/tenant/models"
	id "tenantadmin/pkg/domain"
	dErrors "tenantadmin/pkg/domain-errors"
	"tenantadmin/pkg/validation"
)

// PrimaryContactPayload is the contact person block inside metadata payloads.
type PrimaryContactPayload struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=100"`
	Position string `json:"position" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}

// MetadataPayload is the metadata block of create requests. All keys are
// required-or-validated here; partial metadata updates use
// UpdateMetadataRequest instead.
type MetadataPayload struct {
	Industry       string                 `json:"industry" validate:"required,oneof=Technology Finance Healthcare Education Retail Other"`
	SubIndustry    string                 `json:"subIndustry" validate:"omitempty,max=100"`
	CompanySize    string                 `json:"companySize" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Region         string                 `json:"region" validate:"required,notblank"`
	Country        string                 `json:"country" validate:"required,country"`
	PrimaryContact *PrimaryContactPayload `json:"primaryContact" validate:"omitempty"`
	Tags           []string               `json:"tags" validate:"omitempty,dive,max=50"`
}

func (p *MetadataPayload) toModel() models.Metadata {
	m := models.Metadata{
		Industry:    models.Industry(p.Industry),
		SubIndustry: strings.TrimSpace(p.SubIndustry),
		CompanySize: models.CompanySize(p.CompanySize),
		Region:      strings.TrimSpace(p.Region),
		Country:     p.Country,
		Tags:        p.Tags,
	}
	if p.PrimaryContact != nil {
		m.PrimaryContact = &models.PrimaryContact{
			Name:     strings.TrimSpace(p.PrimaryContact.Name),
			Position: strings.TrimSpace(p.PrimaryContact.Position),
			Phone:    strings.TrimSpace(p.PrimaryContact.Phone),
		}
	}
	return m
}

// CreateTenantRequest is the payload for tenant creation.
type CreateTenantRequest struct {
	Name             string           `json:"name" validate:"required,notblank,min=2,max=100"`
	Industry         string           `json:"industry" validate:"required,oneof=Technology Finance Healthcare Education Retail Other"`
	ContactEmail     string           `json:"contact_email" validate:"required,email"`
	SubscriptionTier string           `json:"subscription_tier" validate:"required,oneof=Basic Professional Enterprise"`
	ComplianceLevel  string           `json:"compliance_level" validate:"required,oneof=Standard Enhanced Premium"`
	Metadata         *MetadataPayload `json:"metadata" validate:"required"`
}

func (r *CreateTenantRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.ContactEmail = strings.ToLower(strings.TrimSpace(r.ContactEmail))
}

func (r *CreateTenantRequest) Validate() error {
	return validation.Validate(r)
}

// UpdateTenantRequest is the partial-update payload for top-level tenant
// fields. Absent fields stay nil and leave the stored value alone; present
// fields still pass the create-time format and enum checks.
type UpdateTenantRequest struct {
	Name             *string `json:"name" validate:"omitempty,notblank,min=2,max=100"`
	Industry         *string `json:"industry" validate:"omitempty,oneof=Technology Finance Healthcare Education Retail Other"`
	ContactEmail     *string `json:"contact_email" validate:"omitempty,email"`
	SubscriptionTier *string `json:"subscription_tier" validate:"omitempty,oneof=Basic Professional Enterprise"`
	ComplianceLevel  *string `json:"compliance_level" validate:"omitempty,oneof=Standard Enhanced Premium"`
}

func (r *UpdateTenantRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.ContactEmail != nil {
		lowered := strings.ToLower(strings.TrimSpace(*r.ContactEmail))
		r.ContactEmail = &lowered
	}
}

func (r *UpdateTenantRequest) Validate() error {
	return validation.Validate(r)
}

func (r *UpdateTenantRequest) toPatch() models.Patch {
	p := models.Patch{Name: r.Name, ContactEmail: r.ContactEmail}
	if r.Industry != nil {
		v := models.Industry(*r.Industry)
		p.Industry = &v
	}
	if r.SubscriptionTier != nil {
		v := models.SubscriptionTier(*r.SubscriptionTier)
		p.SubscriptionTier = &v
	}
	if r.ComplianceLevel != nil {
		v := models.ComplianceLevel(*r.ComplianceLevel)
		p.ComplianceLevel = &v
	}
	return p
}

// UpdateStatusRequest is the payload for a single status transition.
// The reason is mandatory; every transition must be explained.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

func (r *UpdateStatusRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *UpdateStatusRequest) Validate() error {
	return validation.Validate(r)
}

// settingsKeys is the closed key set for settings updates.
var settingsKeys = map[string]struct{}{
	"timezone":                {},
	"dateFormat":              {},
	"language":                {},
	"notificationPreferences": {},
}

// notificationPreferencesPayload mirrors the notification toggles.
type notificationPreferencesPayload struct {
	Email bool `json:"email"`
	Slack bool `json:"slack"`
}

// UpdateSettingsRequest is the partial settings update payload. Decoding
// captures any payload key outside the closed set; validation then rejects
// the whole request, so an unknown key never partially applies.
type UpdateSettingsRequest struct {
	Timezone                *string                         `json:"timezone" validate:"omitempty,timezone_name"`
	DateFormat              *string                         `json:"dateFormat" validate:"omitempty,dateformat"`
	Language                *string                         `json:"language" validate:"omitempty,locale"`
	NotificationPreferences *notificationPreferencesPayload `json:"notificationPreferences"`

	unknownKeys []string
}

func (r *UpdateSettingsRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.unknownKeys = unknownKeysOf(raw, settingsKeys)

	type plain UpdateSettingsRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.unknownKeys = r.unknownKeys
	*r = UpdateSettingsRequest(p)
	return nil
}

func (r *UpdateSettingsRequest) Validate() error {
	if len(r.unknownKeys) > 0 {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("Invalid settings: %s", strings.Join(r.unknownKeys, ", ")))
	}
	return validation.Validate(r)
}

func (r *UpdateSettingsRequest) toPatch() models.SettingsPatch {
	p := models.SettingsPatch{
		Timezone:   r.Timezone,
		DateFormat: r.DateFormat,
		Language:   r.Language,
	}
	if r.NotificationPreferences != nil {
		p.NotificationPreferences = &models.NotificationPreferences{
			Email: r.NotificationPreferences.Email,
			Slack: r.NotificationPreferences.Slack,
		}
	}
	return p
}

// metadataKeys is the closed key set for metadata updates.
var metadataKeys = map[string]struct{}{
	"industry":       {},
	"subIndustry":    {},
	"companySize":    {},
	"region":         {},
	"country":        {},
	"primaryContact": {},
	"tags":           {},
}

// UpdateMetadataRequest is the partial metadata update payload. Same closed
// key set discipline as settings.
type UpdateMetadataRequest struct {
	Industry       *string                `json:"industry" validate:"omitempty,oneof=Technology Finance Healthcare Education Retail Other"`
	SubIndustry    *string                `json:"subIndustry" validate:"omitempty,max=100"`
	CompanySize    *string                `json:"companySize" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Region         *string                `json:"region" validate:"omitempty,notblank"`
	Country        *string                `json:"country" validate:"omitempty,country"`
	PrimaryContact *PrimaryContactPayload `json:"primaryContact" validate:"omitempty"`
	Tags           *[]string              `json:"tags" validate:"omitempty,dive,max=50"`

	unknownKeys []string
}

func (r *UpdateMetadataRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.unknownKeys = unknownKeysOf(raw, metadataKeys)

	type plain UpdateMetadataRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.unknownKeys = r.unknownKeys
	*r = UpdateMetadataRequest(p)
	return nil
}

func (r *UpdateMetadataRequest) Validate() error {
	if len(r.unknownKeys) > 0 {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("Invalid metadata fields: %s", strings.Join(r.unknownKeys, ", ")))
	}
	return validation.Validate(r)
}

func (r *UpdateMetadataRequest) toPatch() models.MetadataPatch {
	p := models.MetadataPatch{
		SubIndustry: r.SubIndustry,
		Region:      r.Region,
		Country:     r.Country,
		Tags:        r.Tags,
	}
	if r.Industry != nil {
		v := models.Industry(*r.Industry)
		p.Industry = &v
	}
	if r.CompanySize != nil {
		v := models.CompanySize(*r.CompanySize)
		p.CompanySize = &v
	}
	if r.PrimaryContact != nil {
		p.PrimaryContact = &models.PrimaryContact{
			Name:     strings.TrimSpace(r.PrimaryContact.Name),
			Position: strings.TrimSpace(r.PrimaryContact.Position),
			Phone:    strings.TrimSpace(r.PrimaryContact.Phone),
		}
	}
	return p
}

// BulkDeleteRequest targets a batch of tenants for deletion.
type BulkDeleteRequest struct {
	TenantIDs []string `json:"tenantIds"`
}

func (r *BulkDeleteRequest) Validate() error {
	return validateIDBatch(r.TenantIDs)
}

func (r *BulkDeleteRequest) parsedIDs() []id.TenantID {
	return parseIDBatch(r.TenantIDs)
}

// BulkStatusRequest applies one status transition uniformly to a batch.
type BulkStatusRequest struct {
	TenantIDs []string `json:"tenantIds"`
	Status    string   `json:"status" validate:"required,oneof=active inactive suspended"`
	Reason    string   `json:"reason" validate:"required,notblank,max=500"`
}

func (r *BulkStatusRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *BulkStatusRequest) Validate() error {
	if err := validateIDBatch(r.TenantIDs); err != nil {
		return err
	}
	return validation.Validate(r)
}

func (r *BulkStatusRequest) parsedIDs() []id.TenantID {
	return parseIDBatch(r.TenantIDs)
}

// validateIDBatch enforces the all-or-nothing shape check on bulk id lists:
// an empty list is rejected, and a single malformed id fails the whole batch
// with every offending id named.
func validateIDBatch(ids []string) error {
	if len(ids) == 0 {
		return dErrors.New(dErrors.CodeValidation, "No tenant IDs provided")
	}
	var bad []string
	for _, s := range ids {
		if !id.IsValidTenantID(s) {
			bad = append(bad, s)
		}
	}
	if len(bad) > 0 {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("Invalid tenant ID format: %s", strings.Join(bad, ", ")))
	}
	return nil
}

// unknownKeysOf reports payload keys outside the allowed set, sorted so the
// resulting message is stable.
func unknownKeysOf(raw map[string]json.RawMessage, allowed map[string]struct{}) []string {
	var unknown []string
	for k := range raw {
		if _, ok := allowed[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// parseIDBatch converts an already-validated id list.
func parseIDBatch(ids []string) []id.TenantID {
	out := make([]id.TenantID, 0, len(ids))
	for _, s := range ids {
		tid, err := id.ParseTenantID(s)
		if err != nil {
			continue
		}
		out = append(out, tid)
	}
	return out
}
