// Package models holds the tenant document shape and the invariants enforced
// at write time. Field-level input validation lives with the request types;
// entity methods own the rules that must hold no matter who calls them.
package models

import (
	"strings"
	"time"
	"unicode/utf8"

	id "tenantadmin/pkg/domain"
	dErrors "tenantadmin/pkg/domain-errors"
)

// SystemActor is recorded on status history entries when no authenticated
// caller is present.
const SystemActor = "system"

// StatusHistoryEntry is one record of the append-only status audit trail.
// Entries are never mutated or removed.
type StatusHistoryEntry struct {
	Status    Status    `bson:"status" json:"status"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	ChangedAt time.Time `bson:"changedAt" json:"changedAt"`
	ChangedBy string    `bson:"changedBy" json:"changedBy"`
}

// NotificationPreferences toggles per-channel notifications.
type NotificationPreferences struct {
	Email bool `bson:"email" json:"email"`
	Slack bool `bson:"slack" json:"slack"`
}

// Settings is the per-tenant configuration record. One per tenant, owned by
// the tenant document.
type Settings struct {
	Timezone                string                  `bson:"timezone" json:"timezone"`
	DateFormat              string                  `bson:"dateFormat" json:"dateFormat"`
	Language                string                  `bson:"language" json:"language"`
	NotificationPreferences NotificationPreferences `bson:"notificationPreferences" json:"notificationPreferences"`
}

// DefaultSettings are applied at tenant creation.
func DefaultSettings() Settings {
	return Settings{
		Timezone:   "UTC",
		DateFormat: "MM/DD/YYYY",
		Language:   "en-US",
		NotificationPreferences: NotificationPreferences{
			Email: true,
			Slack: false,
		},
	}
}

// PrimaryContact identifies the person to reach about a tenant.
type PrimaryContact struct {
	Name     string `bson:"name,omitempty" json:"name,omitempty"`
	Position string `bson:"position,omitempty" json:"position,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Metadata is the descriptive profile of a tenant. Required at creation.
type Metadata struct {
	Industry       Industry        `bson:"industry" json:"industry"`
	SubIndustry    string          `bson:"subIndustry,omitempty" json:"subIndustry,omitempty"`
	CompanySize    CompanySize     `bson:"companySize,omitempty" json:"companySize,omitempty"`
	Region         string          `bson:"region" json:"region"`
	Country        string          `bson:"country" json:"country"`
	PrimaryContact *PrimaryContact `bson:"primaryContact,omitempty" json:"primaryContact,omitempty"`
	Tags           []string        `bson:"tags,omitempty" json:"tags,omitempty"`
}

// Tenant is the root entity: a managed organization record. It exclusively
// owns its embedded Settings, Metadata, and StatusHistory.
type Tenant struct {
	ID               id.TenantID          `bson:"_id" json:"id"`
	Name             string               `bson:"name" json:"name"`
	Industry         Industry             `bson:"industry" json:"industry"`
	ContactEmail     string               `bson:"contact_email" json:"contact_email"`
	SubscriptionTier SubscriptionTier     `bson:"subscription_tier" json:"subscription_tier"`
	ComplianceLevel  ComplianceLevel      `bson:"compliance_level" json:"compliance_level"`
	Status           Status               `bson:"status" json:"status"`
	StatusReason     string               `bson:"statusReason,omitempty" json:"statusReason,omitempty"`
	StatusChangedAt  time.Time            `bson:"statusChangedAt" json:"statusChangedAt"`
	StatusHistory    []StatusHistoryEntry `bson:"statusHistory" json:"statusHistory"`
	Settings         Settings             `bson:"settings" json:"settings"`
	Metadata         Metadata             `bson:"metadata" json:"metadata"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
}

// NewTenant constructs a tenant with defaults applied: active status, default
// settings, and the initial status history entry for the creation transition.
// Inputs are assumed validated; the email is lowercased here so the unique
// index is case-insensitive by construction.
func NewTenant(name string, industry Industry, contactEmail string, tier SubscriptionTier,
	compliance ComplianceLevel, metadata Metadata, now time.Time, actor string) *Tenant {
	if actor == "" {
		actor = SystemActor
	}
	return &Tenant{
		ID:               id.NewTenantID(),
		Name:             strings.TrimSpace(name),
		Industry:         industry,
		ContactEmail:     strings.ToLower(strings.TrimSpace(contactEmail)),
		SubscriptionTier: tier,
		ComplianceLevel:  compliance,
		Status:           StatusActive,
		StatusChangedAt:  now,
		StatusHistory: []StatusHistoryEntry{{
			Status:    StatusActive,
			ChangedAt: now,
			ChangedBy: actor,
		}},
		Settings:  DefaultSettings(),
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the tenant is currently active.
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// ChangeStatus transitions the tenant to the given status and appends exactly
// one history entry. There is no restricted transition graph: any status may
// move to any other, including itself.
func (t *Tenant) ChangeStatus(status Status, reason string, now time.Time, actor string) error {
	if !status.Valid() {
		return dErrors.New(dErrors.CodeValidation, "Invalid status value")
	}
	if actor == "" {
		actor = SystemActor
	}
	t.Status = status
	t.StatusReason = reason
	t.StatusChangedAt = now
	t.StatusHistory = append(t.StatusHistory, StatusHistoryEntry{
		Status:    status,
		Reason:    reason,
		ChangedAt: now,
		ChangedBy: actor,
	})
	t.UpdatedAt = now
	return nil
}

// SettingsPatch carries the settings keys present in a partial update.
// Nil fields were absent from the payload and leave the stored value alone.
type SettingsPatch struct {
	Timezone                *string
	DateFormat              *string
	Language                *string
	NotificationPreferences *NotificationPreferences
}

// ApplySettings shallow-merges the patch over the tenant's settings.
func (t *Tenant) ApplySettings(p SettingsPatch, now time.Time) {
	if p.Timezone != nil {
		t.Settings.Timezone = *p.Timezone
	}
	if p.DateFormat != nil {
		t.Settings.DateFormat = *p.DateFormat
	}
	if p.Language != nil {
		t.Settings.Language = *p.Language
	}
	if p.NotificationPreferences != nil {
		t.Settings.NotificationPreferences = *p.NotificationPreferences
	}
	t.UpdatedAt = now
}

// MetadataPatch carries the metadata keys present in a partial update.
type MetadataPatch struct {
	Industry       *Industry
	SubIndustry    *string
	CompanySize    *CompanySize
	Region         *string
	Country        *string
	PrimaryContact *PrimaryContact
	Tags           *[]string
}

// ApplyMetadata shallow-merges the patch over the tenant's metadata.
func (t *Tenant) ApplyMetadata(p MetadataPatch, now time.Time) {
	if p.Industry != nil {
		t.Metadata.Industry = *p.Industry
	}
	if p.SubIndustry != nil {
		t.Metadata.SubIndustry = *p.SubIndustry
	}
	if p.CompanySize != nil {
		t.Metadata.CompanySize = *p.CompanySize
	}
	if p.Region != nil {
		t.Metadata.Region = *p.Region
	}
	if p.Country != nil {
		t.Metadata.Country = *p.Country
	}
	if p.PrimaryContact != nil {
		t.Metadata.PrimaryContact = p.PrimaryContact
	}
	if p.Tags != nil {
		t.Metadata.Tags = *p.Tags
	}
	t.UpdatedAt = now
}

// Patch carries the updatable top-level fields of a tenant. Only fields the
// update operation validates may reach the document.
type Patch struct {
	Name             *string
	Industry         *Industry
	ContactEmail     *string
	SubscriptionTier *SubscriptionTier
	ComplianceLevel  *ComplianceLevel
}

// Apply merges the patch over the tenant's top-level fields.
func (t *Tenant) Apply(p Patch, now time.Time) {
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Industry != nil {
		t.Industry = *p.Industry
	}
	if p.ContactEmail != nil {
		t.ContactEmail = strings.ToLower(strings.TrimSpace(*p.ContactEmail))
	}
	if p.SubscriptionTier != nil {
		t.SubscriptionTier = *p.SubscriptionTier
	}
	if p.ComplianceLevel != nil {
		t.ComplianceLevel = *p.ComplianceLevel
	}
	t.UpdatedAt = now
}

// ValidateName applies the name rule shared by create and update: required,
// trimmed, 2-100 characters, not whitespace-only. Returns the trimmed name.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeValidation, "Name is required")
	}
	if utf8.RuneCountInString(trimmed) < 2 {
		return "", dErrors.New(dErrors.CodeValidation, "Name must be at least 2 characters")
	}
	if utf8.RuneCountInString(trimmed) > 100 {
		return "", dErrors.New(dErrors.CodeValidation, "Name cannot exceed 100 characters")
	}
	return trimmed, nil
}

// Clone returns a deep copy of the tenant. The in-memory store hands out
// copies so callers can mutate results without aliasing stored state.
func (t *Tenant) Clone() *Tenant {
	cp := *t
	cp.StatusHistory = append([]StatusHistoryEntry(nil), t.StatusHistory...)
	if t.Metadata.PrimaryContact != nil {
		contact := *t.Metadata.PrimaryContact
		cp.Metadata.PrimaryContact = &contact
	}
	cp.Metadata.Tags = append([]string(nil), t.Metadata.Tags...)
	return &cp
}
