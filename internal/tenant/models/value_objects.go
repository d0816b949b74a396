package models

// Status is the lifecycle state of a tenant. Any status may transition to any
// other, including itself, as long as a reason accompanies the change.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Industry is the business sector of a tenant.
type Industry string

const (
	IndustryTechnology Industry = "Technology"
	IndustryFinance    Industry = "Finance"
	IndustryHealthcare Industry = "Healthcare"
	IndustryEducation  Industry = "Education"
	IndustryRetail     Industry = "Retail"
	IndustryOther      Industry = "Other"
)

func (i Industry) Valid() bool {
	switch i {
	case IndustryTechnology, IndustryFinance, IndustryHealthcare,
		IndustryEducation, IndustryRetail, IndustryOther:
		return true
	}
	return false
}

func (i Industry) String() string { return string(i) }

// SubscriptionTier is the billed plan of a tenant.
type SubscriptionTier string

const (
	TierBasic        SubscriptionTier = "Basic"
	TierProfessional SubscriptionTier = "Professional"
	TierEnterprise   SubscriptionTier = "Enterprise"
)

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierBasic, TierProfessional, TierEnterprise:
		return true
	}
	return false
}

// ComplianceLevel is the regulatory posture of a tenant.
type ComplianceLevel string

const (
	ComplianceStandard ComplianceLevel = "Standard"
	ComplianceEnhanced ComplianceLevel = "Enhanced"
	CompliancePremium  ComplianceLevel = "Premium"
)

func (c ComplianceLevel) Valid() bool {
	switch c {
	case ComplianceStandard, ComplianceEnhanced, CompliancePremium:
		return true
	}
	return false
}

// CompanySize is a headcount bracket.
type CompanySize string

const (
	Size1To10        CompanySize = "1-10"
	Size11To50       CompanySize = "11-50"
	Size51To200      CompanySize = "51-200"
	Size201To500     CompanySize = "201-500"
	Size501To1000    CompanySize = "501-1000"
	SizeOverThousand CompanySize = "1000+"
)

func (c CompanySize) Valid() bool {
	switch c {
	case Size1To10, Size11To50, Size51To200, Size201To500, Size501To1000, SizeOverThousand:
		return true
	}
	return false
}
