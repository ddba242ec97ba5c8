package model

import (
	"time"
)

// PreRegisteredVisitor is a visitor announced ahead of arrival by a resident.
// It may own at most one access pass, minted synchronously at creation time.
type PreRegisteredVisitor struct {
	ID                  int64                 `db:"id" json:"id"`
	RegistrationCode    string                `db:"registration_code" json:"registrationCode"`
	VisitorName         string                `db:"visitor_name" json:"visitorName"`
	DocumentType        DocumentType          `db:"document_type" json:"documentType"`
	DocumentNumber      string                `db:"document_number" json:"documentNumber"`
	Purpose             *string               `db:"purpose" json:"purpose,omitempty"`
	ExpectedArrivalDate time.Time             `db:"expected_arrival_date" json:"expectedArrivalDate"`
	ValidUntil          time.Time             `db:"valid_until" json:"validUntil"`
	Status              PreRegistrationStatus `db:"status" json:"status"`
	ResidentID          int64                 `db:"resident_id" json:"residentId"`
	ResidentName        string                `db:"resident_name" json:"residentName"`
	ResidentUnit        string                `db:"resident_unit" json:"residentUnit"`
	AccessPassID        *int64                `db:"access_pass_id" json:"accessPassId,omitempty"`
	VisitorEmail        *string               `db:"visitor_email" json:"visitorEmail,omitempty"`
	VisitorPhone        *string               `db:"visitor_phone" json:"visitorPhone,omitempty"`
	Notes               *string               `db:"notes" json:"notes,omitempty"`
	CreatedAt           time.Time             `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time             `db:"updated_at" json:"updatedAt"`

	// Owned pass, populated by reads that include the relation.
	AccessPass *AccessPass `db:"-" json:"accessPass,omitempty"`
}

// HasContactInfo reports whether at least one notification channel is on file.
func (v *PreRegisteredVisitor) HasContactInfo() bool {
	return (v.VisitorEmail != nil && *v.VisitorEmail != "") ||
		(v.VisitorPhone != nil && *v.VisitorPhone != "")
}

// CreatePreRegistrationParams are the fields persisted for a new pre-registration.
type CreatePreRegistrationParams struct {
	RegistrationCode    string
	VisitorName         string
	DocumentType        DocumentType
	DocumentNumber      string
	Purpose             *string
	ExpectedArrivalDate time.Time
	ValidUntil          time.Time
	ResidentID          int64
	ResidentName        string
	ResidentUnit        string
	VisitorEmail        *string
	VisitorPhone        *string
	Notes               *string
}

// UpdatePreRegistrationParams is a partial update; nil fields are left untouched.
type UpdatePreRegistrationParams struct {
	VisitorName         *string
	Purpose             *string
	ExpectedArrivalDate *time.Time
	ValidUntil          *time.Time
	Notes               *string
	VisitorEmail        *string
	VisitorPhone        *string
}

// PreRegistrationFilter narrows List queries. Zero values mean "no filter".
type PreRegistrationFilter struct {
	Page       int
	Limit      int
	Status     PreRegistrationStatus
	ResidentID *int64
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// PreRegistrationPage is a page of pre-registrations plus the envelope.
type PreRegistrationPage struct {
	Data       []PreRegisteredVisitor `json:"data"`
	Pagination Pagination             `json:"pagination"`
}
