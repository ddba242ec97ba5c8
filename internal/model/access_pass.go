package model

import (
	"time"
)

// AccessPass is a visitor access credential. The pass code is the 8-character
// human-presentable identifier, distinct from the surrogate id.
type AccessPass struct {
	ID             int64        `db:"id" json:"id"`
	PassCode       string       `db:"pass_code" json:"passCode"`
	VisitorName    string       `db:"visitor_name" json:"visitorName"`
	DocumentType   DocumentType `db:"document_type" json:"documentType"`
	DocumentNumber string       `db:"document_number" json:"documentNumber"`
	Destination    string       `db:"destination" json:"destination"`
	ResidentID     *int64       `db:"resident_id" json:"residentId,omitempty"`
	ResidentName   *string      `db:"resident_name" json:"residentName,omitempty"`
	ValidFrom      time.Time    `db:"valid_from" json:"validFrom"`
	ValidUntil     time.Time    `db:"valid_until" json:"validUntil"`
	PassType       PassType     `db:"pass_type" json:"passType"`
	Status         PassStatus   `db:"status" json:"status"`
	UsageCount     int          `db:"usage_count" json:"usageCount"`
	MaxUsageCount  *int         `db:"max_usage_count" json:"maxUsageCount,omitempty"`
	QRCodeURL      *string      `db:"qr_code_url" json:"qrCodeUrl,omitempty"`
	CreatedBy      int64        `db:"created_by" json:"createdBy"`
	PreRegisterID  *int64       `db:"pre_register_id" json:"preRegisterId,omitempty"`
	Notes          *string      `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`

	// Recent log entries, populated by list/detail reads only.
	AccessLogs []AccessLog `db:"-" json:"accessLogs,omitempty"`
}

// IsExpired reports whether the validity window has passed at t.
func (p *AccessPass) IsExpired(t time.Time) bool {
	return t.After(p.ValidUntil)
}

// IsExhausted reports whether a single-use pass has been consumed.
func (p *AccessPass) IsExhausted() bool {
	return p.PassType == PassTypeSingleUse && p.UsageCount >= 1
}

// CreateAccessPassParams are the fields persisted when minting a pass.
type CreateAccessPassParams struct {
	PassCode       string
	VisitorName    string
	DocumentType   DocumentType
	DocumentNumber string
	Destination    string
	ResidentID     *int64
	ResidentName   *string
	ValidFrom      time.Time
	ValidUntil     time.Time
	PassType       PassType
	MaxUsageCount  *int
	CreatedBy      int64
	PreRegisterID  *int64
	Notes          *string
}

// AccessPassFilter narrows List queries. Zero values mean "no filter".
type AccessPassFilter struct {
	Page      int
	Limit     int
	Status    PassStatus
	PassType  PassType
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// AccessPassPage is a page of passes plus the pagination envelope.
type AccessPassPage struct {
	Data       []AccessPass `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// Pagination describes a page of results.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the envelope for a total row count.
func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
