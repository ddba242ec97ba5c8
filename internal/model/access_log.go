package model

import (
	"time"
)

// AccessLog is an append-only record of an entry, exit or denial tied to a
// pass. Rows are created only by the access pass service.
type AccessLog struct {
	ID           int64     `db:"id" json:"id"`
	AccessPassID int64     `db:"access_pass_id" json:"accessPassId"`
	Action       LogAction `db:"action" json:"action"`
	Location     string    `db:"location" json:"location"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	RegisteredBy int64     `db:"registered_by" json:"registeredBy"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
}

// CreateAccessLogParams are the fields persisted for a new log row.
type CreateAccessLogParams struct {
	AccessPassID int64
	Action       LogAction
	Location     string
	Notes        *string
	RegisteredBy int64
}
