package model

import (
	"time"
)

// Notification is an informational entry recorded for a resident. Delivery
// over email or SMS is handled by an external gateway; this row is the record
// of the attempt.
type Notification struct {
	ID        int64            `db:"id" json:"id"`
	UserID    int64            `db:"user_id" json:"userId"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Type      NotificationType `db:"type" json:"type"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// CreateNotificationParams are the fields persisted for a new notification.
type CreateNotificationParams struct {
	UserID  int64
	Title   string
	Message string
	Type    NotificationType
}
