package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/armonia-saas/access-service-go/internal/model"
)

// NotificationRepository handles resident notification records
type NotificationRepository interface {
	Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error)
	FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]model.Notification, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.GetContext(ctx, &notification, `
		INSERT INTO notifications (user_id, title, message, type, read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING *
	`, params.UserID, params.Title, params.Message, params.Type)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT * FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// DeleteReadBefore prunes read notifications older than the cutoff.
func (r *notificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE read = TRUE AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
