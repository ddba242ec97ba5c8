package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/armonia-saas/access-service-go/internal/model"
)

// AccessLogRepository handles the append-only access ledger
type AccessLogRepository interface {
	Create(ctx context.Context, params model.CreateAccessLogParams) (*model.AccessLog, error)
	FindByPassID(ctx context.Context, passID int64, limit int) ([]model.AccessLog, error)
}

type accessLogRepo struct {
	db *sqlx.DB
}

// NewAccessLogRepository creates a new access log repository
func NewAccessLogRepository(db *sqlx.DB) AccessLogRepository {
	return &accessLogRepo{db: db}
}

func (r *accessLogRepo) Create(ctx context.Context, params model.CreateAccessLogParams) (*model.AccessLog, error) {
	var entry model.AccessLog
	err := r.db.GetContext(ctx, &entry, `
		INSERT INTO access_logs (access_pass_id, action, location, notes, registered_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.AccessPassID, params.Action, params.Location, params.Notes, params.RegisteredBy)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByPassID returns log entries for a pass, newest first. limit <= 0 means
// the full history.
func (r *accessLogRepo) FindByPassID(ctx context.Context, passID int64, limit int) ([]model.AccessLog, error) {
	var entries []model.AccessLog
	query := `
		SELECT * FROM access_logs
		WHERE access_pass_id = $1
		ORDER BY timestamp DESC
	`
	if limit > 0 {
		query += " LIMIT $2"
		if err := r.db.SelectContext(ctx, &entries, query, passID, limit); err != nil {
			return nil, err
		}
		return entries, nil
	}
	if err := r.db.SelectContext(ctx, &entries, query, passID); err != nil {
		return nil, err
	}
	return entries, nil
}
