package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/armonia-saas/access-service-go/internal/model"
)

// AccessPassRepository handles access pass data operations
type AccessPassRepository interface {
	Create(ctx context.Context, params model.CreateAccessPassParams) (*model.AccessPass, error)
	FindByID(ctx context.Context, id int64) (*model.AccessPass, error)
	FindByCode(ctx context.Context, code string) (*model.AccessPass, error)
	List(ctx context.Context, filter model.AccessPassFilter) ([]model.AccessPass, int, error)
	SetQRCodeURL(ctx context.Context, id int64, dataURL string) (*model.AccessPass, error)
	UpdateStatus(ctx context.Context, id int64, status model.PassStatus) error
	RegisterEntry(ctx context.Context, id int64, status model.PassStatus) (*model.AccessPass, error)
	UpdateStatusAndNotes(ctx context.Context, id int64, status model.PassStatus, notes string) (*model.AccessPass, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type accessPassRepo struct {
	db *sqlx.DB
}

// NewAccessPassRepository creates a new access pass repository
func NewAccessPassRepository(db *sqlx.DB) AccessPassRepository {
	return &accessPassRepo{db: db}
}

func (r *accessPassRepo) Create(ctx context.Context, params model.CreateAccessPassParams) (*model.AccessPass, error) {
	var pass model.AccessPass
	err := r.db.GetContext(ctx, &pass, `
		INSERT INTO access_passes (
			pass_code, visitor_name, document_type, document_number, destination,
			resident_id, resident_name, valid_from, valid_until, pass_type,
			status, usage_count, max_usage_count, created_by, pre_register_id, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'ACTIVE', 0, $11, $12, $13, $14)
		RETURNING *
	`,
		params.PassCode, params.VisitorName, params.DocumentType, params.DocumentNumber,
		params.Destination, params.ResidentID, params.ResidentName, params.ValidFrom,
		params.ValidUntil, params.PassType, params.MaxUsageCount, params.CreatedBy,
		params.PreRegisterID, params.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

func (r *accessPassRepo) FindByID(ctx context.Context, id int64) (*model.AccessPass, error) {
	var pass model.AccessPass
	err := r.db.GetContext(ctx, &pass, `
		SELECT * FROM access_passes WHERE id = $1
	`, id)
	return HandleNotFound(&pass, err)
}

func (r *accessPassRepo) FindByCode(ctx context.Context, code string) (*model.AccessPass, error) {
	var pass model.AccessPass
	err := r.db.GetContext(ctx, &pass, `
		SELECT * FROM access_passes WHERE pass_code = $1
	`, code)
	return HandleNotFound(&pass, err)
}

// List applies the optional filters and returns one page ordered by creation
// time, newest first, plus the unpaged row count.
func (r *accessPassRepo) List(ctx context.Context, filter model.AccessPassFilter) ([]model.AccessPass, int, error) {
	where, args := buildAccessPassWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM access_passes" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(
		"SELECT * FROM access_passes%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	var passes []model.AccessPass
	if err := r.db.SelectContext(ctx, &passes, query, args...); err != nil {
		return nil, 0, err
	}
	return passes, total, nil
}

func buildAccessPassWhere(filter model.AccessPassFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.PassType != "" {
		add("pass_type = $%d", filter.PassType)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(visitor_name ILIKE $%d OR document_number LIKE $%d OR destination ILIKE $%d OR resident_name ILIKE $%d OR pass_code ILIKE $%d)",
			n, n, n, n, n,
		))
	}
	if filter.StartDate != nil {
		add("valid_from >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("valid_from <= $%d", *filter.EndDate)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *accessPassRepo) SetQRCodeURL(ctx context.Context, id int64, dataURL string) (*model.AccessPass, error) {
	var pass model.AccessPass
	err := r.db.GetContext(ctx, &pass, `
		UPDATE access_passes
		SET qr_code_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *
	`, dataURL, id)
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

func (r *accessPassRepo) UpdateStatus(ctx context.Context, id int64, status model.PassStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE access_passes
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	return err
}

// RegisterEntry increments the usage counter and writes the given status in
// one statement. The status is decided by the caller; last write wins.
func (r *accessPassRepo) RegisterEntry(ctx context.Context, id int64, status model.PassStatus) (*model.AccessPass, error) {
	var pass model.AccessPass
	err := r.db.GetContext(ctx, &pass, `
		UPDATE access_passes
		SET usage_count = usage_count + 1, status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *
	`, status, id)
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

func (r *accessPassRepo) UpdateStatusAndNotes(ctx context.Context, id int64, status model.PassStatus, notes string) (*model.AccessPass, error) {
	var pass model.AccessPass
	err := r.db.GetContext(ctx, &pass, `
		UPDATE access_passes
		SET status = $1, notes = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING *
	`, status, notes, id)
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

// ExpireOverdue marks every ACTIVE pass whose window has passed as EXPIRED.
// The same transition the validation path applies lazily, batched.
func (r *accessPassRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE access_passes
		SET status = 'EXPIRED', updated_at = NOW()
		WHERE status = 'ACTIVE' AND valid_until < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
