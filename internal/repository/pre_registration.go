package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/armonia-saas/access-service-go/internal/model"
)

// PreRegistrationRepository handles pre-registered visitor data operations
type PreRegistrationRepository interface {
	Create(ctx context.Context, params model.CreatePreRegistrationParams) (*model.PreRegisteredVisitor, error)
	FindByID(ctx context.Context, id int64) (*model.PreRegisteredVisitor, error)
	FindByCode(ctx context.Context, code string) (*model.PreRegisteredVisitor, error)
	List(ctx context.Context, filter model.PreRegistrationFilter) ([]model.PreRegisteredVisitor, int, error)
	LinkAccessPass(ctx context.Context, id, accessPassID int64) error
	UpdateStatusAndNotes(ctx context.Context, id int64, status model.PreRegistrationStatus, notes string) (*model.PreRegisteredVisitor, error)
	Update(ctx context.Context, id int64, params model.UpdatePreRegistrationParams) (*model.PreRegisteredVisitor, error)
}

type preRegistrationRepo struct {
	db *sqlx.DB
}

// NewPreRegistrationRepository creates a new pre-registration repository
func NewPreRegistrationRepository(db *sqlx.DB) PreRegistrationRepository {
	return &preRegistrationRepo{db: db}
}

func (r *preRegistrationRepo) Create(ctx context.Context, params model.CreatePreRegistrationParams) (*model.PreRegisteredVisitor, error) {
	var visitor model.PreRegisteredVisitor
	err := r.db.GetContext(ctx, &visitor, `
		INSERT INTO pre_registered_visitors (
			registration_code, visitor_name, document_type, document_number, purpose,
			expected_arrival_date, valid_until, status, resident_id, resident_name,
			resident_unit, visitor_email, visitor_phone, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'ACTIVE', $8, $9, $10, $11, $12, $13)
		RETURNING *
	`,
		params.RegistrationCode, params.VisitorName, params.DocumentType,
		params.DocumentNumber, params.Purpose, params.ExpectedArrivalDate,
		params.ValidUntil, params.ResidentID, params.ResidentName,
		params.ResidentUnit, params.VisitorEmail, params.VisitorPhone, params.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &visitor, nil
}

func (r *preRegistrationRepo) FindByID(ctx context.Context, id int64) (*model.PreRegisteredVisitor, error) {
	var visitor model.PreRegisteredVisitor
	err := r.db.GetContext(ctx, &visitor, `
		SELECT * FROM pre_registered_visitors WHERE id = $1
	`, id)
	return HandleNotFound(&visitor, err)
}

func (r *preRegistrationRepo) FindByCode(ctx context.Context, code string) (*model.PreRegisteredVisitor, error) {
	var visitor model.PreRegisteredVisitor
	err := r.db.GetContext(ctx, &visitor, `
		SELECT * FROM pre_registered_visitors WHERE registration_code = $1
	`, code)
	return HandleNotFound(&visitor, err)
}

func (r *preRegistrationRepo) List(ctx context.Context, filter model.PreRegistrationFilter) ([]model.PreRegisteredVisitor, int, error) {
	where, args := buildPreRegistrationWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM pre_registered_visitors" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(
		"SELECT * FROM pre_registered_visitors%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	var visitors []model.PreRegisteredVisitor
	if err := r.db.SelectContext(ctx, &visitors, query, args...); err != nil {
		return nil, 0, err
	}
	return visitors, total, nil
}

func buildPreRegistrationWhere(filter model.PreRegistrationFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.ResidentID != nil {
		add("resident_id = $%d", *filter.ResidentID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(visitor_name ILIKE $%d OR document_number LIKE $%d OR resident_name ILIKE $%d OR resident_unit ILIKE $%d OR registration_code ILIKE $%d)",
			n, n, n, n, n,
		))
	}
	if filter.StartDate != nil {
		add("expected_arrival_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("expected_arrival_date <= $%d", *filter.EndDate)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *preRegistrationRepo) LinkAccessPass(ctx context.Context, id, accessPassID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pre_registered_visitors
		SET access_pass_id = $1, updated_at = NOW()
		WHERE id = $2
	`, accessPassID, id)
	return err
}

func (r *preRegistrationRepo) UpdateStatusAndNotes(ctx context.Context, id int64, status model.PreRegistrationStatus, notes string) (*model.PreRegisteredVisitor, error) {
	var visitor model.PreRegisteredVisitor
	err := r.db.GetContext(ctx, &visitor, `
		UPDATE pre_registered_visitors
		SET status = $1, notes = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING *
	`, status, notes, id)
	if err != nil {
		return nil, err
	}
	return &visitor, nil
}

// Update applies a partial update; nil params leave the column untouched.
// Date ordering is intentionally not re-validated here.
func (r *preRegistrationRepo) Update(ctx context.Context, id int64, params model.UpdatePreRegistrationParams) (*model.PreRegisteredVisitor, error) {
	var visitor model.PreRegisteredVisitor
	err := r.db.GetContext(ctx, &visitor, `
		UPDATE pre_registered_visitors
		SET visitor_name          = COALESCE($1, visitor_name),
		    purpose               = COALESCE($2, purpose),
		    expected_arrival_date = COALESCE($3, expected_arrival_date),
		    valid_until           = COALESCE($4, valid_until),
		    notes                 = COALESCE($5, notes),
		    visitor_email         = COALESCE($6, visitor_email),
		    visitor_phone         = COALESCE($7, visitor_phone),
		    updated_at            = NOW()
		WHERE id = $8
		RETURNING *
	`,
		params.VisitorName, params.Purpose, params.ExpectedArrivalDate,
		params.ValidUntil, params.Notes, params.VisitorEmail, params.VisitorPhone, id,
	)
	if err != nil {
		return nil, err
	}
	return &visitor, nil
}
