package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/armonia-saas/access-service-go/internal/errors"
	"github.com/armonia-saas/access-service-go/internal/model"
	"github.com/armonia-saas/access-service-go/internal/qr"
	"github.com/armonia-saas/access-service-go/internal/repository"
	"github.com/armonia-saas/access-service-go/internal/util"
)

const (
	// Log entries eagerly attached to each pass in list views.
	recentLogLimit = 5

	defaultPageSize = 10
	maxPageSize     = 100
)

// GenerateAccessPassParams is the input for minting a pass.
type GenerateAccessPassParams struct {
	VisitorName    string
	DocumentType   model.DocumentType
	DocumentNumber string
	Destination    string
	ResidentID     *int64
	ResidentName   *string
	ValidFrom      time.Time
	ValidUntil     time.Time
	PassType       model.PassType
	CreatedBy      int64
	PreRegisterID  *int64
	Notes          *string
}

// RegisterUsageParams describes one scan event at a gate.
type RegisterUsageParams struct {
	Action       model.LogAction
	Location     string
	RegisteredBy int64
	Notes        *string
}

// RevokeParams describes an explicit revocation.
type RevokeParams struct {
	RevokedBy int64
	Reason    string
}

// ValidationResult is the verdict for a presented pass code. Message is the
// user-facing text shown at the gate. Pass is nil only when the code matched
// nothing.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message"`
	Pass    *model.AccessPass `json:"pass,omitempty"`
}

// UsageResult pairs the appended log entry with the (possibly updated) pass.
type UsageResult struct {
	AccessLog *model.AccessLog  `json:"accessLog"`
	Pass      *model.AccessPass `json:"pass"`
}

// AccessPassService owns the pass lifecycle: creation, validation, usage
// registration and revocation.
type AccessPassService struct {
	passRepo repository.AccessPassRepository
	logRepo  repository.AccessLogRepository
	encoder  *qr.Encoder
}

// NewAccessPassService creates a new access pass service
func NewAccessPassService(
	passRepo repository.AccessPassRepository,
	logRepo repository.AccessLogRepository,
	encoder *qr.Encoder,
) *AccessPassService {
	return &AccessPassService{
		passRepo: passRepo,
		logRepo:  logRepo,
		encoder:  encoder,
	}
}

// Generate mints an ACTIVE pass and renders its QR artifact. A QR encoding
// failure aborts the whole call; it is not a best-effort side effect.
func (s *AccessPassService) Generate(ctx context.Context, params GenerateAccessPassParams) (*model.AccessPass, error) {
	if err := validateGenerateParams(params); err != nil {
		return nil, err
	}

	passCode, err := s.allocatePassCode(ctx)
	if err != nil {
		return nil, err
	}

	var maxUsage *int
	if params.PassType == model.PassTypeSingleUse {
		one := 1
		maxUsage = &one
	}

	pass, err := s.passRepo.Create(ctx, model.CreateAccessPassParams{
		PassCode:       passCode,
		VisitorName:    params.VisitorName,
		DocumentType:   params.DocumentType,
		DocumentNumber: params.DocumentNumber,
		Destination:    params.Destination,
		ResidentID:     params.ResidentID,
		ResidentName:   params.ResidentName,
		ValidFrom:      params.ValidFrom,
		ValidUntil:     params.ValidUntil,
		PassType:       params.PassType,
		MaxUsageCount:  maxUsage,
		CreatedBy:      params.CreatedBy,
		PreRegisterID:  params.PreRegisterID,
		Notes:          params.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create access pass: %w", err)
	}

	qrResult, err := s.encodePass(pass)
	if err != nil {
		return nil, err
	}

	updated, err := s.passRepo.SetQRCodeURL(ctx, pass.ID, qrResult.DataURL)
	if err != nil {
		return nil, fmt.Errorf("store qr url: %w", err)
	}

	log.Info().
		Str("passCode", util.MaskCode(passCode)).
		Str("passType", string(params.PassType)).
		Time("validUntil", params.ValidUntil).
		Int64("createdBy", params.CreatedBy).
		Msg("access pass created")

	return updated, nil
}

func validateGenerateParams(params GenerateAccessPassParams) error {
	if params.VisitorName == "" {
		return apperrors.MissingRequired("visitorName")
	}
	if params.DocumentType == "" {
		return apperrors.MissingRequired("documentType")
	}
	if params.DocumentNumber == "" {
		return apperrors.MissingRequired("documentNumber")
	}
	if params.Destination == "" {
		return apperrors.MissingRequired("destination")
	}
	if !params.DocumentType.Valid() {
		return apperrors.InvalidInput("documentType", "unknown value")
	}
	if !params.PassType.Valid() {
		return apperrors.InvalidInput("passType", "unknown value")
	}
	if params.ValidFrom.IsZero() {
		return apperrors.MissingRequired("validFrom")
	}
	if params.ValidUntil.IsZero() {
		return apperrors.MissingRequired("validUntil")
	}
	if !params.ValidFrom.Before(params.ValidUntil) {
		return apperrors.InvalidDateRange("validFrom must be strictly before validUntil")
	}
	return nil
}

func (s *AccessPassService) allocatePassCode(ctx context.Context) (string, error) {
	for attempts := 0; attempts < codeAllocationAttempts; attempts++ {
		code := newCode(8)
		existing, err := s.passRepo.FindByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check pass code: %w", err)
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", apperrors.Internal("could not allocate a unique pass code")
}

func (s *AccessPassService) encodePass(pass *model.AccessPass) (*qr.Result, error) {
	result, err := s.encoder.Encode(qr.Payload{
		ID:             pass.ID,
		Code:           pass.PassCode,
		VisitorName:    pass.VisitorName,
		DocumentNumber: pass.DocumentNumber,
		ValidUntil:     pass.ValidUntil,
		Type:           string(pass.PassType),
		Timestamp:      time.Now(),
	})
	if err != nil {
		return nil, apperrors.QREncoding(err)
	}
	return result, nil
}

// GenerateQR re-renders the QR artifact for an existing pass. Semantically
// idempotent; the embedded issue timestamp differs between calls.
func (s *AccessPassService) GenerateQR(ctx context.Context, passID int64) (*qr.Result, error) {
	pass, err := s.passRepo.FindByID(ctx, passID)
	if err != nil {
		return nil, fmt.Errorf("find access pass: %w", err)
	}
	if pass == nil {
		return nil, apperrors.NotFound("Access pass")
	}
	return s.encodePass(pass)
}

// Validate checks a presented pass code. Not read-only: the first observation
// of an ACTIVE pass past its window or usage budget persists the terminal
// state (lazy reconciliation), split into reconcile then classify so the side
// effect stays visible.
func (s *AccessPassService) Validate(ctx context.Context, passCode string) (*ValidationResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(passCode))

	pass, err := s.passRepo.FindByCode(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("find access pass: %w", err)
	}
	if pass == nil {
		log.Warn().Str("passCode", util.MaskCode(normalized)).Msg("unknown pass code presented")
		return &ValidationResult{Valid: false, Message: "Pase de acceso no encontrado"}, nil
	}

	pass, reconciled, err := s.reconcile(ctx, pass)
	if err != nil {
		return nil, err
	}

	result := classify(pass, reconciled)

	log.Info().
		Str("passCode", util.MaskCode(normalized)).
		Bool("valid", result.Valid).
		Str("status", string(pass.Status)).
		Msg("access pass validated")

	return result, nil
}

// reconcile folds a stale ACTIVE status into its terminal state and persists
// the transition. Returns the possibly-updated pass and whether a transition
// happened in this call.
func (s *AccessPassService) reconcile(ctx context.Context, pass *model.AccessPass) (*model.AccessPass, bool, error) {
	if pass.Status != model.PassStatusActive {
		return pass, false, nil
	}

	now := time.Now()
	switch {
	case pass.IsExpired(now):
		if err := s.passRepo.UpdateStatus(ctx, pass.ID, model.PassStatusExpired); err != nil {
			return nil, false, fmt.Errorf("expire access pass: %w", err)
		}
		pass.Status = model.PassStatusExpired
		return pass, true, nil
	case pass.IsExhausted():
		if err := s.passRepo.UpdateStatus(ctx, pass.ID, model.PassStatusUsed); err != nil {
			return nil, false, fmt.Errorf("exhaust access pass: %w", err)
		}
		pass.Status = model.PassStatusUsed
		return pass, true, nil
	}
	return pass, false, nil
}

// classify turns a reconciled pass into a verdict. Exhaustive over
// PassStatus so a new state cannot silently fall through.
func classify(pass *model.AccessPass, reconciled bool) *ValidationResult {
	switch pass.Status {
	case model.PassStatusActive:
		return &ValidationResult{Valid: true, Message: "Pase válido", Pass: pass}
	case model.PassStatusUsed:
		if reconciled {
			return &ValidationResult{Valid: false, Message: "Pase de un solo uso ya utilizado", Pass: pass}
		}
		return &ValidationResult{Valid: false, Message: "Pase ya utilizado", Pass: pass}
	case model.PassStatusExpired:
		return &ValidationResult{Valid: false, Message: "Pase expirado", Pass: pass}
	case model.PassStatusRevoked:
		return &ValidationResult{Valid: false, Message: "Pase revocado", Pass: pass}
	default:
		return &ValidationResult{Valid: false, Message: "Pase en estado desconocido", Pass: pass}
	}
}

// RegisterUsage appends a ledger entry for a scan. ENTRY consumes the pass:
// the usage counter increments, and a single-use pass becomes USED. This call
// does not re-validate; the caller is expected to have validated first.
func (s *AccessPassService) RegisterUsage(ctx context.Context, passID int64, params RegisterUsageParams) (*UsageResult, error) {
	if !params.Action.Valid() {
		return nil, apperrors.InvalidInput("action", "unknown value")
	}
	if params.Location == "" {
		return nil, apperrors.MissingRequired("location")
	}

	pass, err := s.passRepo.FindByID(ctx, passID)
	if err != nil {
		return nil, fmt.Errorf("find access pass: %w", err)
	}
	if pass == nil {
		return nil, apperrors.NotFound("Access pass")
	}

	entry, err := s.logRepo.Create(ctx, model.CreateAccessLogParams{
		AccessPassID: passID,
		Action:       params.Action,
		Location:     params.Location,
		Notes:        params.Notes,
		RegisteredBy: params.RegisteredBy,
	})
	if err != nil {
		return nil, fmt.Errorf("append access log: %w", err)
	}

	if params.Action == model.LogActionEntry {
		status := pass.Status
		if pass.PassType == model.PassTypeSingleUse {
			status = model.PassStatusUsed
		}
		updated, err := s.passRepo.RegisterEntry(ctx, passID, status)
		if err != nil {
			return nil, fmt.Errorf("register entry: %w", err)
		}
		pass = updated
	}

	log.Info().
		Int64("passId", passID).
		Str("action", string(params.Action)).
		Str("location", params.Location).
		Int("usageCount", pass.UsageCount).
		Msg("pass usage registered")

	return &UsageResult{AccessLog: entry, Pass: pass}, nil
}

// Revoke forces a pass into REVOKED, whatever its current state. The reason
// is appended to the notes and a DENIED entry is written against the system
// location.
func (s *AccessPassService) Revoke(ctx context.Context, passID int64, params RevokeParams) (*model.AccessPass, error) {
	pass, err := s.passRepo.FindByID(ctx, passID)
	if err != nil {
		return nil, fmt.Errorf("find access pass: %w", err)
	}
	if pass == nil {
		return nil, apperrors.NotFound("Access pass")
	}

	notes := appendNote(pass.Notes, "Revocado: "+params.Reason)
	updated, err := s.passRepo.UpdateStatusAndNotes(ctx, passID, model.PassStatusRevoked, notes)
	if err != nil {
		return nil, fmt.Errorf("revoke access pass: %w", err)
	}

	revokeNote := "Pase revocado: " + params.Reason
	if _, err := s.logRepo.Create(ctx, model.CreateAccessLogParams{
		AccessPassID: passID,
		Action:       model.LogActionDenied,
		Location:     "Sistema",
		Notes:        &revokeNote,
		RegisteredBy: params.RevokedBy,
	}); err != nil {
		return nil, fmt.Errorf("append revocation log: %w", err)
	}

	log.Info().
		Int64("passId", passID).
		Int64("revokedBy", params.RevokedBy).
		Str("reason", params.Reason).
		Msg("access pass revoked")

	return updated, nil
}

// appendNote appends a line to an optional notes field, preserving what was
// there before.
func appendNote(existing *string, line string) string {
	if existing != nil && *existing != "" {
		return *existing + "\n" + line
	}
	return line
}

// List returns one page of passes with their five most recent log entries.
func (s *AccessPassService) List(ctx context.Context, filter model.AccessPassFilter) (*model.AccessPassPage, error) {
	normalizePageFilter(&filter.Page, &filter.Limit)

	passes, total, err := s.passRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list access passes: %w", err)
	}

	for i := range passes {
		logs, err := s.logRepo.FindByPassID(ctx, passes[i].ID, recentLogLimit)
		if err != nil {
			return nil, fmt.Errorf("load recent logs: %w", err)
		}
		passes[i].AccessLogs = logs
	}

	return &model.AccessPassPage{
		Data:       passes,
		Pagination: model.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}

// GetByID returns a pass with its full log history.
func (s *AccessPassService) GetByID(ctx context.Context, id int64) (*model.AccessPass, error) {
	pass, err := s.passRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find access pass: %w", err)
	}
	if pass == nil {
		return nil, apperrors.NotFound("Access pass")
	}

	logs, err := s.logRepo.FindByPassID(ctx, id, 0)
	if err != nil {
		return nil, fmt.Errorf("load access logs: %w", err)
	}
	pass.AccessLogs = logs
	return pass, nil
}

func normalizePageFilter(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = defaultPageSize
	}
	if *limit > maxPageSize {
		*limit = maxPageSize
	}
}
