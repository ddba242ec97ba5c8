package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/armonia-saas/access-service-go/internal/errors"
	"github.com/armonia-saas/access-service-go/internal/model"
	"github.com/armonia-saas/access-service-go/internal/repository"
)

// PassMinter is the slice of the access pass service the pre-registration
// flow depends on.
type PassMinter interface {
	Generate(ctx context.Context, params GenerateAccessPassParams) (*model.AccessPass, error)
	Revoke(ctx context.Context, passID int64, params RevokeParams) (*model.AccessPass, error)
}

var _ PassMinter = (*AccessPassService)(nil)

// CreatePreRegistrationInput is the input for announcing a visitor.
type CreatePreRegistrationInput struct {
	VisitorName         string
	DocumentType        model.DocumentType
	DocumentNumber      string
	Purpose             *string
	ExpectedArrivalDate time.Time
	ValidUntil          time.Time
	ResidentID          int64
	ResidentName        string
	ResidentUnit        string
	GeneratePass        bool
	PassType            model.PassType
	Notes               *string
	NotifyVisitor       bool
	VisitorEmail        *string
	VisitorPhone        *string
}

// CreatePreRegistrationResult carries the stored pre-registration (with its
// pass relation loaded) and the pass minted in this call, if any.
type CreatePreRegistrationResult struct {
	PreRegistration *model.PreRegisteredVisitor `json:"preRegistration"`
	AccessPass      *model.AccessPass           `json:"accessPass,omitempty"`
}

// CancelParams describes an explicit cancellation.
type CancelParams struct {
	CancelledBy int64
	Reason      string
}

// NotifyParams identifies the pre-registration to notify about.
type NotifyParams struct {
	PreRegistrationID int64
	AccessPassID      *int64
}

// PreRegistrationService owns the visitor pre-registration lifecycle,
// delegating pass minting to the access pass service and visitor alerts to
// the notifier.
type PreRegistrationService struct {
	preRegRepo repository.PreRegistrationRepository
	passRepo   repository.AccessPassRepository
	logRepo    repository.AccessLogRepository
	minter     PassMinter
	notifier   VisitorNotifier
}

// NewPreRegistrationService creates a new pre-registration service
func NewPreRegistrationService(
	preRegRepo repository.PreRegistrationRepository,
	passRepo repository.AccessPassRepository,
	logRepo repository.AccessLogRepository,
	minter PassMinter,
	notifier VisitorNotifier,
) *PreRegistrationService {
	return &PreRegistrationService{
		preRegRepo: preRegRepo,
		passRepo:   passRepo,
		logRepo:    logRepo,
		minter:     minter,
		notifier:   notifier,
	}
}

// Create persists an ACTIVE pre-registration and optionally mints a pass and
// notifies the visitor. Pass minting and notification are best-effort: their
// failure never aborts the pre-registration itself.
func (s *PreRegistrationService) Create(ctx context.Context, input CreatePreRegistrationInput) (*CreatePreRegistrationResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	code, err := s.allocateRegistrationCode(ctx)
	if err != nil {
		return nil, err
	}

	visitor, err := s.preRegRepo.Create(ctx, model.CreatePreRegistrationParams{
		RegistrationCode:    code,
		VisitorName:         input.VisitorName,
		DocumentType:        input.DocumentType,
		DocumentNumber:      input.DocumentNumber,
		Purpose:             input.Purpose,
		ExpectedArrivalDate: input.ExpectedArrivalDate,
		ValidUntil:          input.ValidUntil,
		ResidentID:          input.ResidentID,
		ResidentName:        input.ResidentName,
		ResidentUnit:        input.ResidentUnit,
		VisitorEmail:        input.VisitorEmail,
		VisitorPhone:        input.VisitorPhone,
		Notes:               input.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create pre-registration: %w", err)
	}

	var pass *model.AccessPass
	if input.GeneratePass {
		bestEffort("generate pass for pre-registration", func() error {
			minted, err := s.mintPassFor(ctx, visitor, input)
			if err != nil {
				return err
			}
			pass = minted
			return s.preRegRepo.LinkAccessPass(ctx, visitor.ID, minted.ID)
		})
	}

	if input.NotifyVisitor && visitor.HasContactInfo() {
		bestEffort("notify pre-registered visitor", func() error {
			var passID *int64
			if pass != nil {
				passID = &pass.ID
			}
			_, err := s.notifier.NotifyVisitor(ctx, visitor, passID)
			return err
		})
	}

	stored, err := s.preRegRepo.FindByID(ctx, visitor.ID)
	if err != nil {
		return nil, fmt.Errorf("reload pre-registration: %w", err)
	}
	if err := s.attachPass(ctx, stored); err != nil {
		return nil, err
	}

	log.Info().
		Int64("preRegistrationId", stored.ID).
		Str("registrationCode", code).
		Bool("passGenerated", pass != nil).
		Msg("pre-registration created")

	return &CreatePreRegistrationResult{PreRegistration: stored, AccessPass: pass}, nil
}

func validateCreateInput(input CreatePreRegistrationInput) error {
	if input.VisitorName == "" {
		return apperrors.MissingRequired("visitorName")
	}
	if input.DocumentType == "" {
		return apperrors.MissingRequired("documentType")
	}
	if input.DocumentNumber == "" {
		return apperrors.MissingRequired("documentNumber")
	}
	if input.ResidentID == 0 {
		return apperrors.MissingRequired("residentId")
	}
	if !input.DocumentType.Valid() {
		return apperrors.InvalidInput("documentType", "unknown value")
	}
	if input.ExpectedArrivalDate.IsZero() {
		return apperrors.MissingRequired("expectedArrivalDate")
	}
	if input.ValidUntil.IsZero() {
		return apperrors.MissingRequired("validUntil")
	}
	if !input.ValidUntil.After(time.Now()) {
		return apperrors.InvalidDateRange("validUntil must be strictly after the current time")
	}
	if input.PassType != "" && !input.PassType.Valid() {
		return apperrors.InvalidInput("passType", "unknown value")
	}
	return nil
}

func (s *PreRegistrationService) allocateRegistrationCode(ctx context.Context) (string, error) {
	for attempts := 0; attempts < codeAllocationAttempts; attempts++ {
		code := newCode(6)
		existing, err := s.preRegRepo.FindByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check registration code: %w", err)
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", apperrors.Internal("could not allocate a unique registration code")
}

func (s *PreRegistrationService) mintPassFor(ctx context.Context, visitor *model.PreRegisteredVisitor, input CreatePreRegistrationInput) (*model.AccessPass, error) {
	passType := input.PassType
	if passType == "" {
		passType = model.PassTypeSingleUse
	}

	var notes string
	if input.Notes != nil {
		notes = "Pre-registro: " + *input.Notes
	} else {
		notes = "Pre-registro: "
	}

	return s.minter.Generate(ctx, GenerateAccessPassParams{
		VisitorName:    input.VisitorName,
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		Destination:    input.ResidentUnit,
		ResidentID:     &visitor.ResidentID,
		ResidentName:   &visitor.ResidentName,
		ValidFrom:      input.ExpectedArrivalDate,
		ValidUntil:     input.ValidUntil,
		PassType:       passType,
		CreatedBy:      input.ResidentID,
		PreRegisterID:  &visitor.ID,
		Notes:          &notes,
	})
}

// Cancel marks the pre-registration CANCELLED, cascades a best-effort revoke
// to its pass if one is linked, and warns the owning resident.
func (s *PreRegistrationService) Cancel(ctx context.Context, id int64, params CancelParams) (*model.PreRegisteredVisitor, error) {
	visitor, err := s.preRegRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find pre-registration: %w", err)
	}
	if visitor == nil {
		return nil, apperrors.NotFound("Pre-registration")
	}

	notes := appendNote(visitor.Notes, "Cancelado: "+params.Reason)
	updated, err := s.preRegRepo.UpdateStatusAndNotes(ctx, id, model.PreRegistrationStatusCancelled, notes)
	if err != nil {
		return nil, fmt.Errorf("cancel pre-registration: %w", err)
	}

	if visitor.AccessPassID != nil {
		bestEffort("cascade revoke for cancelled pre-registration", func() error {
			_, err := s.minter.Revoke(ctx, *visitor.AccessPassID, RevokeParams{
				RevokedBy: params.CancelledBy,
				Reason:    "Pre-registro cancelado: " + params.Reason,
			})
			return err
		})
	}

	if err := s.notifier.NotifyCancellation(ctx, visitor, params.Reason); err != nil {
		return nil, err
	}

	log.Info().
		Int64("preRegistrationId", id).
		Int64("cancelledBy", params.CancelledBy).
		Str("reason", params.Reason).
		Msg("pre-registration cancelled")

	return updated, nil
}

// Notify re-attempts the visitor notification for an existing pre-registration.
func (s *PreRegistrationService) Notify(ctx context.Context, params NotifyParams) (*NotifyResult, error) {
	visitor, err := s.preRegRepo.FindByID(ctx, params.PreRegistrationID)
	if err != nil {
		return nil, fmt.Errorf("find pre-registration: %w", err)
	}
	if visitor == nil {
		return nil, apperrors.NotFound("Pre-registration")
	}
	return s.notifier.NotifyVisitor(ctx, visitor, params.AccessPassID)
}

// List returns one page of pre-registrations with their passes attached.
func (s *PreRegistrationService) List(ctx context.Context, filter model.PreRegistrationFilter) (*model.PreRegistrationPage, error) {
	normalizePageFilter(&filter.Page, &filter.Limit)

	visitors, total, err := s.preRegRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list pre-registrations: %w", err)
	}

	for i := range visitors {
		if err := s.attachPass(ctx, &visitors[i]); err != nil {
			return nil, err
		}
	}

	return &model.PreRegistrationPage{
		Data:       visitors,
		Pagination: model.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}

// GetByID returns a pre-registration with its pass and the pass's full log
// history.
func (s *PreRegistrationService) GetByID(ctx context.Context, id int64) (*model.PreRegisteredVisitor, error) {
	visitor, err := s.preRegRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find pre-registration: %w", err)
	}
	if visitor == nil {
		return nil, apperrors.NotFound("Pre-registration")
	}
	if err := s.attachPass(ctx, visitor); err != nil {
		return nil, err
	}
	if visitor.AccessPass != nil {
		logs, err := s.logRepo.FindByPassID(ctx, visitor.AccessPass.ID, 0)
		if err != nil {
			return nil, fmt.Errorf("load access logs: %w", err)
		}
		visitor.AccessPass.AccessLogs = logs
	}
	return visitor, nil
}

// GetByCode looks a pre-registration up by its registration code.
func (s *PreRegistrationService) GetByCode(ctx context.Context, code string) (*model.PreRegisteredVisitor, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	visitor, err := s.preRegRepo.FindByCode(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("find pre-registration: %w", err)
	}
	if visitor == nil {
		return nil, apperrors.NotFound("Pre-registration")
	}
	if err := s.attachPass(ctx, visitor); err != nil {
		return nil, err
	}
	return visitor, nil
}

// Update applies a partial update. Date ordering is deliberately not
// re-validated on update.
func (s *PreRegistrationService) Update(ctx context.Context, id int64, params model.UpdatePreRegistrationParams) (*model.PreRegisteredVisitor, error) {
	visitor, err := s.preRegRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find pre-registration: %w", err)
	}
	if visitor == nil {
		return nil, apperrors.NotFound("Pre-registration")
	}

	updated, err := s.preRegRepo.Update(ctx, id, params)
	if err != nil {
		return nil, fmt.Errorf("update pre-registration: %w", err)
	}
	return updated, nil
}

func (s *PreRegistrationService) attachPass(ctx context.Context, visitor *model.PreRegisteredVisitor) error {
	if visitor.AccessPassID == nil {
		return nil
	}
	pass, err := s.passRepo.FindByID(ctx, *visitor.AccessPassID)
	if err != nil {
		return fmt.Errorf("load linked pass: %w", err)
	}
	visitor.AccessPass = pass
	return nil
}
