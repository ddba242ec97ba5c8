package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/armonia-saas/access-service-go/internal/errors"
	"github.com/armonia-saas/access-service-go/internal/model"
	"github.com/armonia-saas/access-service-go/internal/repository"
)

// NotifyResult reports a notification attempt and the channels it targeted.
type NotifyResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Channels []string `json:"channels"`
}

// VisitorNotifier records notification attempts for residents. Actual email
// and SMS delivery belongs to an external gateway; the record here is kept
// regardless of downstream delivery success.
type VisitorNotifier interface {
	NotifyVisitor(ctx context.Context, visitor *model.PreRegisteredVisitor, accessPassID *int64) (*NotifyResult, error)
	NotifyCancellation(ctx context.Context, visitor *model.PreRegisteredVisitor, reason string) error
}

// NotifierService is the database-backed VisitorNotifier.
type NotifierService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotifierService creates a new notifier service
func NewNotifierService(notificationRepo repository.NotificationRepository) *NotifierService {
	return &NotifierService{notificationRepo: notificationRepo}
}

// NotifyVisitor records an informational entry for the owning resident and
// reports which channels were attempted. Fails when the visitor has no
// contact information on file.
func (s *NotifierService) NotifyVisitor(ctx context.Context, visitor *model.PreRegisteredVisitor, accessPassID *int64) (*NotifyResult, error) {
	if !visitor.HasContactInfo() {
		return nil, apperrors.NoContactInfo()
	}

	var channels []string
	if visitor.VisitorEmail != nil && *visitor.VisitorEmail != "" {
		channels = append(channels, "email")
	}
	if visitor.VisitorPhone != nil && *visitor.VisitorPhone != "" {
		channels = append(channels, "sms")
	}

	_, err := s.notificationRepo.Create(ctx, model.CreateNotificationParams{
		UserID:  visitor.ResidentID,
		Title:   "Pre-registro de visita",
		Message: fmt.Sprintf("Se ha enviado una notificación a %s sobre su pre-registro", visitor.VisitorName),
		Type:    model.NotificationTypeInfo,
	})
	if err != nil {
		return nil, fmt.Errorf("record visitor notification: %w", err)
	}

	event := log.Info().
		Int64("preRegistrationId", visitor.ID).
		Strs("channels", channels)
	if accessPassID != nil {
		event = event.Int64("accessPassId", *accessPassID)
	}
	event.Msg("visitor notified")

	return &NotifyResult{
		Success:  true,
		Message:  "Notificación enviada al visitante",
		Channels: channels,
	}, nil
}

// ListForUser returns a resident's notifications, newest first. Limit
// defaults to 20 and is capped at 100; a negative offset is treated as zero.
func (s *NotifierService) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]model.Notification, error) {
	if userID <= 0 {
		return nil, apperrors.MissingRequired("userId")
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := s.notificationRepo.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	return notifications, nil
}

// NotifyCancellation records a warning entry for the owning resident.
func (s *NotifierService) NotifyCancellation(ctx context.Context, visitor *model.PreRegisteredVisitor, reason string) error {
	_, err := s.notificationRepo.Create(ctx, model.CreateNotificationParams{
		UserID:  visitor.ResidentID,
		Title:   "Pre-registro cancelado",
		Message: fmt.Sprintf("El pre-registro para %s ha sido cancelado: %s", visitor.VisitorName, reason),
		Type:    model.NotificationTypeWarning,
	})
	if err != nil {
		return fmt.Errorf("record cancellation notification: %w", err)
	}
	return nil
}
