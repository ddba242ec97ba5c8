package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/armonia-saas/access-service-go/internal/model"
)

// Mock repositories
type mockAccessPassRepo struct {
	mock.Mock
}

func (m *mockAccessPassRepo) Create(ctx context.Context, params model.CreateAccessPassParams) (*model.AccessPass, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

func (m *mockAccessPassRepo) FindByID(ctx context.Context, id int64) (*model.AccessPass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

func (m *mockAccessPassRepo) FindByCode(ctx context.Context, code string) (*model.AccessPass, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

func (m *mockAccessPassRepo) List(ctx context.Context, filter model.AccessPassFilter) ([]model.AccessPass, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.AccessPass), args.Int(1), args.Error(2)
}

func (m *mockAccessPassRepo) SetQRCodeURL(ctx context.Context, id int64, dataURL string) (*model.AccessPass, error) {
	args := m.Called(ctx, id, dataURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

func (m *mockAccessPassRepo) UpdateStatus(ctx context.Context, id int64, status model.PassStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockAccessPassRepo) RegisterEntry(ctx context.Context, id int64, status model.PassStatus) (*model.AccessPass, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

func (m *mockAccessPassRepo) UpdateStatusAndNotes(ctx context.Context, id int64, status model.PassStatus, notes string) (*model.AccessPass, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

func (m *mockAccessPassRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockAccessLogRepo struct {
	mock.Mock
}

func (m *mockAccessLogRepo) Create(ctx context.Context, params model.CreateAccessLogParams) (*model.AccessLog, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessLog), args.Error(1)
}

func (m *mockAccessLogRepo) FindByPassID(ctx context.Context, passID int64, limit int) ([]model.AccessLog, error) {
	args := m.Called(ctx, passID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessLog), args.Error(1)
}

type mockPreRegistrationRepo struct {
	mock.Mock
}

func (m *mockPreRegistrationRepo) Create(ctx context.Context, params model.CreatePreRegistrationParams) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

func (m *mockPreRegistrationRepo) FindByID(ctx context.Context, id int64) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

func (m *mockPreRegistrationRepo) FindByCode(ctx context.Context, code string) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

func (m *mockPreRegistrationRepo) List(ctx context.Context, filter model.PreRegistrationFilter) ([]model.PreRegisteredVisitor, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.PreRegisteredVisitor), args.Int(1), args.Error(2)
}

func (m *mockPreRegistrationRepo) LinkAccessPass(ctx context.Context, id, accessPassID int64) error {
	args := m.Called(ctx, id, accessPassID)
	return args.Error(0)
}

func (m *mockPreRegistrationRepo) UpdateStatusAndNotes(ctx context.Context, id int64, status model.PreRegistrationStatus, notes string) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

func (m *mockPreRegistrationRepo) Update(ctx context.Context, id int64, params model.UpdatePreRegistrationParams) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *mockNotificationRepo) FindByUserID(ctx context.Context, userID int64, limit, offset int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *mockNotificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockPassMinter struct {
	mock.Mock
}

func (m *mockPassMinter) Generate(ctx context.Context, params GenerateAccessPassParams) (*model.AccessPass, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

func (m *mockPassMinter) Revoke(ctx context.Context, passID int64, params RevokeParams) (*model.AccessPass, error) {
	args := m.Called(ctx, passID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

type mockVisitorNotifier struct {
	mock.Mock
}

func (m *mockVisitorNotifier) NotifyVisitor(ctx context.Context, visitor *model.PreRegisteredVisitor, accessPassID *int64) (*NotifyResult, error) {
	args := m.Called(ctx, visitor, accessPassID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*NotifyResult), args.Error(1)
}

func (m *mockVisitorNotifier) NotifyCancellation(ctx context.Context, visitor *model.PreRegisteredVisitor, reason string) error {
	args := m.Called(ctx, visitor, reason)
	return args.Error(0)
}
