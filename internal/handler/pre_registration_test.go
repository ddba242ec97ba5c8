package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/armonia-saas/access-service-go/internal/errors"
	"github.com/armonia-saas/access-service-go/internal/model"
	"github.com/armonia-saas/access-service-go/internal/service"
)

type mockPreRegRepo struct {
	mock.Mock
}

func (m *mockPreRegRepo) Create(ctx context.Context, params model.CreatePreRegistrationParams) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

func (m *mockPreRegRepo) FindByID(ctx context.Context, id int64) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

func (m *mockPreRegRepo) FindByCode(ctx context.Context, code string) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

func (m *mockPreRegRepo) List(ctx context.Context, filter model.PreRegistrationFilter) ([]model.PreRegisteredVisitor, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.PreRegisteredVisitor), args.Int(1), args.Error(2)
}

func (m *mockPreRegRepo) LinkAccessPass(ctx context.Context, id, accessPassID int64) error {
	args := m.Called(ctx, id, accessPassID)
	return args.Error(0)
}

func (m *mockPreRegRepo) UpdateStatusAndNotes(ctx context.Context, id int64, status model.PreRegistrationStatus, notes string) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

func (m *mockPreRegRepo) Update(ctx context.Context, id int64, params model.UpdatePreRegistrationParams) (*model.PreRegisteredVisitor, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PreRegisteredVisitor), args.Error(1)
}

type mockMinter struct {
	mock.Mock
}

func (m *mockMinter) Generate(ctx context.Context, params service.GenerateAccessPassParams) (*model.AccessPass, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

func (m *mockMinter) Revoke(ctx context.Context, passID int64, params service.RevokeParams) (*model.AccessPass, error) {
	args := m.Called(ctx, passID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPass), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyVisitor(ctx context.Context, visitor *model.PreRegisteredVisitor, accessPassID *int64) (*service.NotifyResult, error) {
	args := m.Called(ctx, visitor, accessPassID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NotifyResult), args.Error(1)
}

func (m *mockNotifier) NotifyCancellation(ctx context.Context, visitor *model.PreRegisteredVisitor, reason string) error {
	args := m.Called(ctx, visitor, reason)
	return args.Error(0)
}

type preRegHandlerMocks struct {
	preRegRepo *mockPreRegRepo
	passRepo   *mockPassRepo
	logRepo    *mockLogRepo
	minter     *mockMinter
	notifier   *mockNotifier
}

func testPreRegHandler() (*PreRegistrationHandler, *preRegHandlerMocks) {
	m := &preRegHandlerMocks{
		preRegRepo: new(mockPreRegRepo),
		passRepo:   new(mockPassRepo),
		logRepo:    new(mockLogRepo),
		minter:     new(mockMinter),
		notifier:   new(mockNotifier),
	}
	svc := service.NewPreRegistrationService(m.preRegRepo, m.passRepo, m.logRepo, m.minter, m.notifier)
	return NewPreRegistrationHandler(svc), m
}

func testVisitor(id int64) *model.PreRegisteredVisitor {
	now := time.Now()
	return &model.PreRegisteredVisitor{
		ID:                  id,
		RegistrationCode:    "AB12CD",
		VisitorName:         "María Gómez",
		DocumentType:        model.DocumentTypeCC,
		DocumentNumber:      "1122334455",
		ExpectedArrivalDate: now.Add(time.Hour),
		ValidUntil:          now.Add(48 * time.Hour),
		Status:              model.PreRegistrationStatusActive,
		ResidentID:          5,
		ResidentName:        "Pedro Resident",
		ResidentUnit:        "Torre 2 Apto 502",
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func TestPreRegistrationHandler_Create(t *testing.T) {
	t.Run("returns 201 with created pre-registration", func(t *testing.T) {
		h, m := testPreRegHandler()

		visitor := testVisitor(1)
		m.preRegRepo.On("FindByCode", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil).Once()
		m.preRegRepo.On("Create", mock.Anything, mock.AnythingOfType("model.CreatePreRegistrationParams")).
			Return(visitor, nil).Once()
		m.preRegRepo.On("FindByID", mock.Anything, int64(1)).Return(visitor, nil).Once()

		body, _ := json.Marshal(map[string]any{
			"visitorName":         "María Gómez",
			"documentType":        "CC",
			"documentNumber":      "1122334455",
			"expectedArrivalDate": time.Now().Add(time.Hour).Format(time.RFC3339),
			"validUntil":          time.Now().Add(48 * time.Hour).Format(time.RFC3339),
			"residentId":          5,
			"residentName":        "Pedro Resident",
			"residentUnit":        "Torre 2 Apto 502",
		})

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var result service.CreatePreRegistrationResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		assert.Equal(t, "AB12CD", result.PreRegistration.RegistrationCode)
		assert.Nil(t, result.AccessPass)
	})

	t.Run("returns 400 for expired validUntil", func(t *testing.T) {
		h, _ := testPreRegHandler()

		body, _ := json.Marshal(map[string]any{
			"visitorName":         "María Gómez",
			"documentType":        "CC",
			"documentNumber":      "1122334455",
			"expectedArrivalDate": time.Now().Format(time.RFC3339),
			"validUntil":          time.Now().Add(-time.Hour).Format(time.RFC3339),
			"residentId":          5,
			"residentName":        "Pedro Resident",
			"residentUnit":        "Torre 2 Apto 502",
		})

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_DATE_RANGE")
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		h, _ := testPreRegHandler()

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	})
}

func TestPreRegistrationHandler_Cancel(t *testing.T) {
	t.Run("cancels with reason", func(t *testing.T) {
		h, m := testPreRegHandler()

		visitor := testVisitor(1)
		cancelled := *visitor
		cancelled.Status = model.PreRegistrationStatusCancelled

		m.preRegRepo.On("FindByID", mock.Anything, int64(1)).Return(visitor, nil).Once()
		m.preRegRepo.On("UpdateStatusAndNotes", mock.Anything, int64(1),
			model.PreRegistrationStatusCancelled, "Cancelado: cambio de planes").
			Return(&cancelled, nil).Once()
		m.notifier.On("NotifyCancellation", mock.Anything, visitor, "cambio de planes").Return(nil).Once()

		body, _ := json.Marshal(map[string]any{
			"cancelledBy": 5,
			"reason":      "cambio de planes",
		})

		req := httptest.NewRequest(http.MethodPost, "/1/cancel", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got model.PreRegisteredVisitor
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, model.PreRegistrationStatusCancelled, got.Status)
	})

	t.Run("missing reason is 400", func(t *testing.T) {
		h, _ := testPreRegHandler()

		req := httptest.NewRequest(http.MethodPost, "/1/cancel", bytes.NewReader([]byte("{}")))
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		h, m := testPreRegHandler()

		m.preRegRepo.On("FindByID", mock.Anything, int64(404)).Return(nil, nil).Once()

		body, _ := json.Marshal(map[string]any{"cancelledBy": 5, "reason": "x"})
		req := httptest.NewRequest(http.MethodPost, "/404/cancel", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPreRegistrationHandler_GetByCode(t *testing.T) {
	h, m := testPreRegHandler()

	visitor := testVisitor(1)
	m.preRegRepo.On("FindByCode", mock.Anything, "AB12CD").Return(visitor, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/code/ab12cd", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.PreRegisteredVisitor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "AB12CD", got.RegistrationCode)
}

func TestPreRegistrationHandler_Notify(t *testing.T) {
	t.Run("returns notifier verdict", func(t *testing.T) {
		h, m := testPreRegHandler()

		email := "maria@example.com"
		visitor := testVisitor(1)
		visitor.VisitorEmail = &email

		m.preRegRepo.On("FindByID", mock.Anything, int64(1)).Return(visitor, nil).Once()
		m.notifier.On("NotifyVisitor", mock.Anything, visitor, (*int64)(nil)).Return(&service.NotifyResult{
			Success:  true,
			Message:  "Notificación enviada al visitante",
			Channels: []string{"email"},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/1/notify", nil)
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Notificación enviada al visitante")
	})

	t.Run("no contact info is 400", func(t *testing.T) {
		h, m := testPreRegHandler()

		visitor := testVisitor(1)
		m.preRegRepo.On("FindByID", mock.Anything, int64(1)).Return(visitor, nil).Once()
		m.notifier.On("NotifyVisitor", mock.Anything, visitor, (*int64)(nil)).
			Return(nil, apperrors.NoContactInfo()).Once()

		req := httptest.NewRequest(http.MethodPost, "/1/notify", nil)
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "NO_CONTACT_INFO")
	})
}

func TestPreRegistrationHandler_List(t *testing.T) {
	h, m := testPreRegHandler()

	visitors := []model.PreRegisteredVisitor{*testVisitor(1)}
	m.preRegRepo.On("List", mock.Anything, mock.MatchedBy(func(f model.PreRegistrationFilter) bool {
		return f.ResidentID != nil && *f.ResidentID == 5 && f.Status == model.PreRegistrationStatusActive
	})).Return(visitors, 1, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/?residentId=5&status=ACTIVE", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var page model.PreRegistrationPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Pagination.Total)
}

func TestPreRegistrationHandler_Update(t *testing.T) {
	h, m := testPreRegHandler()

	visitor := testVisitor(1)
	newName := "María Actualizada"
	updated := *visitor
	updated.VisitorName = newName

	m.preRegRepo.On("FindByID", mock.Anything, int64(1)).Return(visitor, nil).Once()
	m.preRegRepo.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p model.UpdatePreRegistrationParams) bool {
		return p.VisitorName != nil && *p.VisitorName == newName
	})).Return(&updated, nil).Once()

	body, _ := json.Marshal(map[string]any{"visitorName": newName})
	req := httptest.NewRequest(http.MethodPatch, "/1", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.PreRegisteredVisitor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, newName, got.VisitorName)
}
