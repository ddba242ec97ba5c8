package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/armonia-saas/access-service-go/internal/audit"
	apperrors "github.com/armonia-saas/access-service-go/internal/errors"
	"github.com/armonia-saas/access-service-go/internal/model"
	"github.com/armonia-saas/access-service-go/internal/service"
)

type PreRegistrationHandler struct {
	preRegService *service.PreRegistrationService
}

func NewPreRegistrationHandler(preRegService *service.PreRegistrationService) *PreRegistrationHandler {
	return &PreRegistrationHandler{preRegService: preRegService}
}

func (h *PreRegistrationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/code/{code}", h.GetByCode)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)
	r.Post("/{id}/cancel", h.Cancel)
	r.Post("/{id}/notify", h.Notify)

	return r
}

type createPreRegistrationRequest struct {
	VisitorName         string    `json:"visitorName"`
	DocumentType        string    `json:"documentType"`
	DocumentNumber      string    `json:"documentNumber"`
	Purpose             *string   `json:"purpose"`
	ExpectedArrivalDate time.Time `json:"expectedArrivalDate"`
	ValidUntil          time.Time `json:"validUntil"`
	ResidentID          int64     `json:"residentId"`
	ResidentName        string    `json:"residentName"`
	ResidentUnit        string    `json:"residentUnit"`
	GeneratePass        bool      `json:"generatePass"`
	PassType            string    `json:"passType"`
	Notes               *string   `json:"notes"`
	NotifyVisitor       bool      `json:"notifyVisitor"`
	VisitorEmail        *string   `json:"visitorEmail"`
	VisitorPhone        *string   `json:"visitorPhone"`
}

func (h *PreRegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPreRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	result, err := h.preRegService.Create(r.Context(), service.CreatePreRegistrationInput{
		VisitorName:         req.VisitorName,
		DocumentType:        model.DocumentType(req.DocumentType),
		DocumentNumber:      req.DocumentNumber,
		Purpose:             req.Purpose,
		ExpectedArrivalDate: req.ExpectedArrivalDate,
		ValidUntil:          req.ValidUntil,
		ResidentID:          req.ResidentID,
		ResidentName:        req.ResidentName,
		ResidentUnit:        req.ResidentUnit,
		GeneratePass:        req.GeneratePass,
		PassType:            model.PassType(req.PassType),
		Notes:               req.Notes,
		NotifyVisitor:       req.NotifyVisitor,
		VisitorEmail:        req.VisitorEmail,
		VisitorPhone:        req.VisitorPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventPreRegCreated,
		UserID: strconv.FormatInt(req.ResidentID, 10),
		Details: map[string]interface{}{
			"preRegistrationId": result.PreRegistration.ID,
			"passGenerated":     result.AccessPass != nil,
		},
	})

	writeJSON(w, http.StatusCreated, result)
}

func (h *PreRegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	filter := model.PreRegistrationFilter{
		Page:      page,
		Limit:     limit,
		Status:    model.PreRegistrationStatus(r.URL.Query().Get("status")),
		Search:    r.URL.Query().Get("search"),
		StartDate: parseDate(r, "startDate"),
		EndDate:   parseDate(r, "endDate"),
	}

	if raw := r.URL.Query().Get("residentId"); raw != "" {
		residentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, apperrors.InvalidInput("residentId", "must be an integer"))
			return
		}
		filter.ResidentID = &residentID
	}

	result, err := h.preRegService.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *PreRegistrationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	visitor, err := h.preRegService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, visitor)
}

func (h *PreRegistrationHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, apperrors.MissingRequired("code"))
		return
	}

	visitor, err := h.preRegService.GetByCode(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, visitor)
}

type updatePreRegistrationRequest struct {
	VisitorName         *string    `json:"visitorName"`
	Purpose             *string    `json:"purpose"`
	ExpectedArrivalDate *time.Time `json:"expectedArrivalDate"`
	ValidUntil          *time.Time `json:"validUntil"`
	VisitorEmail        *string    `json:"visitorEmail"`
	VisitorPhone        *string    `json:"visitorPhone"`
	Notes               *string    `json:"notes"`
}

func (h *PreRegistrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updatePreRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	visitor, err := h.preRegService.Update(r.Context(), id, model.UpdatePreRegistrationParams{
		VisitorName:         req.VisitorName,
		Purpose:             req.Purpose,
		ExpectedArrivalDate: req.ExpectedArrivalDate,
		ValidUntil:          req.ValidUntil,
		VisitorEmail:        req.VisitorEmail,
		VisitorPhone:        req.VisitorPhone,
		Notes:               req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, visitor)
}

type cancelPreRegistrationRequest struct {
	CancelledBy int64  `json:"cancelledBy"`
	Reason      string `json:"reason"`
}

func (h *PreRegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req cancelPreRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}
	if req.Reason == "" {
		writeError(w, apperrors.MissingRequired("reason"))
		return
	}

	visitor, err := h.preRegService.Cancel(r.Context(), id, service.CancelParams{
		CancelledBy: req.CancelledBy,
		Reason:      req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventPreRegCancelled,
		UserID: strconv.FormatInt(req.CancelledBy, 10),
		Details: map[string]interface{}{
			"preRegistrationId": id,
			"reason":            req.Reason,
		},
	})

	writeJSON(w, http.StatusOK, visitor)
}

type notifyPreRegistrationRequest struct {
	AccessPassID *int64 `json:"accessPassId"`
}

func (h *PreRegistrationHandler) Notify(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req notifyPreRegistrationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.ValidationError("Invalid JSON body"))
			return
		}
	}

	result, err := h.preRegService.Notify(r.Context(), service.NotifyParams{
		PreRegistrationID: id,
		AccessPassID:      req.AccessPassID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type: audit.EventVisitorNotified,
		Details: map[string]interface{}{
			"preRegistrationId": id,
		},
	})

	writeJSON(w, http.StatusOK, result)
}
