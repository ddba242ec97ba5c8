package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/armonia-saas/access-service-go/internal/audit"
	apperrors "github.com/armonia-saas/access-service-go/internal/errors"
	"github.com/armonia-saas/access-service-go/internal/middleware"
	"github.com/armonia-saas/access-service-go/internal/model"
	"github.com/armonia-saas/access-service-go/internal/service"
)

type AccessPassHandler struct {
	passService *service.AccessPassService
}

func NewAccessPassHandler(passService *service.AccessPassService) *AccessPassHandler {
	return &AccessPassHandler{passService: passService}
}

func (h *AccessPassHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/validate", h.Validate)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/qr", h.GetQR)
	r.Post("/{id}/usage", h.RegisterUsage)
	r.Post("/{id}/revoke", h.Revoke)

	return r
}

type createPassRequest struct {
	VisitorName    string    `json:"visitorName"`
	DocumentType   string    `json:"documentType"`
	DocumentNumber string    `json:"documentNumber"`
	Destination    string    `json:"destination"`
	ResidentID     *int64    `json:"residentId"`
	ResidentName   *string   `json:"residentName"`
	ValidFrom      time.Time `json:"validFrom"`
	ValidUntil     time.Time `json:"validUntil"`
	PassType       string    `json:"passType"`
	CreatedBy      int64     `json:"createdBy"`
	Notes          *string   `json:"notes"`
}

func (h *AccessPassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	pass, err := h.passService.Generate(r.Context(), service.GenerateAccessPassParams{
		VisitorName:    req.VisitorName,
		DocumentType:   model.DocumentType(req.DocumentType),
		DocumentNumber: req.DocumentNumber,
		Destination:    req.Destination,
		ResidentID:     req.ResidentID,
		ResidentName:   req.ResidentName,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		PassType:       model.PassType(req.PassType),
		CreatedBy:      req.CreatedBy,
		Notes:          req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventPassCreated,
		UserID: strconv.FormatInt(req.CreatedBy, 10),
		Details: map[string]interface{}{
			"passId":   pass.ID,
			"passType": string(pass.PassType),
		},
	})

	writeJSON(w, http.StatusCreated, pass)
}

func (h *AccessPassHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	filter := model.AccessPassFilter{
		Page:      page,
		Limit:     limit,
		Status:    model.PassStatus(r.URL.Query().Get("status")),
		PassType:  model.PassType(r.URL.Query().Get("passType")),
		Search:    r.URL.Query().Get("search"),
		StartDate: parseDate(r, "startDate"),
		EndDate:   parseDate(r, "endDate"),
	}

	result, err := h.passService.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AccessPassHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	pass, err := h.passService.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pass)
}

type validatePassRequest struct {
	PassCode string `json:"passCode"`
}

func (h *AccessPassHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validatePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}
	if req.PassCode == "" {
		writeError(w, apperrors.MissingRequired("passCode"))
		return
	}

	result, err := h.passService.Validate(r.Context(), req.PassCode)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventPassValidated,
		Station: middleware.GetStation(r.Context()),
		Details: map[string]interface{}{
			"valid": result.Valid,
		},
	})

	writeJSON(w, http.StatusOK, result)
}

func (h *AccessPassHandler) GetQR(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.passService.GenerateQR(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type registerUsageRequest struct {
	Action       string  `json:"action"`
	Location     string  `json:"location"`
	RegisteredBy int64   `json:"registeredBy"`
	Notes        *string `json:"notes"`
}

func (h *AccessPassHandler) RegisterUsage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req registerUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	result, err := h.passService.RegisterUsage(r.Context(), id, service.RegisterUsageParams{
		Action:       model.LogAction(req.Action),
		Location:     req.Location,
		RegisteredBy: req.RegisteredBy,
		Notes:        req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventPassUsage,
		UserID:  strconv.FormatInt(req.RegisteredBy, 10),
		Station: middleware.GetStation(r.Context()),
		Details: map[string]interface{}{
			"passId": id,
			"action": req.Action,
		},
	})

	writeJSON(w, http.StatusOK, result)
}

type revokePassRequest struct {
	RevokedBy int64  `json:"revokedBy"`
	Reason    string `json:"reason"`
}

func (h *AccessPassHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req revokePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}
	if req.Reason == "" {
		writeError(w, apperrors.MissingRequired("reason"))
		return
	}

	pass, err := h.passService.Revoke(r.Context(), id, service.RevokeParams{
		RevokedBy: req.RevokedBy,
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventPassRevoked,
		UserID: strconv.FormatInt(req.RevokedBy, 10),
		Details: map[string]interface{}{
			"passId": id,
			"reason": req.Reason,
		},
	})

	writeJSON(w, http.StatusOK, pass)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("id", "must be a positive integer")
	}
	return id, nil
}
