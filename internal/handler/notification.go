package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/armonia-saas/access-service-go/internal/errors"
	"github.com/armonia-saas/access-service-go/internal/service"
)

type NotificationHandler struct {
	notifierService *service.NotifierService
}

func NewNotificationHandler(notifierService *service.NotifierService) *NotificationHandler {
	return &NotificationHandler{notifierService: notifierService}
}

func (h *NotificationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	return r
}

// List returns a resident's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("userId", "must be a positive integer"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	notifications, err := h.notifierService.ListForUser(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}
