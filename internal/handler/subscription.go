package handler

import (
	"log/slog"
	"net/http"

	"github.com/J-tt/ytsm/internal/domain/services"
	"github.com/J-tt/ytsm/internal/httputil"
)

// SubscriptionHandler handles subscription HTTP requests
type SubscriptionHandler struct {
	subService services.SubscriptionService
	logger     *slog.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subService services.SubscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService, logger: logger}
}

// CreateSubscription resolves a URL into a subscription
// POST /api/subscriptions
func (h *SubscriptionHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSubscriptionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = httputil.GetUserID(r)

	sub, err := h.subService.CreateSubscription(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, sub)
}

// GetSubscription retrieves a subscription by ID
// GET /api/subscriptions/{id}
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "subscription id is required")
		return
	}

	sub, err := h.subService.GetSubscription(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sub)
}

// UpdateSubscription renames and/or moves a subscription
// PATCH /api/subscriptions/{id}
func (h *SubscriptionHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "subscription id is required")
		return
	}

	var req services.UpdateSubscriptionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = httputil.GetUserID(r)

	sub, err := h.subService.UpdateSubscription(r.Context(), req.UserID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sub)
}

// DeleteSubscription removes a subscription
// DELETE /api/subscriptions/{id}
func (h *SubscriptionHandler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "subscription id is required")
		return
	}

	if err := h.subService.DeleteSubscription(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
