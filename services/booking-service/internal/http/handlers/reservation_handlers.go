package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
	"github.com/Brupez/EletricNET/services/booking-service/internal/http/middleware"
	"github.com/Brupez/EletricNET/services/booking-service/internal/models"
	"github.com/Brupez/EletricNET/services/booking-service/internal/service"
)

// ReservationHandlers exposes booking endpoints.
type ReservationHandlers struct {
	reservations *service.ReservationService
	logger       *zap.Logger
}

// NewReservationHandlers builds the handler set.
func NewReservationHandlers(reservations *service.ReservationService, logger *zap.Logger) *ReservationHandlers {
	return &ReservationHandlers{reservations: reservations, logger: logger}
}

// Create handles POST /api/reservations.
func (h *ReservationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		libhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input service.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		libhttp.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.reservations.Create(r.Context(), userID, input)
	if errors.Is(err, service.ErrInvalidReservation) || errors.Is(err, service.ErrSlotUnavailable) {
		libhttp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to create reservation", zap.Int64("user_id", userID), zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to create reservation")
		return
	}
	libhttp.WriteJSON(w, http.StatusOK, res)
}

// ListMine handles GET /api/reservations/me.
func (h *ReservationHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		libhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reservations, err := h.reservations.ListMine(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list reservations", zap.Int64("user_id", userID), zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	libhttp.WriteJSON(w, http.StatusOK, reservations)
}

// MyStats handles GET /api/reservations/myStats.
func (h *ReservationHandlers) MyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		libhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.reservations.MyStats(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to compute user stats", zap.Int64("user_id", userID), zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	libhttp.WriteJSON(w, http.StatusOK, stats)
}

// ListAll handles GET /api/reservations/all for the admin dashboard.
func (h *ReservationHandlers) ListAll(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservations.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list all reservations", zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	libhttp.WriteJSON(w, http.StatusOK, reservations)
}

// AdminStats handles GET /api/reservations/admin/stats for the admin dashboard.
func (h *ReservationHandlers) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reservations.AdminStats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute admin stats", zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	libhttp.WriteJSON(w, http.StatusOK, stats)
}

// ActiveBySlot handles GET /api/reservations/slot/{id}/active.
func (h *ReservationHandlers) ActiveBySlot(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/reservations/slot/")
	slotID, found := strings.CutSuffix(rest, "/active")
	if !found || slotID == "" || strings.Contains(slotID, "/") {
		libhttp.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	reservations, err := h.reservations.ActiveBySlot(r.Context(), slotID)
	if err != nil {
		h.logger.Error("failed to list active reservations", zap.String("slot_id", slotID), zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	libhttp.WriteJSON(w, http.StatusOK, reservations)
}

// Cancel handles PUT /api/reservations/{id}/cancel.
func (h *ReservationHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		libhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/reservations/")
	idPart, found := strings.CutSuffix(rest, "/cancel")
	if !found {
		libhttp.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		libhttp.WriteError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	err = h.reservations.Cancel(r.Context(), userID, id)
	if errors.Is(err, service.ErrNotCancelable) {
		libhttp.WriteError(w, http.StatusBadRequest, "Reservation not found or already cancelled.")
		return
	}
	if err != nil {
		h.logger.Error("failed to cancel reservation", zap.Int64("reservation_id", id), zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to cancel reservation")
		return
	}
	libhttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Reservation successfully cancelled."})
}
