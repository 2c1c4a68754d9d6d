package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
	"github.com/Brupez/EletricNET/services/booking-service/internal/models"
	"github.com/Brupez/EletricNET/services/booking-service/internal/repository"
	"github.com/Brupez/EletricNET/services/booking-service/internal/service"
)

// SlotHandlers exposes charger inventory endpoints.
type SlotHandlers struct {
	slots  *service.SlotService
	logger *zap.Logger
}

// NewSlotHandlers builds the handler set.
func NewSlotHandlers(slots *service.SlotService, logger *zap.Logger) *SlotHandlers {
	return &SlotHandlers{slots: slots, logger: logger}
}

// List handles GET /api/slots.
func (h *SlotHandlers) List(w http.ResponseWriter, r *http.Request) {
	slots, err := h.slots.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list slots", zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to list slots")
		return
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	libhttp.WriteJSON(w, http.StatusOK, slots)
}

// Chargers handles GET /api/slots/chargers.
func (h *SlotHandlers) Chargers(w http.ResponseWriter, r *http.Request) {
	chargers, err := h.slots.ListChargers(r.Context())
	if err != nil {
		h.logger.Error("failed to list chargers", zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to list chargers")
		return
	}
	if chargers == nil {
		chargers = []models.Charger{}
	}
	libhttp.WriteJSON(w, http.StatusOK, chargers)
}

// Stats handles GET /api/slots/stats.
func (h *SlotHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.slots.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute slot stats", zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	libhttp.WriteJSON(w, http.StatusOK, stats)
}

// Get handles GET /api/slots/{id}.
func (h *SlotHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/slots/")
	if id == "" || strings.Contains(id, "/") {
		libhttp.WriteError(w, http.StatusNotFound, "slot not found")
		return
	}

	slot, err := h.slots.Get(r.Context(), id)
	if errors.Is(err, repository.ErrSlotNotFound) {
		libhttp.WriteError(w, http.StatusNotFound, "slot not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load slot", zap.String("slot_id", id), zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to load slot")
		return
	}
	libhttp.WriteJSON(w, http.StatusOK, slot)
}

// Save handles POST /api/slots and PUT /api/slots/{id} (admin only).
func (h *SlotHandlers) Save(w http.ResponseWriter, r *http.Request) {
	var input service.SaveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		libhttp.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if r.Method == http.MethodPut {
		if id := strings.TrimPrefix(r.URL.Path, "/api/slots/"); id != "" {
			input.ID = id
		}
	}

	slot, err := h.slots.Save(r.Context(), input)
	if errors.Is(err, service.ErrInvalidSlot) {
		libhttp.WriteError(w, http.StatusBadRequest, "invalid slot payload")
		return
	}
	if err != nil {
		h.logger.Error("failed to save slot", zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to save slot")
		return
	}
	libhttp.WriteJSON(w, http.StatusOK, slot)
}

// Delete handles DELETE /api/slots/{id} (admin only).
func (h *SlotHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/slots/")
	if id == "" || strings.Contains(id, "/") {
		libhttp.WriteError(w, http.StatusNotFound, "slot not found")
		return
	}

	err := h.slots.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrSlotNotFound) {
		libhttp.WriteError(w, http.StatusBadRequest, "Slot not found.")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete slot", zap.String("slot_id", id), zap.Error(err))
		libhttp.WriteError(w, http.StatusInternalServerError, "failed to delete slot")
		return
	}
	libhttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Slot deleted successfully."})
}
