package handlers

import (
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/webapp/internal/clients"
	"github.com/Brupez/EletricNET/services/webapp/internal/hub"
	"github.com/Brupez/EletricNET/services/webapp/internal/session"
)

// ReservationsHandlers proxies booking flows for the authenticated session,
// attaching its bearer token.
type ReservationsHandlers struct {
	hub    *hub.Hub
	client *clients.ReservationsClient
	logger *zap.Logger
}

// NewReservationsHandlers returns the handler set.
func NewReservationsHandlers(h *hub.Hub, client *clients.ReservationsClient, logger *zap.Logger) *ReservationsHandlers {
	return &ReservationsHandlers{hub: h, client: client, logger: logger}
}

func (h *ReservationsHandlers) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := acquireSession(h.hub, w, r)
	if sess.Store.Authorize("") != session.Allow {
		writeError(w, http.StatusUnauthorized, "login required")
		return "", false
	}
	return sess.Store.Token(), true
}

// Create handles POST /api/reservations.
func (h *ReservationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	status, resp, err := h.client.Create(r.Context(), token, body)
	if err != nil {
		h.logger.Error("reservation create proxy failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "booking service unavailable")
		return
	}
	writeRaw(w, status, resp)
}

// ListMine handles GET /api/reservations.
func (h *ReservationsHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}
	status, resp, err := h.client.ListMine(r.Context(), token)
	if err != nil {
		h.logger.Error("reservation list proxy failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "booking service unavailable")
		return
	}
	writeRaw(w, status, resp)
}

// MyStats handles GET /api/reservations/stats.
func (h *ReservationsHandlers) MyStats(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}
	status, resp, err := h.client.MyStats(r.Context(), token)
	if err != nil {
		h.logger.Error("reservation stats proxy failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "booking service unavailable")
		return
	}
	writeRaw(w, status, resp)
}

// Cancel handles PUT /api/reservations/{id}/cancel.
func (h *ReservationsHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	// Path shape: /api/reservations/{id}/cancel
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[3] != "cancel" || parts[2] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	status, resp, err := h.client.Cancel(r.Context(), token, parts[2])
	if err != nil {
		h.logger.Error("reservation cancel proxy failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "booking service unavailable")
		return
	}
	writeRaw(w, status, resp)
}
