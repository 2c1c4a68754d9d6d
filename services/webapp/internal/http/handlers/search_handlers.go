package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/webapp/internal/hub"
	"github.com/Brupez/EletricNET/services/webapp/internal/search"
	"github.com/Brupez/EletricNET/services/webapp/internal/session"
)

// SearchHandlers exposes the map search controller to the web client. The map
// lives inside the signed-in area, so every endpoint is gated on the session.
type SearchHandlers struct {
	hub    *hub.Hub
	logger *zap.Logger
}

// NewSearchHandlers returns the handler set.
func NewSearchHandlers(h *hub.Hub, logger *zap.Logger) *SearchHandlers {
	return &SearchHandlers{hub: h, logger: logger}
}

func (h *SearchHandlers) gated(w http.ResponseWriter, r *http.Request) *hub.Session {
	sess := acquireSession(h.hub, w, r)
	if sess.Store.Authorize("") != session.Allow {
		writeError(w, http.StatusUnauthorized, "login required")
		return nil
	}
	return sess
}

// Submit handles POST /api/search.
func (h *SearchHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	sess := h.gated(w, r)
	if sess == nil {
		return
	}

	var req struct {
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		// Empty queries are a no-op; return the current view-model.
		writeJSON(w, http.StatusOK, map[string]interface{}{"entries": sess.Search.Entries()})
		return
	}

	entries := sess.Search.SubmitQuery(r.Context(), req.Location)
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// Filter handles POST /api/search/filter.
func (h *SearchHandlers) Filter(w http.ResponseWriter, r *http.Request) {
	sess := h.gated(w, r)
	if sess == nil {
		return
	}

	var req struct {
		OpenNow bool `json:"openNow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entries := sess.Search.ApplyOpenNowFilter(req.OpenNow)
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// Results handles GET /api/search/results.
func (h *SearchHandlers) Results(w http.ResponseWriter, r *http.Request) {
	sess := h.gated(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": sess.Search.Entries()})
}

// Select handles POST /api/search/select and returns the navigation payload
// for the details view.
func (h *SearchHandlers) Select(w http.ResponseWriter, r *http.Request) {
	sess := h.gated(w, r)
	if sess == nil {
		return
	}

	var key search.EntryKey
	if err := json.NewDecoder(r.Body).Decode(&key); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payload, ok := sess.Search.Select(key)
	if !ok {
		writeError(w, http.StatusNotFound, "no such entry in the current results")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
