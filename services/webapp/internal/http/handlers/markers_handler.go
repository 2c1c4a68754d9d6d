package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/webapp/internal/hub"
	"github.com/Brupez/EletricNET/services/webapp/internal/session"
	"github.com/Brupez/EletricNET/services/webapp/internal/ws"
)

// MarkersHandler upgrades GET /ws/markers to the marker feed for the caller's
// web session.
type MarkersHandler struct {
	hub      *hub.Hub
	feed     *ws.Feed
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewMarkersHandler returns the websocket endpoint handler. The upgrade carries
// the session cookie, so browser requests must come from allowedOrigin, or from
// the serving host when no origin is configured.
func NewMarkersHandler(h *hub.Hub, feed *ws.Feed, allowedOrigin string, logger *zap.Logger) *MarkersHandler {
	return &MarkersHandler{
		hub:    h,
		feed:   feed,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigin),
		},
	}
}

func checkOrigin(allowed string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if allowed != "" {
			return strings.EqualFold(strings.TrimSuffix(origin, "/"), strings.TrimSuffix(allowed, "/"))
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// Serve handles the upgrade.
func (h *MarkersHandler) Serve(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "session required")
		return
	}
	sess, ok := h.hub.Get(cookie.Value)
	if !ok || sess.Store.Authorize("") != session.Allow {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("marker feed upgrade failed", zap.Error(err))
		return
	}
	h.feed.Attach(sess.ID, socket)
}
