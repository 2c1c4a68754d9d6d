package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/webapp/internal/clients"
	"github.com/Brupez/EletricNET/services/webapp/internal/hub"
	"github.com/Brupez/EletricNET/services/webapp/internal/session"
)

const sessionCookie = "webapp_session"

// acquireSession resolves the caller's web session from its cookie, creating a
// fresh one (and setting the cookie) when absent or unknown.
func acquireSession(h *hub.Hub, w http.ResponseWriter, r *http.Request) *hub.Session {
	var id string
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		id = cookie.Value
	}
	s := h.Acquire(r.Context(), id)
	if s.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

// SessionHandlers owns the login/logout/register endpoints.
type SessionHandlers struct {
	hub    *hub.Hub
	auth   *clients.AuthClient
	logger *zap.Logger
}

// NewSessionHandlers returns the handler set.
func NewSessionHandlers(h *hub.Hub, auth *clients.AuthClient, logger *zap.Logger) *SessionHandlers {
	return &SessionHandlers{hub: h, auth: auth, logger: logger}
}

type identityView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func viewOf(identity *session.Identity) *identityView {
	if identity == nil {
		return nil
	}
	return &identityView{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  string(identity.Role),
	}
}

// Login handles POST /api/session/login.
func (h *SessionHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sess := acquireSession(h.hub, w, r)
	redirect, err := sess.Store.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, session.ErrTransport):
			h.logger.Error("login transport failure", zap.Error(err))
			writeError(w, http.StatusBadGateway, "authentication service unavailable, try again")
		default:
			h.logger.Error("login failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to login")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"redirect": redirect,
		"user":     viewOf(sess.Store.Identity()),
	})
}

// Logout handles POST /api/session/logout. Always succeeds.
func (h *SessionHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess := acquireSession(h.hub, w, r)
	sess.Store.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/session/me.
func (h *SessionHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sess := acquireSession(h.hub, w, r)
	identity := sess.Store.Identity()
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(identity))
}

// Register handles POST /api/session/register, proxying the auth service.
func (h *SessionHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name, req.Role); err != nil {
		if errors.Is(err, session.ErrTransport) {
			h.logger.Error("register transport failure", zap.Error(err))
			writeError(w, http.StatusBadGateway, "authentication service unavailable, try again")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}
