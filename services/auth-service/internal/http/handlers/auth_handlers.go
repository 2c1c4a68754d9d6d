package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
	"github.com/Brupez/EletricNET/services/auth-service/internal/service"
)

// NewLoginHandler handles POST /api/auth/login.
func NewLoginHandler(auth *service.AuthService) http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type response struct {
		Token  string `json:"token"`
		Role   string `json:"role"`
		UserID int64  `json:"userId"`
		Name   string `json:"name"`
		Email  string `json:"email"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			libhttp.WriteError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			libhttp.WriteError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		token, user, err := auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				libhttp.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
				return
			}
			libhttp.WriteError(w, http.StatusInternalServerError, "failed to login")
			return
		}

		libhttp.WriteJSON(w, http.StatusOK, response{
			Token:  token,
			Role:   user.Role,
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
		})
	}
}

// NewRegisterHandler handles POST /api/auth/register. Rejections answer plain
// text, which the web layer surfaces verbatim.
func NewRegisterHandler(auth *service.AuthService) http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		if _, err := auth.Register(r.Context(), req.Email, req.Password, req.Name, req.Role); err != nil {
			switch {
			case errors.Is(err, service.ErrEmailInUse):
				http.Error(w, "Email already exists", http.StatusBadRequest)
			case errors.Is(err, service.ErrInvalidRole):
				http.Error(w, "Invalid role: must be USER or ADMIN", http.StatusBadRequest)
			default:
				http.Error(w, "Failed to register", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("User registered successfully"))
	}
}
