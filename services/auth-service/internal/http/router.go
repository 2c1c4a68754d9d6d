package httpserver

import (
	"net/http"

	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
)

// Routes collects the auth endpoints.
type Routes struct {
	Login    http.HandlerFunc
	Register http.HandlerFunc
	Health   http.HandlerFunc
}

// NewRouter wires the auth service routes.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", libhttp.Method(http.MethodGet, routes.Health))
	mux.Handle("/api/auth/login", libhttp.Method(http.MethodPost, routes.Login))
	mux.Handle("/api/auth/register", libhttp.Method(http.MethodPost, routes.Register))
	return mux
}
