package httpserver

import (
	"net/http"

	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
	"github.com/Brupez/EletricNET/services/webapp/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Session      *handlers.SessionHandlers
	Search       *handlers.SearchHandlers
	Reservations *handlers.ReservationsHandlers
	Markers      *handlers.MarkersHandler
	Health       http.HandlerFunc
}

// NewRouter wires the web client's backend routes.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", libhttp.Method(http.MethodGet, deps.Health))

	mux.Handle("/api/session/login", libhttp.Method(http.MethodPost, http.HandlerFunc(deps.Session.Login)))
	mux.Handle("/api/session/logout", libhttp.Method(http.MethodPost, http.HandlerFunc(deps.Session.Logout)))
	mux.Handle("/api/session/register", libhttp.Method(http.MethodPost, http.HandlerFunc(deps.Session.Register)))
	mux.Handle("/api/session/me", libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Session.Me)))

	mux.Handle("/api/search", libhttp.Method(http.MethodPost, http.HandlerFunc(deps.Search.Submit)))
	mux.Handle("/api/search/filter", libhttp.Method(http.MethodPost, http.HandlerFunc(deps.Search.Filter)))
	mux.Handle("/api/search/results", libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Search.Results)))
	mux.Handle("/api/search/select", libhttp.Method(http.MethodPost, http.HandlerFunc(deps.Search.Select)))

	mux.Handle("/api/reservations", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			deps.Reservations.Create(w, r)
		case http.MethodGet:
			deps.Reservations.ListMine(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/reservations/stats", libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Reservations.MyStats)))
	mux.Handle("/api/reservations/", libhttp.Method(http.MethodPut, http.HandlerFunc(deps.Reservations.Cancel)))

	mux.Handle("/ws/markers", libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Markers.Serve)))

	return mux
}
