package httpserver

import (
	"net/http"

	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
	"github.com/Brupez/EletricNET/services/booking-service/internal/http/handlers"
	"github.com/Brupez/EletricNET/services/booking-service/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Slots        *handlers.SlotHandlers
	Reservations *handlers.ReservationHandlers
	Metrics      http.Handler
	Health       http.HandlerFunc
	JWTSecret    string
}

// NewRouter wires the booking service routes. Charger reads are open, slot
// mutations require an ADMIN bearer token, and reservations require a valid
// bearer token.
func NewRouter(deps RouterDeps) http.Handler {
	auth := middleware.AuthMiddleware(deps.JWTSecret)
	admin := func(h http.Handler) http.Handler {
		return auth(middleware.RequireRole("ADMIN")(h))
	}

	mux := http.NewServeMux()

	mux.Handle("/health", libhttp.Method(http.MethodGet, deps.Health))
	mux.Handle("/metrics", libhttp.Method(http.MethodGet, deps.Metrics))

	mux.Handle("/api/slots", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.Slots.List(w, r)
		case http.MethodPost:
			admin(http.HandlerFunc(deps.Slots.Save)).ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/slots/chargers", libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Slots.Chargers)))
	mux.Handle("/api/slots/stats", libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Slots.Stats)))
	mux.Handle("/api/slots/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			deps.Slots.Get(w, r)
		case http.MethodPut:
			admin(http.HandlerFunc(deps.Slots.Save)).ServeHTTP(w, r)
		case http.MethodDelete:
			admin(http.HandlerFunc(deps.Slots.Delete)).ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET, PUT, DELETE")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle("/api/reservations", auth(libhttp.Method(http.MethodPost, http.HandlerFunc(deps.Reservations.Create))))
	mux.Handle("/api/reservations/me", auth(libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Reservations.ListMine))))
	mux.Handle("/api/reservations/all", admin(libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Reservations.ListAll))))
	mux.Handle("/api/reservations/admin/stats", admin(libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Reservations.AdminStats))))
	mux.Handle("/api/reservations/myStats", auth(libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Reservations.MyStats))))
	mux.Handle("/api/reservations/slot/", auth(libhttp.Method(http.MethodGet, http.HandlerFunc(deps.Reservations.ActiveBySlot))))
	mux.Handle("/api/reservations/", auth(libhttp.Method(http.MethodPut, http.HandlerFunc(deps.Reservations.Cancel))))

	return mux
}
