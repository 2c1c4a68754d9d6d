package handlers

import (
	"net/http"

	libhttp "github.com/Brupez/EletricNET/libs/httpserver"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	libhttp.WriteJSON(w, status, payload)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	libhttp.WriteRaw(w, status, body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	libhttp.WriteError(w, status, message)
}

// NewHealthHandler answers liveness probes.
func NewHealthHandler() http.HandlerFunc {
	return libhttp.NewHealthHandler()
}
