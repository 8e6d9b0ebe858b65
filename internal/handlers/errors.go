package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/goccy/go-json"

	"theraplay/internal/models"
	"theraplay/internal/service"
)

// errorResponse is the JSON error body
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}
	writeJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps the engine's error taxonomy onto HTTP statuses
// without collapsing the kinds into a generic failure
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		respondWithError(w, http.StatusNotFound, "Report not found", err)
	case errors.Is(err, service.ErrNotReportOwner):
		respondWithError(w, http.StatusForbidden, "Report belongs to another doctor", err)
	case errors.Is(err, service.ErrAlreadyReviewed):
		respondWithError(w, http.StatusConflict, "Report has already been reviewed", err)
	case errors.Is(err, service.ErrNoGamesSelected):
		respondWithError(w, http.StatusBadRequest, "At least one game must be selected", err)
	case errors.Is(err, models.ErrUnknownGameType):
		respondWithError(w, http.StatusBadRequest, "Unknown game type", err)
	case errors.Is(err, models.ErrUnknownVerdict):
		respondWithError(w, http.StatusBadRequest, "Unknown verdict", err)
	case errors.Is(err, service.ErrSerialization):
		respondWithError(w, http.StatusInternalServerError, "Report could not be encoded", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", err)
	}
}
