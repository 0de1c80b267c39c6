package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/opsmind/phonesystem/backend/internal/platform"
	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeUpstreamError maps a failed platform call onto the response: a
// platform 404 stays a 404, anything else is a bad gateway.
func writeUpstreamError(w http.ResponseWriter, logger zerolog.Logger, err error, what string) {
	if platform.IsNotFound(err) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	logger.Error().Err(err).Str("resource", what).Msg("platform request failed")

	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		writeError(w, http.StatusBadGateway, apiErr.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "platform unavailable")
}

// validID rejects ids that are not UUIDs before they reach an upstream path.
func validID(w http.ResponseWriter, name, id string) bool {
	if id == "" {
		writeError(w, http.StatusBadRequest, name+" is required")
		return false
	}
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, name+" must be a UUID")
		return false
	}
	return true
}

// optionalID accepts an empty id.
func optionalID(w http.ResponseWriter, name, id string) bool {
	if id == "" {
		return true
	}
	return validID(w, name, id)
}
