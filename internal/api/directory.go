package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/opsmind/phonesystem/backend/internal/session"
	"github.com/opsmind/phonesystem/backend/internal/storage"
	"github.com/opsmind/phonesystem/backend/internal/types"
	"github.com/rs/zerolog"
)

// Directory fetches the platform resources a user owns.
type Directory interface {
	GetAssistant(ctx context.Context, assistantID string) (*types.Assistant, error)
	GetPhoneNumber(ctx context.Context, phoneID string) (*types.PhoneNumber, error)
}

// DirectoryHandler lists and links the assistants and phone numbers of a user
type DirectoryHandler struct {
	platform Directory
	store    storage.Store
	logger   zerolog.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(platform Directory, store storage.Store, logger zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		platform: platform,
		store:    store,
		logger:   logger.With().Str("component", "directory_api").Logger(),
	}
}

func userFor(w http.ResponseWriter, r *http.Request) (string, bool) {
	s, _ := session.FromContext(r.Context())
	if s.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return "", false
	}
	return s.UserID, true
}

// ListAgents handles GET /api/agents. An owned assistant the platform fails
// to return is skipped.
func (h *DirectoryHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFor(w, r)
	if !ok {
		return
	}

	ids, err := h.store.ListAssistantIDs(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list owned assistants")
		writeError(w, http.StatusInternalServerError, "failed to list assistants")
		return
	}

	agents := make([]*types.Assistant, 0, len(ids))
	for _, id := range ids {
		a, err := h.platform.GetAssistant(r.Context(), id)
		if err != nil {
			h.logger.Warn().Err(err).Str("assistant_id", id).Msg("skipping assistant")
			continue
		}
		agents = append(agents, a)
	}
	writeJSON(w, http.StatusOK, agents)
}

// ListPhones handles GET /api/phones
func (h *DirectoryHandler) ListPhones(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFor(w, r)
	if !ok {
		return
	}

	ids, err := h.store.ListPhoneIDs(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list owned phones")
		writeError(w, http.StatusInternalServerError, "failed to list phone numbers")
		return
	}

	phones := make([]*types.PhoneNumber, 0, len(ids))
	for _, id := range ids {
		p, err := h.platform.GetPhoneNumber(r.Context(), id)
		if err != nil {
			h.logger.Warn().Err(err).Str("phone_id", id).Msg("skipping phone number")
			continue
		}
		phones = append(phones, p)
	}
	writeJSON(w, http.StatusOK, phones)
}

type linkPhoneRequest struct {
	UserID  string `json:"user_id"`
	PhoneID string `json:"phone_id"`
}

// LinkPhone handles POST /api/phones
func (h *DirectoryHandler) LinkPhone(w http.ResponseWriter, r *http.Request) {
	var req linkPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.PhoneID = strings.TrimSpace(req.PhoneID)
	if req.UserID == "" {
		if s, ok := session.FromContext(r.Context()); ok {
			req.UserID = s.UserID
		}
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if !validID(w, "phone_id", req.PhoneID) {
		return
	}

	if err := h.store.LinkPhone(r.Context(), req.UserID, req.PhoneID); err != nil {
		h.logger.Error().Err(err).Str("phone_id", req.PhoneID).Msg("failed to link phone")
		writeError(w, http.StatusInternalServerError, "failed to link phone number")
		return
	}

	h.logger.Info().Str("user_id", req.UserID).Str("phone_id", req.PhoneID).Msg("phone linked")
	writeJSON(w, http.StatusCreated, req)
}
