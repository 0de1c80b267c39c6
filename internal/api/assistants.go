package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/opsmind/phonesystem/backend/internal/prompts"
	"github.com/opsmind/phonesystem/backend/internal/session"
	"github.com/opsmind/phonesystem/backend/internal/storage"
	"github.com/opsmind/phonesystem/backend/internal/types"
	"github.com/rs/zerolog"
)

const maxUploadMemory = 32 << 20

// AssistantPlatform creates, dials and deletes platform assistants.
type AssistantPlatform interface {
	UploadFile(ctx context.Context, filename, contentType string, content io.Reader) (string, error)
	CreateAssistant(ctx context.Context, spec types.AssistantSpec) (*types.Assistant, error)
	DeleteAssistant(ctx context.Context, assistantID string) error
	StartTestCall(ctx context.Context, assistantID, customerNumber, phoneNumberID string) (json.RawMessage, error)
}

// Invalidator drops cached call lists.
type Invalidator interface {
	Invalidate(assistantID, phoneID string) int
}

// AssistantHandler manages the lifecycle of a user's assistants
type AssistantHandler struct {
	platform    AssistantPlatform
	store       storage.Store
	invalidator Invalidator
	catalog     *prompts.Catalog
	testPhoneID string
	logger      zerolog.Logger
}

// NewAssistantHandler creates a new AssistantHandler. testPhoneID is the
// platform phone number test calls are placed from.
func NewAssistantHandler(platform AssistantPlatform, store storage.Store, invalidator Invalidator, catalog *prompts.Catalog, testPhoneID string, logger zerolog.Logger) *AssistantHandler {
	return &AssistantHandler{
		platform:    platform,
		store:       store,
		invalidator: invalidator,
		catalog:     catalog,
		testPhoneID: testPhoneID,
		logger:      logger.With().Str("component", "assistant_api").Logger(),
	}
}

// CreateAgent handles POST /api/create-agent. Every uploaded file becomes a
// knowledge-base document of the new assistant, which is then linked to the
// user. Missing prompts are rendered from the catalog's use case.
func (h *AssistantHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }

	spec := types.AssistantSpec{
		Name:         form("agent_name"),
		FirstMessage: form("first_message"),
		SystemPrompt: form("system_prompt"),
	}
	userID := form("user_id")
	if userID == "" {
		s, _ := session.FromContext(r.Context())
		userID = s.UserID
	}

	if spec.Name == "" {
		writeError(w, http.StatusBadRequest, "agent_name is required")
		return
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	var err error
	if spec.FirstMessage == "" {
		if spec.FirstMessage, err = h.catalog.FirstMessage(form("use_case"), spec.Name); err != nil {
			h.logger.Error().Err(err).Msg("failed to render first message")
			writeError(w, http.StatusInternalServerError, "failed to render first message")
			return
		}
	}
	if spec.SystemPrompt == "" {
		if spec.SystemPrompt, err = h.catalog.SystemPrompt(form("use_case"), spec.Name); err != nil {
			h.logger.Error().Err(err).Msg("failed to render system prompt")
			writeError(w, http.StatusInternalServerError, "failed to render system prompt")
			return
		}
	}

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable upload "+fh.Filename)
			return
		}
		fileID, err := h.platform.UploadFile(r.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			writeUpstreamError(w, h.logger, err, "file upload")
			return
		}
		spec.FileIDs = append(spec.FileIDs, fileID)
	}

	assistant, err := h.platform.CreateAssistant(r.Context(), spec)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "assistant")
		return
	}

	if err := h.store.LinkAssistant(r.Context(), userID, assistant.ID); err != nil {
		h.logger.Error().Err(err).Str("assistant_id", assistant.ID).Msg("assistant created but not linked")
		writeError(w, http.StatusInternalServerError, "assistant created but could not be linked")
		return
	}

	h.logger.Info().
		Str("user_id", userID).
		Str("assistant_id", assistant.ID).
		Int("files", len(spec.FileIDs)).
		Msg("assistant created")

	writeJSON(w, http.StatusCreated, assistant)
}

// TestCall handles POST /api/test-call
func (h *AssistantHandler) TestCall(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	if !validID(w, "assistant_id", s.AssistantID) {
		return
	}
	number := strings.TrimSpace(r.URL.Query().Get("customer_number"))
	if number == "" {
		writeError(w, http.StatusBadRequest, "customer_number is required")
		return
	}
	if h.testPhoneID == "" {
		writeError(w, http.StatusServiceUnavailable, "test phone number is not configured")
		return
	}

	call, err := h.platform.StartTestCall(r.Context(), s.AssistantID, number, h.testPhoneID)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "assistant")
		return
	}

	h.logger.Info().Str("assistant_id", s.AssistantID).Msg("test call started")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(call)
}

// DeleteAssistant handles DELETE /api/delete-assistant. The ownership link
// is removed only after the platform deleted the assistant.
func (h *AssistantHandler) DeleteAssistant(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	if !validID(w, "assistant_id", s.AssistantID) {
		return
	}

	if err := h.platform.DeleteAssistant(r.Context(), s.AssistantID); err != nil {
		writeUpstreamError(w, h.logger, err, "assistant")
		return
	}
	if err := h.store.UnlinkAssistant(r.Context(), s.AssistantID); err != nil {
		h.logger.Error().Err(err).Str("assistant_id", s.AssistantID).Msg("failed to unlink deleted assistant")
		writeError(w, http.StatusInternalServerError, "assistant deleted but link remains")
		return
	}
	h.invalidator.Invalidate(s.AssistantID, "")

	h.logger.Info().Str("assistant_id", s.AssistantID).Msg("assistant deleted")
	writeJSON(w, http.StatusOK, map[string]string{"deleted": s.AssistantID})
}
