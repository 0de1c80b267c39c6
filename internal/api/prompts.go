package api

import (
	"net/http"
	"strings"

	"github.com/opsmind/phonesystem/backend/internal/prompts"
	"github.com/rs/zerolog"
)

// PromptHandler serves the default prompts the create-agent form is
// pre-filled with
type PromptHandler struct {
	catalog *prompts.Catalog
	logger  zerolog.Logger
}

// NewPromptHandler creates a new PromptHandler
func NewPromptHandler(catalog *prompts.Catalog, logger zerolog.Logger) *PromptHandler {
	return &PromptHandler{
		catalog: catalog,
		logger:  logger.With().Str("component", "prompts_api").Logger(),
	}
}

func (h *PromptHandler) serve(w http.ResponseWriter, r *http.Request, render func(useCase, agentName string) (string, error)) {
	q := r.URL.Query()
	useCase := strings.TrimSpace(q.Get("use_case"))
	agentName := strings.TrimSpace(q.Get("agent_name"))
	if agentName == "" {
		writeError(w, http.StatusBadRequest, "agent_name is required")
		return
	}

	text, err := render(useCase, agentName)
	if err != nil {
		h.logger.Error().Err(err).Str("use_case", useCase).Msg("failed to render prompt")
		writeError(w, http.StatusInternalServerError, "failed to render prompt")
		return
	}
	writeJSON(w, http.StatusOK, text)
}

// SystemPrompt handles GET /api/system_prompt
func (h *PromptHandler) SystemPrompt(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.catalog.SystemPrompt)
}

// FirstMessage handles GET /api/first_message
func (h *PromptHandler) FirstMessage(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.catalog.FirstMessage)
}
