package api

import (
	"context"
	"net/http"

	"github.com/opsmind/phonesystem/backend/internal/session"
	"github.com/opsmind/phonesystem/backend/internal/types"
	"github.com/rs/zerolog"
)

// CallInsights is the read side of insights.Service.
type CallInsights interface {
	Rows(ctx context.Context, filter types.CallFilter) ([]types.CallRow, error)
	Series(ctx context.Context, filter types.CallFilter) (types.TimeSeries, error)
	Detail(ctx context.Context, callID string) (types.CallDetail, error)
}

// CallsHandler serves the call table, the daily charts and the call page
type CallsHandler struct {
	insights CallInsights
	logger   zerolog.Logger
}

// NewCallsHandler creates a new CallsHandler
func NewCallsHandler(insights CallInsights, logger zerolog.Logger) *CallsHandler {
	return &CallsHandler{
		insights: insights,
		logger:   logger.With().Str("component", "calls_api").Logger(),
	}
}

// filterFor reads the assistant/phone filter from the session, writing a 400
// when it is missing or malformed.
func filterFor(w http.ResponseWriter, r *http.Request) (types.CallFilter, bool) {
	s, _ := session.FromContext(r.Context())
	f := s.CallFilter()
	if f.Empty() {
		writeError(w, http.StatusBadRequest, "assistant_id or phone_id is required")
		return f, false
	}
	if !optionalID(w, "assistant_id", f.AssistantID) || !optionalID(w, "phone_id", f.PhoneNumberID) {
		return f, false
	}
	return f, true
}

// ListCalls handles GET /api/calls
func (h *CallsHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFor(w, r)
	if !ok {
		return
	}

	rows, err := h.insights.Rows(r.Context(), filter)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "calls")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetSeries handles GET /api/calls/series
func (h *CallsHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFor(w, r)
	if !ok {
		return
	}

	series, err := h.insights.Series(r.Context(), filter)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "calls")
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// GetCall handles GET /api/call
func (h *CallsHandler) GetCall(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	if !validID(w, "id", s.CallID) {
		return
	}

	detail, err := h.insights.Detail(r.Context(), s.CallID)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "call")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
