package event

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/metrics"
	"github.com/rs/zerolog"
)

// Message types after which a cached call list is stale.
const (
	TypeEndOfCallReport = "end-of-call-report"
	TypeStatusUpdate    = "status-update"
)

// knownTypes bounds the metric label set; anything else counts as "other".
var knownTypes = map[string]bool{
	TypeEndOfCallReport:   true,
	TypeStatusUpdate:      true,
	"assistant-request":   true,
	"conversation-update": true,
	"hang":                true,
	"speech-update":       true,
	"tool-calls":          true,
	"transcript":          true,
}

// Invalidator drops cached call lists (insights.Service in production).
type Invalidator interface {
	Invalidate(assistantID, phoneID string) int
}

type serverMessage struct {
	Message struct {
		Type string `json:"type"`
		Call struct {
			ID            string `json:"id"`
			AssistantID   string `json:"assistantId"`
			PhoneNumberID string `json:"phoneNumberId"`
		} `json:"call"`
	} `json:"message"`
}

// Receiver handles server messages the voice platform posts about calls
type Receiver struct {
	invalidator    Invalidator
	logger         zerolog.Logger
	eventsReceived int64
	invalidations  int64
	lastReceived   time.Time
	mu             sync.RWMutex
}

// NewReceiver creates a new webhook receiver
func NewReceiver(invalidator Invalidator, logger zerolog.Logger) *Receiver {
	return &Receiver{
		invalidator: invalidator,
		logger:      logger.With().Str("component", "webhook").Logger(),
	}
}

// HandleWebhook records a platform message and drops cached call lists that
// the message makes stale.
func (r *Receiver) HandleWebhook(w http.ResponseWriter, req *http.Request) {
	var msg serverMessage
	if err := json.NewDecoder(req.Body).Decode(&msg); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode webhook")
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	msgType := strings.ToLower(strings.TrimSpace(msg.Message.Type))
	if msgType == "" {
		writeError(w, http.StatusBadRequest, "message type is required")
		return
	}
	label := msgType
	if !knownTypes[label] {
		label = "other"
	}
	metrics.Get().RecordWebhookEvent(label)

	atomic.AddInt64(&r.eventsReceived, 1)
	r.mu.Lock()
	r.lastReceived = time.Now()
	r.mu.Unlock()

	call := msg.Message.Call
	dropped := 0
	if msgType == TypeEndOfCallReport || msgType == TypeStatusUpdate {
		if call.AssistantID != "" || call.PhoneNumberID != "" {
			dropped = r.invalidator.Invalidate(call.AssistantID, call.PhoneNumberID)
			atomic.AddInt64(&r.invalidations, int64(dropped))
		}
	}

	r.logger.Debug().
		Str("type", msgType).
		Str("call_id", call.ID).
		Str("assistant_id", call.AssistantID).
		Int("invalidated", dropped).
		Msg("webhook received")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"received":    true,
		"invalidated": dropped,
	})
}

// GetStats returns receiver statistics
func (r *Receiver) GetStats(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	lastReceived := r.lastReceived
	r.mu.RUnlock()

	stats := map[string]interface{}{
		"events_received": atomic.LoadInt64(&r.eventsReceived),
		"invalidations":   atomic.LoadInt64(&r.invalidations),
		"last_received":   lastReceived,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
