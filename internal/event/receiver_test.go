package event

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type recordingInvalidator struct {
	calls [][2]string
}

func (r *recordingInvalidator) Invalidate(assistantID, phoneID string) int {
	r.calls = append(r.calls, [2]string{assistantID, phoneID})
	return 1
}

func TestHandleWebhook(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		wantStatus      int
		wantInvalidated bool
	}{
		{
			name:            "end of call report invalidates",
			body:            `{"message":{"type":"end-of-call-report","call":{"id":"c1","assistantId":"a1","phoneNumberId":"p1"}}}`,
			wantStatus:      http.StatusOK,
			wantInvalidated: true,
		},
		{
			name:            "status update invalidates",
			body:            `{"message":{"type":"Status-Update","call":{"assistantId":"a1"}}}`,
			wantStatus:      http.StatusOK,
			wantInvalidated: true,
		},
		{
			name:       "transcript message is only counted",
			body:       `{"message":{"type":"transcript","call":{"assistantId":"a1"}}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "report without call ids",
			body:       `{"message":{"type":"end-of-call-report"}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing type",
			body:       `{"message":{}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"message":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &recordingInvalidator{}
			r := NewReceiver(inv, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/internal/webhook", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.HandleWebhook(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := len(inv.calls) > 0; got != tt.wantInvalidated {
				t.Errorf("expected invalidated=%v, got calls %v", tt.wantInvalidated, inv.calls)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	inv := &recordingInvalidator{}
	r := NewReceiver(inv, zerolog.Nop())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/internal/webhook",
			strings.NewReader(`{"message":{"type":"end-of-call-report","call":{"assistantId":"a1"}}}`))
		r.HandleWebhook(httptest.NewRecorder(), req)
	}

	rec := httptest.NewRecorder()
	r.GetStats(rec, httptest.NewRequest(http.MethodGet, "/internal/webhook/stats", nil))

	var stats map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to parse stats: %v", err)
	}
	if stats["events_received"].(float64) != 3 {
		t.Errorf("expected 3 events, got %v", stats["events_received"])
	}
	if stats["invalidations"].(float64) != 3 {
		t.Errorf("expected 3 invalidations, got %v", stats["invalidations"])
	}
	if inv.calls[0] != [2]string{"a1", ""} {
		t.Errorf("unexpected invalidate args %v", inv.calls[0])
	}
}
