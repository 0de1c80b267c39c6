package normalize

import (
	"testing"

	"github.com/opsmind/phonesystem/backend/internal/types"
)

func TestDetailMessages(t *testing.T) {
	rec := decode(t, `{
		"id": "c1",
		"messages": [
			{"role": "system", "message": "You are a receptionist"},
			{"role": "bot", "message": "Hello!", "secondsFromStart": 0.5},
			{"role": "tool_calls", "message": "lookup()"},
			{"role": "tool_call_result", "message": "{}"},
			{"role": "User", "content": "Where is the pool?", "secondsFromStart": 3},
			{"message": "orphan"}
		]
	}`)

	d := Detail(rec, nil)
	want := []types.TranscriptEntry{
		{Role: "bot", Badge: types.BadgeBot, Offset: "0.5s", Text: "Hello!"},
		{Role: "user", Badge: types.BadgeUser, Offset: "3s", Text: "Where is the pool?"},
		{Role: "system", Badge: types.BadgeSystem, Text: "orphan"},
	}
	if len(d.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %d: %+v", len(want), len(d.Messages), d.Messages)
	}
	for i := range want {
		if d.Messages[i] != want[i] {
			t.Errorf("message %d: got %+v, want %+v", i, d.Messages[i], want[i])
		}
	}
	if d.Transcript != "" {
		t.Errorf("transcript fallback should not be used when messages exist, got %q", d.Transcript)
	}
}

func TestDetailArtifactMessages(t *testing.T) {
	rec := decode(t, `{"artifact":{"messages":[{"role":"assistant","message":"Hi"}]}}`)
	d := Detail(rec, nil)
	if len(d.Messages) != 1 || d.Messages[0].Badge != types.BadgeBot {
		t.Errorf("expected artifact message, got %+v", d.Messages)
	}

	// An empty top-level array still wins over the artifact.
	rec = decode(t, `{"messages":[],"artifact":{"messages":[{"role":"assistant","message":"Hi"}]},"transcript":"AI: Hi"}`)
	d = Detail(rec, nil)
	if len(d.Messages) != 0 {
		t.Errorf("expected no messages, got %+v", d.Messages)
	}
	if d.Transcript != "AI: Hi" {
		t.Errorf("expected transcript fallback, got %q", d.Transcript)
	}
}

func TestDetailFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		transcript string
		summary    string
	}{
		{"top level", `{"transcript":"T","summary":"S","analysis":{"summary":"AS"}}`, "T", "S"},
		{"nested", `{"artifact":{"transcript":"AT"},"analysis":{"summary":"AS"}}`, "AT", "AS"},
		{"nothing", `{}`, NoTranscript, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detail(decode(t, tt.body), nil)
			if d.Transcript != tt.transcript || d.Summary != tt.summary {
				t.Errorf("got transcript %q summary %q", d.Transcript, d.Summary)
			}
		})
	}
}

func TestLinks(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		recording string
		log       string
	}{
		{"top level", `{"recordingUrl":"r1","logUrl":"l1","artifact":{"recordingUrl":"r2","logUrl":"l2"}}`, "r1", "l1"},
		{"artifact", `{"artifact":{"recordingUrl":"r2","logUrl":"l2"}}`, "r2", "l2"},
		{"stereo", `{"artifact":{"recording":{"stereoUrl":"r3","mono":{"combinedUrl":"r4"}}}}`, "r3", ""},
		{"mono", `{"artifact":{"recording":{"mono":{"combinedUrl":"r4"}}}}`, "r4", ""},
		{"none", `{}`, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := Links(decode(t, tt.body))
			if links.Recording != tt.recording || links.Log != tt.log {
				t.Errorf("got %+v", links)
			}
		})
	}
}

func TestBadge(t *testing.T) {
	tests := map[string]types.MessageBadge{
		"system":    types.BadgeSystem,
		"bot":       types.BadgeBot,
		"assistant": types.BadgeBot,
		"user":      types.BadgeUser,
		"customer":  types.BadgeUser,
	}
	for role, want := range tests {
		if got := Badge(role); got != want {
			t.Errorf("Badge(%q) = %s, want %s", role, got, want)
		}
	}
}
