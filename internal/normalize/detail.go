package normalize

import (
	"strings"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/types"
)

// NoTranscript is shown when a call has neither messages nor a transcript.
const NoTranscript = "No transcript available"

var hiddenRoles = map[string]bool{
	"tool_calls":       true,
	"tool_call_result": true,
}

// Detail builds the call page: summary row, links and transcript.
func Detail(rec types.CallRecord, loc *time.Location) types.CallDetail {
	detail := types.CallDetail{
		Row:      Row(rec, loc),
		Links:    Links(rec),
		Messages: Transcript(FilterMessages(messagesOf(rec))),
	}

	if len(detail.Messages) == 0 {
		var artifactTranscript, analysisSummary types.Value
		if rec.Artifact != nil {
			artifactTranscript = rec.Artifact.Transcript
		}
		if rec.Analysis != nil {
			analysisSummary = rec.Analysis.Summary
		}
		detail.Transcript = NoTranscript
		if t, ok := text(rec.Transcript, artifactTranscript).Get(); ok {
			detail.Transcript = t
		}
		detail.Summary, _ = text(rec.Summary, analysisSummary).Get()
	}
	return detail
}

// Links resolves the recording and log URLs.
//
//	recording  recordingUrl, artifact.recordingUrl, artifact.recording.stereoUrl, artifact.recording.mono.combinedUrl
//	log        logUrl, artifact.logUrl
func Links(rec types.CallRecord) types.CallLinks {
	recording := []types.Value{rec.RecordingURL}
	logs := []types.Value{rec.LogURL}
	if a := rec.Artifact; a != nil {
		recording = append(recording, a.RecordingURL)
		if a.Recording != nil {
			recording = append(recording, a.Recording.StereoURL)
			if a.Recording.Mono != nil {
				recording = append(recording, a.Recording.Mono.CombinedURL)
			}
		}
		logs = append(logs, a.LogURL)
	}

	var links types.CallLinks
	links.Recording, _ = text(recording...).Get()
	links.Log, _ = text(logs...).Get()
	return links
}

// messagesOf prefers the top-level messages array whenever it is an array,
// even an empty one, and only then looks at the artifact.
func messagesOf(rec types.CallRecord) []types.Message {
	if rec.Messages.Present {
		return rec.Messages.Items
	}
	if rec.Artifact != nil && rec.Artifact.Messages.Present {
		return rec.Artifact.Messages.Items
	}
	return nil
}

func roleOf(m types.Message) string {
	role, _ := m.Role.Text()
	return role
}

// FilterMessages drops a leading system prompt and all tool traffic.
func FilterMessages(msgs []types.Message) []types.Message {
	if len(msgs) == 0 {
		return msgs
	}
	if roleOf(msgs[0]) == "system" {
		msgs = msgs[1:]
	}

	out := make([]types.Message, 0, len(msgs))
	for _, m := range msgs {
		if hiddenRoles[roleOf(m)] {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Badge buckets a lower-cased role.
func Badge(role string) types.MessageBadge {
	switch {
	case strings.Contains(role, "system"):
		return types.BadgeSystem
	case strings.Contains(role, "bot"), strings.Contains(role, "assistant"):
		return types.BadgeBot
	}
	return types.BadgeUser
}

// Transcript prepares messages for display. A missing role reads as system.
func Transcript(msgs []types.Message) []types.TranscriptEntry {
	entries := make([]types.TranscriptEntry, 0, len(msgs))
	for _, m := range msgs {
		role := strings.ToLower(roleOf(m))
		if role == "" {
			role = "system"
		}

		entry := types.TranscriptEntry{
			Role:  role,
			Badge: Badge(role),
		}
		if s, ok := m.SecondsFromStart.Text(); ok {
			entry.Offset = s + "s"
		}
		entry.Text, _ = text(m.Message, m.Content).Get()
		entries = append(entries, entry)
	}
	return entries
}
