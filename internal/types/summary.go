package types

import (
	"encoding/json"
	"time"
)

// Known is a value that either resolved or is explicitly unknown.
type Known[T any] struct {
	Value T
	OK    bool
}

// Some marks v as resolved.
func Some[T any](v T) Known[T] { return Known[T]{Value: v, OK: true} }

// Unknown is the explicit unknown marker.
func Unknown[T any]() Known[T] { return Known[T]{} }

// Get returns the value and whether it resolved.
func (k Known[T]) Get() (T, bool) { return k.Value, k.OK }

// MarshalJSON writes null for unknown.
func (k Known[T]) MarshalJSON() ([]byte, error) {
	if !k.OK {
		return []byte("null"), nil
	}
	return json.Marshal(k.Value)
}

// Verdict is the classification of a success evaluation.
type Verdict string

const (
	VerdictUnknown Verdict = "unknown" // nothing resolved
	VerdictTrue    Verdict = "true"
	VerdictFalse   Verdict = "false"
	VerdictOpaque  Verdict = "opaque" // resolved, but not a recognised boolean
)

// SuccessEvaluation is the tri-state outcome plus the raw text for opaque values.
type SuccessEvaluation struct {
	Verdict Verdict `json:"verdict"`
	Raw     string  `json:"raw,omitempty"`
}

// ScoreKind tells how a score resolved.
type ScoreKind string

const (
	ScoreUnknown   ScoreKind = "unknown"
	ScoreNumeric   ScoreKind = "numeric"
	ScoreScorecard ScoreKind = "scorecard" // no number, but scorecards exist
)

// Score is the call score or the has-scorecard marker.
type Score struct {
	Kind  ScoreKind `json:"kind"`
	Value float64   `json:"value,omitempty"`
}

// CallSummary is the fixed-shape view of one call.
type CallSummary struct {
	ID                Known[string]     `json:"id"`
	AssistantPhone    Known[string]     `json:"assistantPhone"`
	CustomerPhone     Known[string]     `json:"customerPhone"`
	Type              Known[string]     `json:"type"`
	Status            Known[string]     `json:"status"`
	EndedReason       Known[string]     `json:"endedReason"`
	SuccessEvaluation SuccessEvaluation `json:"successEvaluation"`
	Score             Score             `json:"score"`
	StartedAt         Known[time.Time]  `json:"startedAt"`
	DurationSeconds   Known[float64]    `json:"durationSeconds"`
	CostUSD           Known[float64]    `json:"costUsd"`
}

// CallDisplay carries the rendered text of every summary field. Unknown
// fields render as "-".
type CallDisplay struct {
	ShortID           string `json:"shortId"`
	AssistantPhone    string `json:"assistantPhone"`
	CustomerPhone     string `json:"customerPhone"`
	Type              string `json:"type"`
	Status            string `json:"status"`
	EndedReason       string `json:"endedReason"`
	SuccessEvaluation string `json:"successEvaluation"`
	Score             string `json:"score"`
	StartedAt         string `json:"startedAt"`
	Duration          string `json:"duration"`
	Cost              string `json:"cost"`
}

// CallRow is one row of the calls table.
type CallRow struct {
	Summary     CallSummary `json:"summary"`
	Display     CallDisplay `json:"display"`
	AssistantID string      `json:"assistantId,omitempty"`
}

// CallLinks are the recording and log URLs of a call, when known.
type CallLinks struct {
	Recording string `json:"recording,omitempty"`
	Log       string `json:"log,omitempty"`
}

// MessageBadge is the role bucket used to style a transcript entry.
type MessageBadge string

const (
	BadgeSystem MessageBadge = "system"
	BadgeBot    MessageBadge = "bot"
	BadgeUser   MessageBadge = "user"
)

// TranscriptEntry is one message prepared for display.
type TranscriptEntry struct {
	Role   string       `json:"role"`
	Badge  MessageBadge `json:"badge"`
	Offset string       `json:"offset,omitempty"`
	Text   string       `json:"text"`
}

// CallDetail is everything the call page shows.
type CallDetail struct {
	Row        CallRow           `json:"row"`
	Links      CallLinks         `json:"links"`
	Messages   []TranscriptEntry `json:"messages"`
	Transcript string            `json:"transcript,omitempty"`
	Summary    string            `json:"summary,omitempty"`
}
