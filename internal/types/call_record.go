package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CallRecord is one call as returned by the voice platform. Every field is
// optional; shapes differ by call type and by which platform subsystem
// produced the record.
type CallRecord struct {
	ID                Value          `json:"id"`
	AssistantID       Value          `json:"assistantId"`
	PhoneNumberID     Value          `json:"phoneNumberId"`
	Type              Value          `json:"type"`
	Status            Value          `json:"status"`
	EndedReason       Value          `json:"endedReason"`
	StartedAt         Value          `json:"startedAt"`
	EndedAt           Value          `json:"endedAt"`
	CreatedAt         Value          `json:"createdAt"`
	Duration          Value          `json:"duration"`
	Cost              Value          `json:"cost"`
	Score             Value          `json:"score"`
	SuccessEvaluation Value          `json:"successEvaluation"`
	Scorecards        Value          `json:"scorecards"`
	PhoneNumber       *PhoneRef      `json:"phoneNumber,omitempty"`
	Variables         *Variables     `json:"variables,omitempty"`
	VariableValues    *Variables     `json:"variableValues,omitempty"`
	Customer          *PhoneRef      `json:"customer,omitempty"`
	Analysis          *Analysis      `json:"analysis,omitempty"`
	CostBreakdown     *CostBreakdown `json:"costBreakdown,omitempty"`
	Costs             CostList       `json:"costs"`
	RecordingURL      Value          `json:"recordingUrl"`
	LogURL            Value          `json:"logUrl"`
	Transcript        Value          `json:"transcript"`
	Summary           Value          `json:"summary"`
	Artifact          *Artifact      `json:"artifact,omitempty"`
	Messages          MessageList    `json:"messages"`
}

// UnmarshalJSON skips array elements that are not objects instead of failing
// the whole list.
func (r *CallRecord) UnmarshalJSON(b []byte) error {
	type plain CallRecord
	return decodeObject(b, (*plain)(r))
}

// PhoneRef is any nested object carrying a phone number.
type PhoneRef struct {
	Number Value `json:"number"`
}

func (p *PhoneRef) UnmarshalJSON(b []byte) error {
	type plain PhoneRef
	return decodeObject(b, (*plain)(p))
}

// Variables holds template variables attached to a call.
type Variables struct {
	PhoneNumber *PhoneRef `json:"phoneNumber,omitempty"`
}

func (v *Variables) UnmarshalJSON(b []byte) error {
	type plain Variables
	return decodeObject(b, (*plain)(v))
}

// Analysis is the post-call evaluation block.
type Analysis struct {
	SuccessEvaluation Value `json:"successEvaluation"`
	Success           Value `json:"success"`
	Score             Value `json:"score"`
	Summary           Value `json:"summary"`
}

func (a *Analysis) UnmarshalJSON(b []byte) error {
	type plain Analysis
	return decodeObject(b, (*plain)(a))
}

// CostBreakdown is the itemised cost block.
type CostBreakdown struct {
	Total Value `json:"total"`
	Cost  Value `json:"cost"`
}

func (c *CostBreakdown) UnmarshalJSON(b []byte) error {
	type plain CostBreakdown
	return decodeObject(b, (*plain)(c))
}

// CostItem is one entry of the costs array.
type CostItem struct {
	Type Value `json:"type"`
	Cost Value `json:"cost"`
}

func (c *CostItem) UnmarshalJSON(b []byte) error {
	type plain CostItem
	return decodeObject(b, (*plain)(c))
}

// CostList is the costs array; Present is false when the field was missing
// or was not an array.
type CostList struct {
	Items   []CostItem
	Present bool
}

func (l *CostList) UnmarshalJSON(b []byte) error {
	return decodeArray(b, &l.Items, &l.Present)
}

func (l CostList) MarshalJSON() ([]byte, error) {
	if !l.Present {
		return []byte("null"), nil
	}
	return json.Marshal(l.Items)
}

// Recording holds the recording URLs of an artifact.
type Recording struct {
	StereoURL Value          `json:"stereoUrl"`
	Mono      *MonoRecording `json:"mono,omitempty"`
}

// MonoRecording holds the single-channel recording URLs.
type MonoRecording struct {
	CombinedURL Value `json:"combinedUrl"`
}

func (m *MonoRecording) UnmarshalJSON(b []byte) error {
	type plain MonoRecording
	return decodeObject(b, (*plain)(m))
}

func (r *Recording) UnmarshalJSON(b []byte) error {
	type plain Recording
	return decodeObject(b, (*plain)(r))
}

// Artifact is what the platform stores after a call ends.
type Artifact struct {
	RecordingURL Value       `json:"recordingUrl"`
	Recording    *Recording  `json:"recording,omitempty"`
	LogURL       Value       `json:"logUrl"`
	Transcript   Value       `json:"transcript"`
	Messages     MessageList `json:"messages"`
}

func (a *Artifact) UnmarshalJSON(b []byte) error {
	type plain Artifact
	return decodeObject(b, (*plain)(a))
}

// Message is one transcript entry.
type Message struct {
	Role             Value `json:"role"`
	Message          Value `json:"message"`
	Content          Value `json:"content"`
	SecondsFromStart Value `json:"secondsFromStart"`
}

func (m *Message) UnmarshalJSON(b []byte) error {
	type plain Message
	return decodeObject(b, (*plain)(m))
}

// MessageList is a messages array; Present is false when missing or not an array.
type MessageList struct {
	Items   []Message
	Present bool
}

func (l *MessageList) UnmarshalJSON(b []byte) error {
	return decodeArray(b, &l.Items, &l.Present)
}

func (l MessageList) MarshalJSON() ([]byte, error) {
	if !l.Present {
		return []byte("null"), nil
	}
	return json.Marshal(l.Items)
}

// decodeObject unmarshals b into v only when b is a JSON object; any other
// shape leaves v untouched.
func decodeObject(b []byte, v any) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	return json.Unmarshal(b, v)
}

func decodeArray[T any](b []byte, items *[]T, present *bool) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		*items, *present = nil, false
		return nil
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*items, *present = out, true
	return nil
}

// DecodeCall decodes a single call record.
func DecodeCall(data []byte) (CallRecord, error) {
	var rec CallRecord
	if err := decodeObjectStrict(data, &rec); err != nil {
		return CallRecord{}, err
	}
	return rec, nil
}

// DecodeCallList accepts the three list envelopes the platform has been seen
// to return: a bare array, {"results": [...]} and {"calls": [...]}.
func DecodeCallList(data []byte) ([]CallRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty call list body")
	}

	switch data[0] {
	case '[':
		var records []CallRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode call list: %w", err)
		}
		return records, nil
	case '{':
		var envelope struct {
			Results *[]CallRecord `json:"results"`
			Calls   *[]CallRecord `json:"calls"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode call list envelope: %w", err)
		}
		if envelope.Results != nil {
			return *envelope.Results, nil
		}
		if envelope.Calls != nil {
			return *envelope.Calls, nil
		}
		return []CallRecord{}, nil
	}
	return nil, fmt.Errorf("unexpected call list body starting with %q", data[0])
}

func decodeObjectStrict(data []byte, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("call body is not a JSON object")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode call: %w", err)
	}
	return nil
}
