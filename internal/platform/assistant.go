package platform

import "github.com/opsmind/phonesystem/backend/internal/types"

// Model and voice every dashboard-created assistant uses.
const (
	modelProvider       = "openai"
	modelName           = "gpt-4o-mini"
	knowledgeProvider   = "google"
	voiceProvider       = "11labs"
	voiceID             = "cgSgspJ2msm6clMCkdW9"
	voiceModel          = "eleven_turbo_v2_5"
	voiceStability      = 0.5
	voiceSimilarityGain = 0.75
)

type assistantPayload struct {
	Name         string       `json:"name"`
	FirstMessage string       `json:"firstMessage"`
	Model        modelPayload `json:"model"`
	Voice        voicePayload `json:"voice"`
}

type modelPayload struct {
	Provider      string           `json:"provider"`
	Model         string           `json:"model"`
	KnowledgeBase *knowledgeBase   `json:"knowledgeBase,omitempty"`
	Messages      []messagePayload `json:"messages"`
}

type knowledgeBase struct {
	Provider string   `json:"provider"`
	FileIDs  []string `json:"fileIds"`
}

type messagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type voicePayload struct {
	Provider        string  `json:"provider"`
	VoiceID         string  `json:"voiceId"`
	Model           string  `json:"model"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarityBoost"`
}

func newAssistantPayload(spec types.AssistantSpec) assistantPayload {
	p := assistantPayload{
		Name:         spec.Name,
		FirstMessage: spec.FirstMessage,
		Model: modelPayload{
			Provider: modelProvider,
			Model:    modelName,
			Messages: []messagePayload{{Role: "system", Content: spec.SystemPrompt}},
		},
		Voice: voicePayload{
			Provider:        voiceProvider,
			VoiceID:         voiceID,
			Model:           voiceModel,
			Stability:       voiceStability,
			SimilarityBoost: voiceSimilarityGain,
		},
	}
	if len(spec.FileIDs) > 0 {
		p.Model.KnowledgeBase = &knowledgeBase{Provider: knowledgeProvider, FileIDs: spec.FileIDs}
	}
	return p
}
