package types

// Assistant is the subset of a platform assistant the dashboard shows.
type Assistant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FirstMessage string `json:"firstMessage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// PhoneNumber is the subset of a platform phone number the dashboard shows.
type PhoneNumber struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Number      string `json:"number"`
	Provider    string `json:"provider,omitempty"`
	AssistantID string `json:"assistantId,omitempty"`
}

// AssistantSpec is what the dashboard sends when creating an assistant.
type AssistantSpec struct {
	Name         string
	FirstMessage string
	SystemPrompt string
	FileIDs      []string
}

// CallFilter selects the calls of one assistant and/or one phone number.
type CallFilter struct {
	AssistantID   string
	PhoneNumberID string
}

// Empty reports whether neither id is set.
func (f CallFilter) Empty() bool {
	return f.AssistantID == "" && f.PhoneNumberID == ""
}

// Key is a stable cache key for the filter.
func (f CallFilter) Key() string {
	return "assistant=" + f.AssistantID + "&phone=" + f.PhoneNumberID
}
