package types

// AssistantLink records that a user owns an assistant
type AssistantLink struct {
	UserID      string `json:"userId" dynamodbav:"UserID"`           // partition key
	AssistantID string `json:"assistantId" dynamodbav:"AssistantID"` // sort key
	LinkedAt    string `json:"linkedAt" dynamodbav:"LinkedAt"`       // RFC3339
}

// PhoneLink records that a user owns a phone number
type PhoneLink struct {
	UserID   string `json:"userId" dynamodbav:"UserID"`     // partition key
	PhoneID  string `json:"phoneId" dynamodbav:"PhoneID"`   // sort key
	LinkedAt string `json:"linkedAt" dynamodbav:"LinkedAt"` // RFC3339
}
