package domain

// Turn is a single entry in a conversation history.
type Turn struct {
	Role      string `json:"role"` // user, assistant
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
	Model     string `json:"model,omitempty"`
}

// ChatRequest is the payload forwarded to the backend chat endpoint.
type ChatRequest struct {
	Message             string  `json:"message"`
	ConversationHistory []Turn  `json:"conversation_history"`
	ModelID             *string `json:"model_id"`
}

// Model returns the requested model identifier, or "" when none was given.
func (r *ChatRequest) Model() string {
	if r == nil || r.ModelID == nil {
		return ""
	}
	return *r.ModelID
}

// ChatResponse is the backend's reply, optionally annotated with a cost estimate.
type ChatResponse struct {
	Response            string      `json:"response"`
	ConversationHistory []Turn      `json:"conversation_history"`
	TokenUsage          *TokenUsage `json:"token_usage,omitempty"`
	ModelUsed           string      `json:"model_used,omitempty"`
	Cost                *CostResult `json:"cost,omitempty"`
}

// TokenUsage tracks token consumption reported by the backend.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// HealthStatus is the backend liveness payload.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
