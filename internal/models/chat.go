package models

// ChatMessage represents a single message in a conversation
type ChatMessage struct {
	Role    string `json:"role"`    // "user", "assistant", or "system"
	Content string `json:"content"` // The message content
}

// ChatRequest represents the incoming chat request from the frontend.
// History is carried for potential future use but is not interpreted when
// building prompts; the frontend keeps its own transcript.
type ChatRequest struct {
	Message           string        `json:"message"`
	IsContextRequired bool          `json:"isContextRequired"`
	SelectedDocuments []string      `json:"selectedDocuments,omitempty"`
	History           []ChatMessage `json:"history,omitempty"`
}

// ChatResponse represents the response sent back to the frontend.
// SkippedDocuments lists selected names that were no longer in the store
// when the prompt was assembled.
type ChatResponse struct {
	Message          string   `json:"message"`
	Status           string   `json:"status"` // "success" or "error"
	SkippedDocuments []string `json:"skippedDocuments,omitempty"`
}

// BasicResponse is a minimal message/status payload
type BasicResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
