package model

import "encoding/json"

// Textos fixos devolvidos ao cliente
const (
	ErrMessageMissing = "Message parameter is missing or empty."
	ErrInternal       = "An internal server error occurred."
)

// ChatRequest representa a requisição para o endpoint de chat.
// Message fica como JSON cru para distinguir campo ausente, null e tipos não-string.
type ChatRequest struct {
	Message json.RawMessage `json:"message,omitempty"`
}

// ChatResponse representa a resposta do endpoint de chat
type ChatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse representa o corpo de erro (400 e 500)
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
