package ws

import "encoding/json"

// Envelope wraps every WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "join"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// ──────────────────────────── Request DTOs ───────────────────────────────────

// JoinRequest is the body for "join".
type JoinRequest struct {
	Username string `json:"username"`
}

// SendMessageRequest is the body for "sendMessage".
type SendMessageRequest struct {
	Text string `json:"text"`
}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}
