package chat

import "time"

// Participant is a live, identified occupant of the room. ID is the
// transport-assigned connection id.
type Participant struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ChatMessage is immutable once appended to the history.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}
