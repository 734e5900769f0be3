package chat

import (
	"strconv"
	"time"
)

// History is the append-only message log replayed to new joiners. A limit of
// 0 keeps every message; a positive limit keeps only the last N.
//
// Like Registry, History relies on Room for serialization.
type History struct {
	limit    int
	messages []ChatMessage
	lastID   int64
}

func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Append records a new immutable message and returns it. Ids are millisecond
// timestamps forced strictly monotonic, so same-millisecond appends still get
// unique, ordered ids.
func (h *History) Append(text string, sender Participant) ChatMessage {
	now := time.Now()
	id := now.UnixMilli()
	if id <= h.lastID {
		id = h.lastID + 1
	}
	h.lastID = id

	msg := ChatMessage{
		ID:        strconv.FormatInt(id, 10),
		Text:      text,
		UserID:    sender.ID,
		Username:  sender.Username,
		Timestamp: now,
	}
	h.messages = append(h.messages, msg)

	if h.limit > 0 && len(h.messages) > h.limit {
		// Slide instead of reslicing so the backing array cannot grow
		// without bound.
		h.messages = append(h.messages[:0], h.messages[len(h.messages)-h.limit:]...)
	}
	return msg
}

// All returns the full retained history, oldest first.
func (h *History) All() []ChatMessage {
	out := make([]ChatMessage, len(h.messages))
	copy(out, h.messages)
	return out
}
