package chat

import (
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Event names pushed to clients.
const (
	EventWelcome    = "welcome"
	EventUserJoined = "userJoined"
	EventNewMessage = "newMessage"
	EventUserLeft   = "userLeft"
)

var ErrEmptyUsername = errors.New("username must not be empty")

// Sender is the outbound half of the transport. Implementations must never
// block on a slow receiver ― Room calls it while holding its lock.
type Sender interface {
	// SendTo unicasts to one live connection; unknown ids are ignored.
	SendTo(connID, event string, payload any)
	// BroadcastExcept sends to every live connection except exclude;
	// pass "" to reach everyone.
	BroadcastExcept(exclude, event string, payload any)
	// Kick force-closes a connection at the transport level.
	Kick(connID string)
}

// Outbound event payloads.
type (
	WelcomePayload struct {
		User     Participant   `json:"user"`
		Users    []Participant `json:"users"`
		Messages []ChatMessage `json:"messages"`
	}

	UserJoinedPayload struct {
		User  Participant   `json:"user"`
		Users []Participant `json:"users"`
	}

	NewMessagePayload struct {
		Message ChatMessage `json:"message"`
	}

	UserLeftPayload struct {
		UserID string        `json:"userId"`
		Users  []Participant `json:"users"`
	}
)

// Room is the single shared chat room: it drives joins, message fan-out and
// disconnects over the registry and history. Every operation runs under one
// mutex ― each broadcast's embedded users snapshot has to reflect exactly the
// mutation that produced it, which cannot hold if registry state mutates
// concurrently.
type Room struct {
	mu       sync.Mutex
	registry *Registry
	history  *History
	sender   Sender

	// takeoverDisconnect closes the evicted connection when a username is
	// taken over; off by default, matching the legacy server which left the
	// old connection open but identity-less.
	takeoverDisconnect bool
}

func NewRoom(sender Sender, historyLimit int, takeoverDisconnect bool) *Room {
	return &Room{
		registry:           NewRegistry(),
		history:            NewHistory(historyLimit),
		sender:             sender,
		takeoverDisconnect: takeoverDisconnect,
	}
}

// Join binds connID to username and announces the arrival. Joining again on
// an already-bound connection only resends welcome to the caller ― no second
// registry entry, no repeated userJoined.
func (r *Room) Join(connID, username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.registry.LookupByConnection(connID); existing != nil {
		r.sender.SendTo(connID, EventWelcome, WelcomePayload{
			User:     *existing,
			Users:    r.registry.Snapshot(),
			Messages: r.history.All(),
		})
		return nil
	}

	p, evicted := r.registry.Bind(connID, username)
	if evicted != nil {
		// Last write wins: the old binding is silently revoked, no userLeft
		// is emitted for it. Its own later disconnect becomes a no-op.
		zap.L().Info("username_takeover",
			zap.String("username", username),
			zap.String("old_conn", evicted.ID),
			zap.String("new_conn", connID),
		)
		if r.takeoverDisconnect {
			r.sender.Kick(evicted.ID)
		}
	}

	r.sender.SendTo(connID, EventWelcome, WelcomePayload{
		User:     *p,
		Users:    r.registry.Snapshot(),
		Messages: r.history.All(),
	})
	r.sender.BroadcastExcept(connID, EventUserJoined, UserJoinedPayload{
		User:  *p,
		Users: r.registry.Snapshot(),
	})

	zap.L().Info("user_joined", zap.String("username", username), zap.String("conn", connID))
	return nil
}

// SendMessage appends text to the history and fans it out to every
// connection, sender included. Sends from a connection that never joined are
// dropped, matching the legacy server.
func (r *Room) SendMessage(connID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sender := r.registry.LookupByConnection(connID)
	if sender == nil {
		zap.L().Debug("message_before_join", zap.String("conn", connID))
		return
	}

	msg := r.history.Append(text, *sender)
	r.sender.BroadcastExcept("", EventNewMessage, NewMessagePayload{Message: msg})
}

// Disconnect unbinds connID and tells the remaining participants. A
// connection that never joined (or lost its identity to a takeover)
// disconnects silently.
func (r *Room) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.registry.Unbind(connID)
	if p == nil {
		return
	}

	r.sender.BroadcastExcept(connID, EventUserLeft, UserLeftPayload{
		UserID: connID,
		Users:  r.registry.Snapshot(),
	})

	zap.L().Info("user_left", zap.String("username", p.Username), zap.String("conn", connID))
}
