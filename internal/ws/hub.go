package ws

import (
	"encoding/json"
	"sync"

	"github.com/dr-devil2004/backend-chat/internal/chat"
	"go.uber.org/zap"
)

// Hub tracks every live connection by id and fans envelopes out to them. It
// is the transport side of chat.Sender.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*clientConn
}

var _ chat.Sender = (*Hub)(nil)

func NewHub() *Hub { return &Hub{conns: make(map[string]*clientConn)} }

func (h *Hub) add(c *clientConn) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	c, ok := h.conns[id]
	delete(h.conns, id)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

// SendTo unicasts one event. Unknown connection ids are ignored ― the client
// may have raced a disconnect.
func (h *Hub) SendTo(connID, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		zap.L().Error("ws.marshal", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	c, ok := h.conns[connID]
	full := ok && !c.enqueue(frame)
	h.mu.RUnlock()

	if full {
		h.dropSlow(connID)
	}
}

// BroadcastExcept delivers one event to every live connection except exclude;
// pass "" to reach everyone. The connection set is fixed under the read lock
// before any delivery, so peers joining or leaving concurrently are never
// skipped or hit twice. enqueue never blocks, so holding the lock is cheap.
func (h *Hub) BroadcastExcept(exclude, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		zap.L().Error("ws.marshal", zap.String("event", event), zap.Error(err))
		return
	}

	var slow []string
	h.mu.RLock()
	for id, c := range h.conns {
		if id == exclude {
			continue
		}
		if !c.enqueue(frame) {
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.dropSlow(id)
	}
}

// Kick force-closes a connection; its reader then runs the normal disconnect
// path.
func (h *Hub) Kick(connID string) { h.remove(connID) }

func (h *Hub) dropSlow(id string) {
	zap.L().Warn("ws.client_too_slow", zap.String("conn", id))
	h.remove(id)
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Body: body})
}
