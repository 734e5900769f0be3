package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// receivedFrame drains one queued frame from a connection that has no writer
// pump running.
func receivedFrame(t *testing.T, c *clientConn) Envelope {
	t.Helper()
	select {
	case frame := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		return env
	default:
		t.Fatal("no frame queued")
		return Envelope{}
	}
}

func TestHub_SendTo_QueuesEnvelope(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	conn := newClientConn("connA", nil)
	hub.add(conn)

	hub.SendTo("connA", "welcome", map[string]string{"hello": "world"})

	env := receivedFrame(t, conn)
	req.Equal("welcome", env.Event)

	var body map[string]string
	req.NoError(json.Unmarshal(env.Body, &body))
	req.Equal("world", body["hello"])
}

func TestHub_SendTo_UnknownConnection_IsNoOp(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	conn := newClientConn("connA", nil)
	hub.add(conn)

	hub.SendTo("ghost", "welcome", nil)

	req.Empty(conn.send)
}

func TestHub_BroadcastExcept_SkipsOnlyTheExcluded(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	a := newClientConn("connA", nil)
	b := newClientConn("connB", nil)
	c := newClientConn("connC", nil)
	hub.add(a)
	hub.add(b)
	hub.add(c)

	hub.BroadcastExcept("connA", "userJoined", nil)

	req.Empty(a.send)
	req.Equal("userJoined", receivedFrame(t, b).Event)
	req.Equal("userJoined", receivedFrame(t, c).Event)
}

func TestHub_BroadcastExcept_EmptyExclude_ReachesEveryone(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	a := newClientConn("connA", nil)
	b := newClientConn("connB", nil)
	hub.add(a)
	hub.add(b)

	hub.BroadcastExcept("", "newMessage", nil)

	req.Equal("newMessage", receivedFrame(t, a).Event)
	req.Equal("newMessage", receivedFrame(t, b).Event)
}

func TestHub_Broadcast_DropsClientWithFullQueue(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	healthy := newClientConn("healthy", nil)
	slow := newClientConn("slow", nil)
	hub.add(healthy)
	hub.add(slow)

	for i := 0; i < sendQueueSize; i++ {
		req.True(slow.enqueue([]byte("{}")))
	}

	hub.BroadcastExcept("", "newMessage", nil)

	// The slow client is gone, its peers are untouched.
	hub.mu.RLock()
	_, slowAlive := hub.conns["slow"]
	_, healthyAlive := hub.conns["healthy"]
	hub.mu.RUnlock()
	req.False(slowAlive)
	req.True(healthyAlive)
	req.Equal("newMessage", receivedFrame(t, healthy).Event)
}

func TestHub_Kick_RemovesConnection(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	conn := newClientConn("connA", nil)
	hub.add(conn)

	hub.Kick("connA")

	hub.mu.RLock()
	_, alive := hub.conns["connA"]
	hub.mu.RUnlock()
	req.False(alive)

	// The outbound queue is closed so a writer pump would stop; kicking
	// twice must not panic.
	_, open := <-conn.send
	req.False(open)
	hub.Kick("connA")
}
