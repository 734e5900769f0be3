package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// clientConn wraps one websocket connection with a buffered outbound queue.
// A writer goroutine owns every write on the socket; the queue keeps a slow
// client from ever blocking the room or its peers.
type clientConn struct {
	id      string
	rawConn *websocket.Conn

	send      chan []byte
	closeOnce sync.Once
}

func newClientConn(id string, rawConn *websocket.Conn) *clientConn {
	return &clientConn{
		id:      id,
		rawConn: rawConn,
		send:    make(chan []byte, sendQueueSize),
	}
}

// enqueue queues a frame for delivery. A false return means the queue is
// full ― the client is too slow to keep.
func (c *clientConn) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// close stops the writer pump, which tears the socket down on its way out.
func (c *clientConn) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// writePump drains the queue and keeps the ping loop going. Channel FIFO
// preserves the room's emission order for this connection.
func (c *clientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.rawConn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				_ = c.rawConn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.rawConn.WriteMessage(websocket.TextMessage, frame); err != nil {
				zap.L().Debug("ws.write_failed", zap.String("conn", c.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.rawConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
