package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dr-devil2004/backend-chat/internal/chat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must be < pongWait

	maxFrameSize  = 4096
	sendQueueSize = 64
)

// WsServer accepts websocket clients, assigns each a connection id and feeds
// their events into the room.
type WsServer struct {
	hub      *Hub
	router   *Router
	room     *chat.Room
	upgrader websocket.Upgrader
	allowed  map[string]struct{}
}

func NewWsServer(h *Hub, room *chat.Room, allowedOrigins []string) *WsServer {
	srv := &WsServer{
		hub:     h,
		router:  NewRouter(),
		room:    room,
		allowed: lo.SliceToMap(allowedOrigins, func(o string) (string, struct{}) { return o, struct{}{} }),
	}
	srv.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     srv.checkOrigin,
	}
	srv.registerHandlers() // ← all WS endpoints configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry‑point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(maxFrameSize)

	// ─────────────────── Client connected ─────────────────────
	conn := newClientConn(uuid.NewString(), rawConn)
	s.hub.add(conn)
	zap.L().Debug("ws.connected", zap.String("conn", conn.id))

	go conn.writePump()
	go s.reader(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 join ----------------------------------------------------------------
	Register(
		s.router,
		"join",
		func(cc *ConnContext, req JoinRequest) error {
			return s.room.Join(cc.ConnID, req.Username)
		},
	)

	// 🔹 sendMessage ---------------------------------------------------------
	Register(
		s.router,
		"sendMessage",
		func(cc *ConnContext, req SendMessageRequest) error {
			s.room.SendMessage(cc.ConnID, req.Text)
			return nil
		},
	)
}

// checkOrigin mirrors the HTTP CORS policy on the websocket handshake.
// Requests without an Origin header (curl, native clients) are allowed.
func (s *WsServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if _, ok := s.allowed[origin]; ok {
		return true
	}
	zap.L().Warn("ws.origin_rejected", zap.String("origin", origin))
	return false
}

func (s *WsServer) reader(conn *clientConn) {
	defer func() {
		// Unregister before the room broadcasts userLeft, so the leaver is
		// out of the fan-out set while the snapshot excludes it.
		s.hub.remove(conn.id)
		s.room.Disconnect(conn.id)
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &ConnContext{ConnID: conn.id, Server: s}

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			// A bad frame only fails this operation; the connection lives on.
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				zap.L().Debug("ws.bad_frame", zap.String("conn", conn.id), zap.Error(err))
				s.hub.SendTo(conn.id, "error", ErrorBody{Error: "invalid_frame"})
				continue
			}
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Debug("ws.read", zap.String("conn", conn.id), zap.Error(err))
			}
			return // client closed or errored
		}

		// ---- error -> {"event":"error", "body":{...}} ---------------------
		// Successful operations answer through room broadcasts instead.
		if err := s.router.dispatch(cc, env); err != nil {
			s.hub.SendTo(conn.id, "error", ErrorBody{Error: err.Error()})
		}
	}
}
