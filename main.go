package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dr-devil2004/backend-chat/internal/chat"
	"github.com/dr-devil2004/backend-chat/internal/config"
	"github.com/dr-devil2004/backend-chat/internal/http/http_server"
	"github.com/dr-devil2004/backend-chat/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. WebSockets hub + chat room
	hub := ws.NewHub()
	room := chat.NewRoom(hub, cfg.HistoryLimit, cfg.TakeoverDisconnect)

	// 4. Initialize the WS server
	wsSrv := ws.NewWsServer(hub, room, cfg.AllowedOrigins)

	// 5. HTTP + WS server
	httpServer := http_server.NewHttpServer(cfg.HttpServerPort, cfg.AllowedOrigins, wsSrv)
	go func() {
		<-ctx.Done()
		_ = httpServer.Dispose()
	}()

	Log.Info("Server starting", zap.Uint16("port", cfg.HttpServerPort))
	if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
