package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := LoadConfig()
	req.NoError(err)

	req.Equal(uint16(3000), cfg.HttpServerPort)
	req.Equal(0, cfg.HistoryLimit)
	req.False(cfg.TakeoverDisconnect)
	req.Contains(cfg.AllowedOrigins, "http://localhost:5173")
	req.Contains(cfg.AllowedOrigins, "https://frontend-chat-psi.vercel.app")
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	req := require.New(t)

	t.Setenv("HTTP_SERVER_PORT", "8085")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("HISTORY_LIMIT", "250")
	t.Setenv("TAKEOVER_DISCONNECT", "true")

	cfg, err := LoadConfig()
	req.NoError(err)

	req.Equal(uint16(8085), cfg.HttpServerPort)
	req.Equal([]string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	req.Equal(250, cfg.HistoryLimit)
	req.True(cfg.TakeoverDisconnect)
}

func TestLoadConfig_RejectsInvalidPort(t *testing.T) {
	req := require.New(t)

	t.Setenv("HTTP_SERVER_PORT", "80")

	_, err := LoadConfig()
	req.Error(err)
}

func TestLoadConfig_RejectsNegativeHistoryLimit(t *testing.T) {
	req := require.New(t)

	t.Setenv("HISTORY_LIMIT", "-1")

	_, err := LoadConfig()
	req.Error(err)
}
