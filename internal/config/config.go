package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"3000" validate:"min=1000,max=65535"`

	// Browser origins allowed to reach the HTTP and websocket endpoints.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174,http://localhost:5175,http://127.0.0.1:5173,http://127.0.0.1:5174,http://127.0.0.1:5175,https://frontend-chat-psi.vercel.app,https://frontend-chat-dr-devil2004.vercel.app,https://frontend-chat-git-main-dr-devil2004.vercel.app,https://frontend-chat-liart.vercel.app"`

	// HistoryLimit caps retained chat history; 0 keeps everything.
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"0" validate:"min=0"`

	// TakeoverDisconnect closes the evicted connection when a username is
	// taken over by a newer join.
	TakeoverDisconnect bool `env:"TAKEOVER_DISCONNECT" envDefault:"false"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
