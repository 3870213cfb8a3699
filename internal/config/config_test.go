package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Load()
	req.NoError(err)
	req.Equal(3000, cfg.Port)
	req.Equal("send-it", cfg.DBName)
	req.Equal("info", cfg.LogLevel)
	req.NotZero(cfg.ShutdownTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	req := require.New(t)

	t.Setenv("PORT", "8080")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/chat")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	req.NoError(err)
	req.Equal(8080, cfg.Port)
	req.Equal("mongodb://db:27017/chat", cfg.MongoURI)
	req.Equal("debug", cfg.LogLevel)
}
