package container

import (
	"context"
	"testing"

	"github.com/gdugdh24/coparent-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080, Env: "development"},
		Auth:    config.AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
		Storage: config.StorageConfig{Type: config.StorageTypeMemory},
		Logging: config.LoggingConfig{Level: "error"},
	}
}

func TestNewContainer_Memory(t *testing.T) {
	c, err := NewContainer(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Redis)
	assert.Nil(t, c.Gemini)
	assert.NotNil(t, c.Repos.Profiles)
	assert.NotNil(t, c.Tracker)
	assert.Equal(t, "127.0.0.1:8080", c.Server.Addr())
}

func TestNewContainer_ServesMetrics(t *testing.T) {
	c, err := NewContainer(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer c.Close()

	families, err := c.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
}

func TestNewContainer_UnreachablePostgres(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Type = config.StorageTypePostgres
	cfg.Database = config.DatabaseConfig{Host: "127.0.0.1", Port: 1, User: "u", DBName: "d", SSLMode: "disable"}

	_, err := NewContainer(context.Background(), cfg)
	assert.Error(t, err)
}
