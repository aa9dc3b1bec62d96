package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	dir := t.TempDir()
	if yaml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	}
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, DriverMongoDB, cfg.Storage.Driver)
	assert.Equal(t, 50, cfg.Draws.ResultsLimit)
	assert.Equal(t, 90, cfg.Draws.PurgeDays)
	assert.Equal(t, 10*time.Second, cfg.Social.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.True(t, cfg.Social.MockAPI)
	assert.Equal(t, NotifyMock, cfg.Notify.Mode)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SOCIAL_CACHETTL", "5m")

	cfg, err := load(newViper(t, `
server:
  environment: production
storage:
  driver: memory
draws:
  resultslimit: 10
`))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Draws.ResultsLimit)
	assert.Equal(t, 5*time.Minute, cfg.Social.CacheTTL)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown driver", yaml: "storage:\n  driver: postgres\n"},
		{name: "no results kept", yaml: "draws:\n  resultslimit: 0\n"},
		{name: "negative purge", yaml: "draws:\n  purgedays: -1\n"},
		{name: "unknown notify mode", yaml: "notify:\n  mode: sms\n"},
		{name: "webhook without url", yaml: "notify:\n  mode: webhook\n"},
		{name: "malformed file", yaml: "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(newViper(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := NewLogger(&Config{LogLevel: "warn", Server: ServerConfig{Environment: "production"}}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "drawId", "d1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"drawId":"d1"`)
}
