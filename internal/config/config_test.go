package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/born-ml/autotokenizer/internal/hub"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HF_TOKEN", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, hub.DefaultEndpoint, cfg.Hub.Endpoint)
	assert.Equal(t, DefaultCacheDir(), cfg.Hub.CacheDir)
	assert.Equal(t, "main", cfg.Hub.Revision)
	assert.Equal(t, 3, cfg.Hub.RetryMax)
	assert.Equal(t, 30*time.Second, cfg.Hub.Timeout)
	assert.False(t, cfg.Hub.Offline)
	assert.False(t, cfg.Resolve.UseFast)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
	assert.Equal(t, "autotokenizer", cfg.Metrics.Namespace)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autotokenizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
hub:
  endpoint: http://mirror.local
  offline: true
  timeout: 5s
resolve:
  useFast: true
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://mirror.local", cfg.Hub.Endpoint)
	assert.True(t, cfg.Hub.Offline)
	assert.Equal(t, 5*time.Second, cfg.Hub.Timeout)
	assert.True(t, cfg.Resolve.UseFast)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "main", cfg.Hub.Revision, "unset keys keep defaults")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AUTOTOKENIZER_HUB_OFFLINE", "true")
	t.Setenv("AUTOTOKENIZER_LOG_LEVEL", "warn")
	t.Setenv("HF_TOKEN", "hf_secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Hub.Offline)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "hf_secret", cfg.Hub.Token)
	assert.Equal(t, "hf_secret", cfg.FetchOptions().Token)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hub: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestHubOptions(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Hub.CacheDir = t.TempDir()

	client, err := hub.NewClient(cfg.HubOptions(zap.NewNop())...)
	require.NoError(t, err)
	assert.NotNil(t, client)
}
