// Package config loads process configuration from a YAML file, environment
// variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/born-ml/autotokenizer/internal/hub"
)

// EnvPrefix prefixes every environment variable, e.g. AUTOTOKENIZER_HUB_OFFLINE.
const EnvPrefix = "AUTOTOKENIZER"

// Config stores all configuration of the application.
type Config struct {
	Hub     HubConfig     `mapstructure:"hub" yaml:"hub" json:"hub"`
	Resolve ResolveConfig `mapstructure:"resolve" yaml:"resolve" json:"resolve"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// HubConfig configures model file lookup and download.
type HubConfig struct {
	Endpoint      string        `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	CacheDir      string        `mapstructure:"cacheDir" yaml:"cacheDir" json:"cacheDir"`
	Offline       bool          `mapstructure:"offline" yaml:"offline" json:"offline"`
	Token         string        `mapstructure:"token" yaml:"token" json:"token"`
	Revision      string        `mapstructure:"revision" yaml:"revision" json:"revision"`
	RetryMax      int           `mapstructure:"retryMax" yaml:"retryMax" json:"retryMax"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	MissCacheSize int           `mapstructure:"missCacheSize" yaml:"missCacheSize" json:"missCacheSize"`
}

// ResolveConfig holds resolution defaults.
type ResolveConfig struct {
	UseFast bool `mapstructure:"useFast" yaml:"useFast" json:"useFast"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string   `mapstructure:"level" yaml:"level" json:"level"`
	Format      string   `mapstructure:"format" yaml:"format" json:"format"`
	OutputPaths []string `mapstructure:"outputPaths" yaml:"outputPaths" json:"outputPaths"`
}

// MetricsConfig configures metrics.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" yaml:"namespace" json:"namespace"`
}

// DefaultCacheDir returns ~/.cache/autotokenizer, or a temp directory when
// the home directory is unknown.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "autotokenizer")
	}
	return filepath.Join(os.TempDir(), "autotokenizer")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hub.endpoint", hub.DefaultEndpoint)
	v.SetDefault("hub.cacheDir", DefaultCacheDir())
	v.SetDefault("hub.offline", false)
	v.SetDefault("hub.token", "")
	v.SetDefault("hub.revision", "main")
	v.SetDefault("hub.retryMax", 3)
	v.SetDefault("hub.timeout", 30*time.Second)
	v.SetDefault("hub.missCacheSize", 1024)

	v.SetDefault("resolve.useFast", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.outputPaths", []string{"stderr"})

	v.SetDefault("metrics.namespace", "autotokenizer")
}

// Load reads configuration. An empty configPath searches ./autotokenizer.yaml
// and <user config dir>/autotokenizer/autotokenizer.yaml; a missing file
// there is not an error. An explicit configPath must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "autotokenizer"))
		}
		v.SetConfigName("autotokenizer")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// The hub token is also read from the conventional HF_TOKEN.
	if err := v.BindEnv("hub.token", EnvPrefix+"_HUB_TOKEN", "HF_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind token env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

// HubOptions returns the hub.Client options for this configuration.
func (c *Config) HubOptions(logger *zap.Logger) []hub.Option {
	return []hub.Option{
		hub.WithEndpoint(c.Hub.Endpoint),
		hub.WithCacheDir(c.Hub.CacheDir),
		hub.WithOffline(c.Hub.Offline),
		hub.WithRetryMax(c.Hub.RetryMax),
		hub.WithTimeout(c.Hub.Timeout),
		hub.WithMissCacheSize(c.Hub.MissCacheSize),
		hub.WithLogger(logger),
	}
}

// FetchOptions returns the per-request fetch defaults.
func (c *Config) FetchOptions() hub.FetchOptions {
	return hub.FetchOptions{
		CacheDir: c.Hub.CacheDir,
		Token:    c.Hub.Token,
		Revision: c.Hub.Revision,
	}
}
