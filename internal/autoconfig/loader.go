package autoconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/born-ml/autotokenizer/internal/gguf"
	"github.com/born-ml/autotokenizer/internal/hub"
)

// Configuration file names, newest first.
const (
	ConfigFile       = "config.json"
	LegacyConfigFile = "model_config.json"
)

// ErrNotFound is returned when an identifier has no model configuration.
var ErrNotFound = errors.New("model configuration not found")

// Loader loads the model configuration of an identifier.
type Loader interface {
	Load(ctx context.Context, identifier string, opts hub.FetchOptions) (*ModelConfig, error)
}

// FileLoader reads configuration files through a hub.Resolver.
type FileLoader struct {
	files  hub.Resolver
	logger *zap.Logger
}

// NewLoader creates a FileLoader. A nil logger disables logging.
func NewLoader(files hub.Resolver, logger *zap.Logger) *FileLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileLoader{
		files:  files,
		logger: logger.With(zap.String("component", "autoconfig")),
	}
}

// Load implements Loader.
//
// A path to a .gguf file is read directly; anything else is looked up as a
// model directory or repository.
func (l *FileLoader) Load(ctx context.Context, identifier string, opts hub.FetchOptions) (*ModelConfig, error) {
	if isGGUFFile(identifier) {
		return LoadGGUF(identifier)
	}

	for _, name := range []string{ConfigFile, LegacyConfigFile} {
		path, err := l.files.Resolve(ctx, identifier, name, opts)
		if errors.Is(err, hub.ErrEntryNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s for %q: %w", name, identifier, err)
		}

		//nolint:gosec // G304: path returned by the file resolver.
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		l.logger.Debug("loaded model config",
			zap.String("identifier", identifier),
			zap.String("file", name),
			zap.String("config_type", cfg.ConfigType))
		return cfg, nil
	}

	return nil, fmt.Errorf("%w for %q", ErrNotFound, identifier)
}

func isGGUFFile(identifier string) bool {
	if !strings.HasSuffix(strings.ToLower(identifier), ".gguf") {
		return false
	}
	info, err := os.Stat(identifier)
	return err == nil && !info.IsDir()
}

// LoadGGUF builds a ModelConfig from the metadata of a GGUF checkpoint.
func LoadGGUF(path string) (*ModelConfig, error) {
	md, err := gguf.ReadMetadataFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read GGUF metadata from %s: %w", path, err)
	}

	arch := md.Architecture()
	if arch == "" {
		return nil, fmt.Errorf("%w: %s has no %s", ErrNotFound, path, gguf.KeyArchitecture)
	}

	raw := make(map[string]any, len(md.Values))
	for k, v := range md.Values {
		raw[k] = v
	}
	raw["model_type"] = arch

	return fromMap(raw), nil
}
