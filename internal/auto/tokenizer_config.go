package auto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/born-ml/autotokenizer/internal/hub"
)

// TokenizerConfigFile is the file a saved tokenizer records its class in.
const TokenizerConfigFile = "tokenizer_config.json"

// Keys of tokenizer_config.json that name the tokenizer class.
const (
	keyInitClass      = "init_class"
	keyTokenizerClass = "tokenizer_class"
)

var errNoTokenizerConfig = errors.New("no tokenizer config")

// GetTokenizerConfig reads tokenizer_config.json for identifier.
//
// A missing file yields an empty map and a nil error.
func (r *Registry) GetTokenizerConfig(ctx context.Context, identifier string, fetch hub.FetchOptions) (map[string]any, error) {
	cfg, err := loadTokenizerConfig(ctx, r.files, identifier, fetch)
	if errors.Is(err, errNoTokenizerConfig) {
		r.logger.Info("could not locate the tokenizer configuration file, will try to use the model config instead",
			zap.String("identifier", identifier))
		return map[string]any{}, nil
	}
	return cfg, err
}

func readTokenizerConfig(ctx context.Context, files hub.Resolver, identifier string, fetch hub.FetchOptions) (map[string]any, error) {
	cfg, err := loadTokenizerConfig(ctx, files, identifier, fetch)
	if errors.Is(err, errNoTokenizerConfig) {
		return map[string]any{}, nil
	}
	return cfg, err
}

func loadTokenizerConfig(ctx context.Context, files hub.Resolver, identifier string, fetch hub.FetchOptions) (map[string]any, error) {
	path, err := files.Resolve(ctx, identifier, TokenizerConfigFile, fetch)
	if errors.Is(err, hub.ErrEntryNotFound) {
		return nil, errNoTokenizerConfig
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s for %q: %w", TokenizerConfigFile, identifier, err)
	}

	//nolint:gosec // G304: path returned by the file resolver.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg map[string]any
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return cfg, nil
}

// declaredClass returns init_class, falling back to tokenizer_class.
func declaredClass(cfg map[string]any) string {
	if name, ok := cfg[keyInitClass].(string); ok && name != "" {
		return name
	}
	if name, ok := cfg[keyTokenizerClass].(string); ok {
		return name
	}
	return ""
}
