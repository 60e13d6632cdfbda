package autoconfig

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// ModelConfig is the subset of a model configuration used to pick a tokenizer.
type ModelConfig struct {
	// ConfigType is the configuration type name, e.g. "BertConfig".
	ConfigType string

	// ModelType is the raw model_type field (or GGUF architecture), e.g. "bert".
	ModelType string

	// TokenizerClass is the tokenizer_class field, empty when undeclared.
	TokenizerClass string

	// Architectures lists the model classes the checkpoint was saved from.
	Architectures []string

	// Raw holds every decoded field.
	Raw map[string]any
}

// Parse decodes a config.json document.
func Parse(data []byte) (*ModelConfig, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse model config: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return fromMap(raw), nil
}

func fromMap(raw map[string]any) *ModelConfig {
	cfg := &ModelConfig{Raw: raw}
	cfg.ModelType, _ = raw["model_type"].(string)
	cfg.TokenizerClass, _ = raw["tokenizer_class"].(string)

	if list, ok := raw["architectures"].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok && s != "" {
				cfg.Architectures = append(cfg.Architectures, s)
			}
		}
	}
	// Older checkpoints record the model class as init_class.
	if len(cfg.Architectures) == 0 {
		if s, ok := raw["init_class"].(string); ok && s != "" {
			cfg.Architectures = []string{s}
		}
	}

	cfg.ConfigType = configType(cfg.ModelType, cfg.Architectures)
	return cfg
}

// configType derives a configuration type name from model_type, falling
// back to the first architecture with its task head removed.
func configType(modelType string, architectures []string) string {
	if modelType != "" {
		return CamelCase(modelType) + "Config"
	}
	if len(architectures) == 0 {
		return ""
	}
	if base := StripHead(architectures[0]); base != "" {
		return base + "Config"
	}
	return ""
}

// CamelCase turns "blenderbot_small" or "ernie-m" into "BlenderbotSmall" and "ErnieM".
func CamelCase(s string) string {
	var sb strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

var headSuffixes = []string{"LMHeadModel", "PretrainedModel", "PreTrainedModel", "Model"}

// StripHead removes the task head from a model class name:
// "BertForMaskedLM" → "Bert", "GPT2LMHeadModel" → "GPT2".
func StripHead(name string) string {
	for i := 1; i+3 < len(name); i++ {
		if name[i:i+3] == "For" && unicode.IsUpper(rune(name[i+3])) {
			return name[:i]
		}
	}
	for _, suffix := range headSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && base != "" {
			return base
		}
	}
	return name
}
