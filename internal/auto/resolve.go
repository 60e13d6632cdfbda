package auto

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/born-ml/autotokenizer/internal/autoconfig"
	"github.com/born-ml/autotokenizer/internal/tokenizer"
)

// fastSuffix marks accelerated class names.
const fastSuffix = "Fast"

// Strategy names the step that resolved a class.
type Strategy string

const (
	StrategyBuiltin         Strategy = "builtin"
	StrategyTokenizerConfig Strategy = "tokenizer_config"
	StrategyModelConfig     Strategy = "model_config"
)

// Resolution is the outcome of ResolveClass.
type Resolution struct {
	Class    *Class
	Strategy Strategy
}

// Resolve picks the tokenizer class for identifier and constructs it.
func (r *Registry) Resolve(ctx context.Context, identifier string, opts ...ResolveOption) (tokenizer.Tokenizer, error) {
	tok, _, err := r.ResolveAndLoad(ctx, identifier, opts...)
	return tok, err
}

// ResolveAndLoad is Resolve that also reports the class it picked.
// Configuration files are read once.
func (r *Registry) ResolveAndLoad(ctx context.Context, identifier string, opts ...ResolveOption) (tokenizer.Tokenizer, *Resolution, error) {
	o := newResolveOptions(opts)

	res, err := r.resolveClass(ctx, identifier, o)
	if err != nil {
		return nil, nil, err
	}

	r.logger.Info("loading tokenizer",
		zap.String("class", res.Class.Name),
		zap.String("identifier", identifier),
		zap.String("strategy", string(res.Strategy)))

	tok, err := res.Class.FromPretrained(ctx, identifier, LoadOptions{
		Args:     o.args,
		Kwargs:   o.kwargs,
		FromAuto: true,
		Fetch:    o.fetch,
		Files:    r.files,
		Logger:   r.logger,
	})
	if err != nil {
		return nil, res, err
	}
	return tok, res, nil
}

// ResolveClass picks the tokenizer class for identifier without
// constructing it.
func (r *Registry) ResolveClass(ctx context.Context, identifier string, opts ...ResolveOption) (*Resolution, error) {
	return r.resolveClass(ctx, identifier, newResolveOptions(opts))
}

func (r *Registry) resolveClass(ctx context.Context, identifier string, o *resolveOptions) (*Resolution, error) {
	if o.tokenizerType != "" {
		return nil, fmt.Errorf("tokenizer type %q: %w", o.tokenizerType, ErrNotImplemented)
	}

	start := time.Now()
	if c := r.ResolveByBuiltinName(identifier); c != nil {
		r.metrics.recordResolution(StrategyBuiltin, nil, time.Since(start))
		return &Resolution{Class: c, Strategy: StrategyBuiltin}, nil
	}

	c, err := r.resolveBySavedConfig(ctx, identifier, o)
	if err != nil || c != nil {
		r.metrics.recordResolution(StrategyTokenizerConfig, err, time.Since(start))
		if err != nil {
			return nil, err
		}
		return &Resolution{Class: c, Strategy: StrategyTokenizerConfig}, nil
	}

	c, err = r.resolveByModelConfig(ctx, identifier, o)
	r.metrics.recordResolution(StrategyModelConfig, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &Resolution{Class: c, Strategy: StrategyModelConfig}, nil
}

// ResolveBySavedConfig resolves the class declared in tokenizer_config.json.
//
// It returns (nil, nil) when the file is absent or declares no class.
func (r *Registry) ResolveBySavedConfig(ctx context.Context, identifier string, opts ...ResolveOption) (*Class, error) {
	return r.resolveBySavedConfig(ctx, identifier, newResolveOptions(opts))
}

func (r *Registry) resolveBySavedConfig(ctx context.Context, identifier string, o *resolveOptions) (*Class, error) {
	cfg, err := r.GetTokenizerConfig(ctx, identifier, o.fetch)
	if err != nil {
		return nil, err
	}

	declared := declaredClass(cfg)
	if declared == "" {
		return nil, nil
	}
	return r.resolveDeclared(identifier, declared, o.useFast, true)
}

// ResolveByModelConfig resolves the class from the model configuration.
func (r *Registry) ResolveByModelConfig(ctx context.Context, identifier string, opts ...ResolveOption) (*Class, error) {
	return r.resolveByModelConfig(ctx, identifier, newResolveOptions(opts))
}

func (r *Registry) resolveByModelConfig(ctx context.Context, identifier string, o *resolveOptions) (*Class, error) {
	cfg := o.config
	if cfg == nil {
		loaded, err := r.configs.Load(ctx, identifier, o.fetch)
		if errors.Is(err, autoconfig.ErrNotFound) {
			return nil, &ErrAmbiguousInput{Identifier: identifier, Cause: err}
		}
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cfg.TokenizerClass != "" {
		return r.resolveDeclared(identifier, cfg.TokenizerClass, o.useFast, false)
	}

	if p, ok := r.extra(cfg.ConfigType); ok {
		return r.selectFromPair(identifier, Arch(cfg.ConfigType), p, o.useFast)
	}

	arch, ok := archForConfigType(r.entries, cfg.ConfigType)
	if !ok {
		r.logger.Debug("no architecture for configuration type",
			zap.String("identifier", identifier),
			zap.String("config_type", cfg.ConfigType))
		return nil, &ErrAmbiguousInput{Identifier: identifier}
	}

	p, err := r.pairFor(arch)
	if err != nil {
		return nil, err
	}
	return r.selectFromPair(identifier, arch, p, o.useFast)
}

// resolveDeclared resolves a class name read from a configuration file.
//
// With useFast, "<declared>Fast" is tried first. When matchPattern is set
// and the name is unknown, the identifier is matched against architecture
// keys.
func (r *Registry) resolveDeclared(identifier, declared string, useFast, matchPattern bool) (*Class, error) {
	var c *Class
	candidate := declared

	if useFast && !strings.HasSuffix(declared, fastSuffix) {
		candidate = declared + fastSuffix
		fast, err := r.ClassByName(candidate)
		if err != nil {
			r.logger.Debug("accelerated candidate unavailable",
				zap.String("class", candidate), zap.Error(err))
		}
		c = fast
	}

	if c == nil {
		candidate = declared
		found, err := r.ClassByName(candidate)
		if err != nil {
			return nil, err
		}
		c = found
	}

	if c == nil && matchPattern {
		c = r.matchPattern(identifier)
	}
	if c == nil {
		return nil, &ErrUnresolvedClass{Name: candidate}
	}
	return c, nil
}

// matchPattern returns the first reference class, in architecture table
// order, whose architecture key occurs in the lower-cased identifier.
func (r *Registry) matchPattern(identifier string) *Class {
	lower := strings.ToLower(identifier)
	for _, e := range r.entries {
		if !strings.Contains(lower, string(e.Arch)) {
			continue
		}
		for _, name := range e.Variants.Names(true) {
			if c, ok := r.classes[name]; ok {
				r.logger.Info("using pattern recognition to pick the tokenizer class",
					zap.String("identifier", identifier),
					zap.String("arch", string(e.Arch)),
					zap.String("class", c.Name))
				return c
			}
		}
	}
	return nil
}

// selectFromPair applies the reference/accelerated selection policy.
func (r *Registry) selectFromPair(identifier string, arch Arch, p Pair, useFast bool) (*Class, error) {
	if p.Accelerated != nil && (useFast || len(p.Reference) == 0) {
		return p.Accelerated, nil
	}

	switch len(p.Reference) {
	case 0:
		capability := "a reference tokenizer implementation"
		if useFast {
			capability = "the accelerated tokenizer backend"
		}
		return nil, &ErrMissingDependency{Arch: arch, Capability: capability}
	case 1:
		return p.Reference[0], nil
	default:
		r.logger.Info("several reference classes registered, using the first",
			zap.String("identifier", identifier),
			zap.String("class", p.Reference[0].Name),
			zap.Int("candidates", len(p.Reference)))
		return p.Reference[0], nil
	}
}
