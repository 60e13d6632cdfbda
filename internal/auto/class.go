package auto

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/born-ml/autotokenizer/internal/hub"
	"github.com/born-ml/autotokenizer/internal/tokenizer"
)

// Kind is the capability tag of a tokenizer class.
type Kind string

const (
	// KindReference marks a reference implementation.
	KindReference Kind = "reference"

	// KindAccelerated marks an implementation backed by the accelerated
	// tokenizer.json backend.
	KindAccelerated Kind = "accelerated"
)

// LoadOptions is forwarded untouched from the resolver to a class constructor.
type LoadOptions struct {
	// Args and Kwargs are caller-supplied initialization arguments.
	Args   []any
	Kwargs map[string]any

	// FromAuto is set when the call comes from the resolver.
	FromAuto bool

	Fetch  hub.FetchOptions
	Files  hub.Resolver
	Logger *zap.Logger
}

// Constructor builds a tokenizer for identifier.
type Constructor func(ctx context.Context, identifier string, opts LoadOptions) (tokenizer.Tokenizer, error)

// Class describes one tokenizer class.
type Class struct {
	Name string
	Kind Kind
	Arch Arch

	// Pretrained lists the built-in identifiers this class loads.
	Pretrained []string

	// SlowClass names the reference companion of an accelerated class.
	SlowClass string

	// ChatTemplate is the default chat format, empty for non-chat models.
	ChatTemplate string

	New Constructor
}

func (c *Class) String() string {
	return c.Name
}

// FromPretrained constructs a tokenizer with the class constructor.
func (c *Class) FromPretrained(ctx context.Context, identifier string, opts LoadOptions) (tokenizer.Tokenizer, error) {
	if c.New == nil {
		return nil, fmt.Errorf("tokenizer class %s has no constructor", c.Name)
	}
	tok, err := c.New(ctx, identifier, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load %q: %w", c.Name, identifier, err)
	}
	return tok, nil
}

// Pretrained returns a Constructor that loads the given tokenizer family.
//
// tokenizer_config.json, when present, provides the initialization
// arguments; Kwargs override them.
func Pretrained(family tokenizer.Family) Constructor {
	return func(ctx context.Context, identifier string, opts LoadOptions) (tokenizer.Tokenizer, error) {
		if opts.Files == nil {
			return nil, errors.New("no file resolver configured")
		}

		init, err := readTokenizerConfig(ctx, opts.Files, identifier, opts.Fetch)
		if err != nil {
			return nil, err
		}
		maps.Copy(init, opts.Kwargs)

		return tokenizer.LoadPretrained(ctx, family, tokenizer.Source{
			Identifier: identifier,
			Files:      opts.Files,
			Fetch:      opts.Fetch,
			Init:       init,
		})
	}
}
