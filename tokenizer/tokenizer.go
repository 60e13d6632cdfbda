// Package tokenizer picks and loads the right tokenizer for a model.
//
// FromPretrained accepts a built-in pretrained name ("bert-base-uncased"),
// a community repository id ("org/model") or a local directory, works out
// which tokenizer class saved it and lets that class load its files.
//
// Example usage:
//
//	import "github.com/born-ml/autotokenizer/tokenizer"
//
//	// Resolve and load
//	tok, err := tokenizer.FromPretrained(ctx, "./my_bert", tokenizer.WithUseFast(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Encode text
//	tokens, err := tok.Encode("Hello, world!")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Only find out which class would be used
//	res, err := tokenizer.ResolveClass(ctx, "Qwen/Qwen2-0.5B")
//	fmt.Println(res.Class.Name, res.Strategy)
//
//	// Chat models carry a default template
//	template, err := tokenizer.ChatTemplateFor(res.Class)
//	prompt := template.Apply([]tokenizer.ChatMessage{{Role: "user", Content: "Hi!"}})
package tokenizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/born-ml/autotokenizer/internal/auto"
	"github.com/born-ml/autotokenizer/internal/autoconfig"
	"github.com/born-ml/autotokenizer/internal/hub"
	"github.com/born-ml/autotokenizer/internal/tokenizer"
)

// Tokenizer is the core interface for text tokenization.
//
// All tokenizer implementations must implement this interface.
type Tokenizer = tokenizer.Tokenizer

// ChatMessage represents a single message in a conversation.
type ChatMessage = tokenizer.ChatMessage

// ChatTemplate formats messages for conversational models.
type ChatTemplate = tokenizer.ChatTemplate

// Registry resolves identifiers to tokenizer classes.
type Registry = auto.Registry

// Class describes one tokenizer class.
type Class = auto.Class

// Kind is the capability tag of a class.
type Kind = auto.Kind

// Capability tags.
const (
	KindReference   = auto.KindReference
	KindAccelerated = auto.KindAccelerated
)

// Resolution reports the class picked for an identifier and how.
type Resolution = auto.Resolution

// Option configures a Registry.
type Option = auto.Option

// ResolveOption configures a single resolution.
type ResolveOption = auto.ResolveOption

// ModelConfig is the model configuration used for resolution.
type ModelConfig = autoconfig.ModelConfig

// FetchOptions controls how model files are located and downloaded.
type FetchOptions = hub.FetchOptions

// Resolution errors.
type (
	ErrUnresolvedClass   = auto.ErrUnresolvedClass
	ErrMissingDependency = auto.ErrMissingDependency
	ErrAmbiguousInput    = auto.ErrAmbiguousInput
	ErrRegistration      = auto.ErrRegistration
)

// ErrNotImplemented is returned for WithTokenizerType.
var ErrNotImplemented = auto.ErrNotImplemented

// Registry options.
var (
	WithLogger       = auto.WithLogger
	WithFileResolver = auto.WithFileResolver
	WithConfigLoader = auto.WithConfigLoader
	WithMetrics      = auto.WithMetrics
)

// Resolve options.
var (
	WithUseFast        = auto.WithUseFast
	WithConfig         = auto.WithConfig
	WithFetchOptions   = auto.WithFetchOptions
	WithCacheDir       = auto.WithCacheDir
	WithForceDownload  = auto.WithForceDownload
	WithResumeDownload = auto.WithResumeDownload
	WithProxies        = auto.WithProxies
	WithToken          = auto.WithToken
	WithRevision       = auto.WithRevision
	WithLocalFilesOnly = auto.WithLocalFilesOnly
	WithSubfolder      = auto.WithSubfolder
	WithArgs           = auto.WithArgs
	WithKwargs         = auto.WithKwargs
	WithTokenizerType  = auto.WithTokenizerType
)

// NewRegistry creates an independent Registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	return auto.NewRegistry(opts...)
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return auto.NewRegistry()
})

// Default returns the process-wide Registry used by the package functions.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// FromPretrained resolves the tokenizer class for identifier and loads it.
func FromPretrained(ctx context.Context, identifier string, opts ...ResolveOption) (Tokenizer, error) {
	reg, err := Default()
	if err != nil {
		return nil, err
	}
	return reg.Resolve(ctx, identifier, opts...)
}

// ResolveClass returns the class FromPretrained would use, without loading it.
func ResolveClass(ctx context.Context, identifier string, opts ...ResolveOption) (*Resolution, error) {
	reg, err := Default()
	if err != nil {
		return nil, err
	}
	return reg.ResolveClass(ctx, identifier, opts...)
}

// GetTokenizerConfig reads tokenizer_config.json for identifier.
//
// A missing file yields an empty map.
func GetTokenizerConfig(ctx context.Context, identifier string, fetch FetchOptions) (map[string]any, error) {
	reg, err := Default()
	if err != nil {
		return nil, err
	}
	return reg.GetTokenizerConfig(ctx, identifier, fetch)
}

// ClassFromName looks a tokenizer class up by name. It returns nil when no
// class has that name.
func ClassFromName(name string) (*Class, error) {
	reg, err := Default()
	if err != nil {
		return nil, err
	}
	return reg.ClassByName(name)
}

// Register adds tokenizer classes for a model configuration type on the
// default Registry.
func Register(configType string, reference, accelerated *Class, allowOverwrite bool) error {
	reg, err := Default()
	if err != nil {
		return err
	}
	return reg.Register(configType, reference, accelerated, allowOverwrite)
}

// ChatTemplateFor returns the default chat template of a class.
func ChatTemplateFor(class *Class) (ChatTemplate, error) {
	if class == nil || class.ChatTemplate == "" {
		return nil, fmt.Errorf("tokenizer class %v has no chat template", class)
	}
	return tokenizer.GetChatTemplate(class.ChatTemplate)
}

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base" (Codex), "r50k_base" (GPT-2).
func NewTikToken(encodingName string) (Tokenizer, error) {
	return tokenizer.NewTikToken(encodingName)
}

// NewTikTokenForModel creates a TikToken tokenizer for a specific model.
//
// Example models: "gpt-4", "gpt-3.5-turbo", "text-embedding-ada-002".
func NewTikTokenForModel(modelName string) (Tokenizer, error) {
	return tokenizer.NewTikTokenForModel(modelName)
}

// LoadTokenizerJSON loads a tokenizer.json file with the implementation
// matching its model type.
func LoadTokenizerJSON(path string) (Tokenizer, error) {
	return tokenizer.LoadTokenizerJSON(path, false)
}

// NewChatMLTemplate creates a ChatML template (Qwen, Yuan format).
//
// Format: <|im_start|>role\ncontent<|im_end|>.
func NewChatMLTemplate() ChatTemplate {
	return tokenizer.NewChatMLTemplate()
}

// NewLLaMATemplate creates a LLaMA chat template.
//
// Format: [INST] user message [/INST] assistant response.
func NewLLaMATemplate() ChatTemplate {
	return tokenizer.NewLLaMATemplate()
}

// NewMistralTemplate creates a Mistral chat template.
func NewMistralTemplate() ChatTemplate {
	return tokenizer.NewMistralTemplate()
}

// NewGemmaTemplate creates a Gemma chat template.
func NewGemmaTemplate() ChatTemplate {
	return tokenizer.NewGemmaTemplate()
}

// GetChatTemplate returns a chat template by name.
//
// Supported names: "chatml", "llama", "mistral", "gemma".
func GetChatTemplate(name string) (ChatTemplate, error) {
	return tokenizer.GetChatTemplate(name)
}

// ExampleBPE creates a minimal BPE tokenizer for testing and examples.
func ExampleBPE() Tokenizer {
	return tokenizer.ExampleBPEVocab()
}
