package auto

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/autotokenizer/internal/autoconfig"
	"github.com/born-ml/autotokenizer/internal/hub"
	"github.com/born-ml/autotokenizer/internal/tokenizer"
)

type failingLoader struct{ t *testing.T }

func (f failingLoader) Load(_ context.Context, identifier string, _ hub.FetchOptions) (*autoconfig.ModelConfig, error) {
	f.t.Errorf("unexpected model config lookup for %s", identifier)
	return nil, autoconfig.ErrNotFound
}

func TestResolveClass_Builtin(t *testing.T) {
	reg := newTestRegistry(t, WithFileResolver(failingFiles{t}), WithConfigLoader(failingLoader{t}))

	tests := []struct {
		identifier string
		class      string
	}{
		{"bert-base-uncased", "BertTokenizer"},
		{"albert-chinese-tiny", "AlbertChineseTokenizer"},
		{"albert-base-v2", "AlbertEnglishTokenizer"},
		{"meta-llama/Meta-Llama-3-8B", "Llama3Tokenizer"},
		{"t5-small", "T5Tokenizer"},
	}
	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			res, err := reg.ResolveClass(context.Background(), tt.identifier, WithUseFast(true))
			require.NoError(t, err)
			assert.Equal(t, tt.class, res.Class.Name)
			assert.Equal(t, StrategyBuiltin, res.Strategy)
		})
	}
}

func TestGetTokenizerConfig_MissingFile(t *testing.T) {
	logger, logs := observedLogger()
	reg := newTestRegistry(t, WithFileResolver(newMemFiles(t)), WithLogger(logger))

	cfg, err := reg.GetTokenizerConfig(context.Background(), "acme/widget", hub.FetchOptions{})
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Empty(t, cfg)
	assert.Equal(t, 1, logs.FilterMessageSnippet("could not locate the tokenizer configuration").Len())
}

func TestGetTokenizerConfig_Invalid(t *testing.T) {
	files := newMemFiles(t).add("acme/widget", TokenizerConfigFile, "{")
	reg := newTestRegistry(t, WithFileResolver(files))

	_, err := reg.GetTokenizerConfig(context.Background(), "acme/widget", hub.FetchOptions{})
	assert.Error(t, err)
}

func TestResolveClass_DeclaredClass(t *testing.T) {
	files := newMemFiles(t).
		add("acme/bert", TokenizerConfigFile, `{"tokenizer_class": "BertTokenizer"}`).
		add("acme/t5", TokenizerConfigFile, `{"tokenizer_class": "T5Tokenizer"}`).
		add("acme/init", TokenizerConfigFile, `{"init_class": "ErnieTokenizer", "tokenizer_class": "BertTokenizer"}`).
		add("acme/generic", TokenizerConfigFile, `{"tokenizer_class": "PretrainedTokenizerFast"}`)
	reg := newTestRegistry(t, WithFileResolver(files), WithConfigLoader(failingLoader{t}))

	tests := []struct {
		name       string
		identifier string
		useFast    bool
		class      string
	}{
		{"reference", "acme/bert", false, "BertTokenizer"},
		{"use_fast falls back to reference", "acme/t5", true, "T5Tokenizer"},
		{"init_class wins", "acme/init", false, "ErnieTokenizer"},
		{"generic accelerated", "acme/generic", false, GenericFastClassName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := reg.ResolveClass(context.Background(), tt.identifier, WithUseFast(tt.useFast))
			require.NoError(t, err)
			assert.Equal(t, tt.class, res.Class.Name)
			assert.Equal(t, StrategyTokenizerConfig, res.Strategy)
		})
	}
}

func TestResolveClass_DeclaredAccelerated(t *testing.T) {
	skipWithoutBackend(t)

	files := newMemFiles(t).
		add("acme/fast", TokenizerConfigFile, `{"tokenizer_class": "BertTokenizerFast"}`).
		add("acme/bert", TokenizerConfigFile, `{"tokenizer_class": "BertTokenizer"}`)
	reg := newTestRegistry(t, WithFileResolver(files), WithConfigLoader(failingLoader{t}))

	res, err := reg.ResolveClass(context.Background(), "acme/fast", WithUseFast(false))
	require.NoError(t, err)
	assert.Equal(t, "BertTokenizerFast", res.Class.Name, "declared name takes precedence over use_fast")
	assert.Equal(t, KindAccelerated, res.Class.Kind)

	res, err = reg.ResolveClass(context.Background(), "acme/bert", WithUseFast(true))
	require.NoError(t, err)
	assert.Equal(t, "BertTokenizerFast", res.Class.Name)
}

func TestResolveClass_PatternMatch(t *testing.T) {
	logger, logs := observedLogger()
	files := newMemFiles(t).
		add("acme/my-ernie-model", TokenizerConfigFile, `{"tokenizer_class": "CustomTokenizer"}`).
		add("acme/RoBERTa-small", TokenizerConfigFile, `{"tokenizer_class": "CustomTokenizer"}`).
		add("acme/widget", TokenizerConfigFile, `{"tokenizer_class": "CustomTokenizer"}`)
	reg := newTestRegistry(t, WithFileResolver(files), WithLogger(logger))

	res, err := reg.ResolveClass(context.Background(), "acme/my-ernie-model")
	require.NoError(t, err)
	assert.Equal(t, "ErnieTokenizer", res.Class.Name)
	assert.Equal(t, 1, logs.FilterMessageSnippet("pattern recognition").Len())

	// "bert" precedes "roberta" in the table and also occurs in the identifier.
	res, err = reg.ResolveClass(context.Background(), "acme/RoBERTa-small")
	require.NoError(t, err)
	assert.Equal(t, "BertTokenizer", res.Class.Name)

	_, err = reg.ResolveClass(context.Background(), "acme/widget")
	var unresolved *ErrUnresolvedClass
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "CustomTokenizer", unresolved.Name)
	assert.Contains(t, err.Error(), "does not exist or is not currently imported")
}

func TestResolveClass_UnresolvedNamesLastCandidate(t *testing.T) {
	files := newMemFiles(t).add("acme/widget", TokenizerConfigFile, `{"tokenizer_class": "CustomTokenizer"}`)
	reg := newTestRegistry(t, WithFileResolver(files))

	_, err := reg.ResolveClass(context.Background(), "acme/widget", WithUseFast(true))
	var unresolved *ErrUnresolvedClass
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "CustomTokenizer", unresolved.Name)
}

func TestResolveClass_ModelConfig(t *testing.T) {
	logger, logs := observedLogger()
	files := newMemFiles(t).
		add("acme/t5", autoconfig.ConfigFile, `{"model_type": "t5"}`).
		add("acme/declared", autoconfig.ConfigFile, `{"model_type": "bert", "tokenizer_class": "ErnieTokenizer"}`).
		add("acme/mbart", autoconfig.ConfigFile, `{"architectures": ["MBartForConditionalGeneration"]}`).
		add("acme/ernie-m", autoconfig.ConfigFile, `{"model_type": "ernie-m"}`)
	reg := newTestRegistry(t, WithFileResolver(files), WithLogger(logger))

	tests := []struct {
		identifier string
		class      string
	}{
		{"acme/t5", "T5Tokenizer"},
		{"acme/declared", "ErnieTokenizer"},
		{"acme/mbart", "MBartTokenizer"},
		{"acme/ernie-m", "ErnieMTokenizer"},
	}
	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			res, err := reg.ResolveClass(context.Background(), tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.class, res.Class.Name)
			assert.Equal(t, StrategyModelConfig, res.Strategy)
		})
	}

	assert.Equal(t, 1, logs.FilterMessageSnippet("several reference classes").Len())
}

func TestResolveClass_ModelConfigAccelerated(t *testing.T) {
	skipWithoutBackend(t)

	files := newMemFiles(t).add("acme/bert", autoconfig.ConfigFile, `{"model_type": "bert"}`)
	reg := newTestRegistry(t, WithFileResolver(files))

	res, err := reg.ResolveClass(context.Background(), "acme/bert")
	require.NoError(t, err)
	assert.Equal(t, "BertTokenizer", res.Class.Name)

	res, err = reg.ResolveClass(context.Background(), "acme/bert", WithUseFast(true))
	require.NoError(t, err)
	assert.Equal(t, "BertTokenizerFast", res.Class.Name)
}

func TestResolveClass_SuppliedConfig(t *testing.T) {
	reg := newTestRegistry(t, WithFileResolver(newMemFiles(t)), WithConfigLoader(failingLoader{t}))

	res, err := reg.ResolveClass(context.Background(), "acme/anything",
		WithConfig(&autoconfig.ModelConfig{ConfigType: "ChatGLMv2Config"}))
	require.NoError(t, err)
	assert.Equal(t, "ChatGLMv2Tokenizer", res.Class.Name)
}

func TestResolveClass_AmbiguousInput(t *testing.T) {
	files := newMemFiles(t).add("acme/mystery", autoconfig.ConfigFile, `{"model_type": "mystery"}`)
	reg := newTestRegistry(t, WithFileResolver(files))

	for _, identifier := range []string{"acme/nothing-here", "acme/mystery"} {
		_, err := reg.ResolveClass(context.Background(), identifier)

		var ambiguous *ErrAmbiguousInput
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, identifier, ambiguous.Identifier)
		assert.Contains(t, err.Error(), identifier)
		assert.Contains(t, err.Error(), "built-in pretrained models")
		assert.Contains(t, err.Error(), "community-contributed")
		assert.Contains(t, err.Error(), "directory")
	}
}

func TestResolveClass_MissingDependency(t *testing.T) {
	reg := newTestRegistry(t,
		WithFileResolver(newMemFiles(t)),
		WithArchitectures(Entry{Arch: "widget", Variants: Variants{Reference: []string{"WidgetTokenizer"}}}),
		WithClasses(GenericFast()),
	)

	_, err := reg.ResolveClass(context.Background(), "acme/widget",
		WithConfig(&autoconfig.ModelConfig{ConfigType: "WidgetConfig"}))

	var missing *ErrMissingDependency
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, Arch("widget"), missing.Arch)
}

func TestResolveClass_TokenizerTypeNotImplemented(t *testing.T) {
	reg := newTestRegistry(t, WithFileResolver(failingFiles{t}))

	_, err := reg.ResolveClass(context.Background(), "bert-base-uncased", WithTokenizerType("bert"))
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestResolveClass_ResolverError(t *testing.T) {
	boom := errors.New("connection reset")
	reg := newTestRegistry(t, WithFileResolver(errFiles{boom}))

	_, err := reg.ResolveClass(context.Background(), "acme/widget")
	assert.ErrorIs(t, err, boom)
}

type errFiles struct{ err error }

func (e errFiles) Resolve(context.Context, string, string, hub.FetchOptions) (string, error) {
	return "", e.err
}

func TestResolve_ForwardsOptions(t *testing.T) {
	var got LoadOptions
	widget := stubClass("WidgetTokenizer", KindReference, &got)
	files := newMemFiles(t).add("acme/widget", TokenizerConfigFile, `{"tokenizer_class": "WidgetTokenizer"}`)

	reg := newTestRegistry(t,
		WithFileResolver(files),
		WithArchitectures(one("widget", "WidgetTokenizer")),
		WithClasses(widget),
	)

	tok, err := reg.Resolve(context.Background(), "acme/widget",
		WithArgs("a", 1),
		WithKwargs(map[string]any{"do_lower_case": false}),
		WithRevision("v2"),
		WithSubfolder("tok"),
	)
	require.NoError(t, err)
	require.NotNil(t, tok)

	assert.True(t, got.FromAuto)
	assert.Equal(t, []any{"a", 1}, got.Args)
	assert.Equal(t, false, got.Kwargs["do_lower_case"])
	assert.Equal(t, "v2", got.Fetch.Revision)
	assert.Equal(t, "tok", got.Fetch.Subfolder)
	assert.Same(t, files, got.Files)
}

func TestResolve_ConstructorError(t *testing.T) {
	broken := &Class{
		Name: "BrokenTokenizer",
		Kind: KindReference,
		New: func(context.Context, string, LoadOptions) (tokenizer.Tokenizer, error) {
			return nil, errors.New("vocab missing")
		},
	}
	files := newMemFiles(t).add("acme/broken", TokenizerConfigFile, `{"tokenizer_class": "BrokenTokenizer"}`)
	reg := newTestRegistry(t,
		WithFileResolver(files),
		WithArchitectures(one("broken", "BrokenTokenizer")),
		WithClasses(broken),
	)

	_, err := reg.Resolve(context.Background(), "acme/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BrokenTokenizer")
	assert.Contains(t, err.Error(), "vocab missing")
}

func TestResolve_LocalWordPiece(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TokenizerConfigFile),
		[]byte(`{"tokenizer_class": "BertTokenizer", "unk_token": "[UNK]"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenizer.VocabTxtFile),
		[]byte("[PAD]\n[UNK]\n[CLS]\n[SEP]\nhello\nworld\n"), 0o600))

	client, err := hub.NewClient(hub.WithOffline(true), hub.WithCacheDir(t.TempDir()))
	require.NoError(t, err)
	reg := newTestRegistry(t, WithFileResolver(client))

	tok, err := reg.Resolve(context.Background(), dir)
	require.NoError(t, err)

	ids, err := tok.Encode("Hello world")
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 5}, ids)
	assert.Equal(t, int32(1), tok.UnkToken())
}

func TestResolveAndLoad_ReadsConfigOnce(t *testing.T) {
	var got LoadOptions
	files := newMemFiles(t).add("acme/widget", autoconfig.ConfigFile, `{"model_type": "widget"}`)
	reg := newTestRegistry(t,
		WithFileResolver(files),
		WithArchitectures(one("widget", "WidgetTokenizer")),
		WithClasses(stubClass("WidgetTokenizer", KindReference, &got)),
	)

	tok, res, err := reg.ResolveAndLoad(context.Background(), "acme/widget")
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "WidgetTokenizer", res.Class.Name)
	assert.Equal(t, StrategyModelConfig, res.Strategy)
	assert.True(t, got.FromAuto)
	assert.Equal(t, 2, files.calls, "tokenizer_config.json and config.json are each looked up once")
}
