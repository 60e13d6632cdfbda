package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	tiktokenloader "github.com/pkoukk/tiktoken-go-loader"
)

const (
	// encodingCL100kBase is the encoding name for GPT-4 and GPT-3.5-turbo.
	encodingCL100kBase = "cl100k_base"
	// encodingP50kBase is the encoding name for Codex-era models.
	encodingP50kBase = "p50k_base"
	// encodingR50kBase is the GPT-2 / GPT-3 encoding.
	encodingR50kBase = "r50k_base"
)

// endOfText is the special token shared by all supported encodings.
const endOfText = "<|endoftext|>"

func init() {
	// BPE ranks ship with the loader module, so no download happens at runtime.
	tiktoken.SetBpeLoader(tiktokenloader.NewOfflineLoader())
}

// encodingInfo describes the ranks of a tiktoken encoding that
// tiktoken-go does not expose.
type encodingInfo struct {
	vocabSize int
	eos       int32
	// specials is the inclusive ID range of special tokens.
	specials [2]int32
}

var encodings = map[string]encodingInfo{
	encodingCL100kBase: {vocabSize: 100256, eos: 100257, specials: [2]int32{100256, 100276}},
	encodingP50kBase:   {vocabSize: 50257, eos: 50256, specials: [2]int32{50256, 50256}},
	encodingR50kBase:   {vocabSize: 50257, eos: 50256, specials: [2]int32{50256, 50256}},
}

// modelEncodings maps model names to their encoding. Names missing here
// are looked up by tiktoken-go itself.
var modelEncodings = map[string]string{
	"gpt-4":                  encodingCL100kBase,
	"gpt-3.5-turbo":          encodingCL100kBase,
	"text-embedding-ada-002": encodingCL100kBase,
	"gpt2":                   encodingR50kBase,
	"gpt-3":                  encodingP50kBase,
	"text-davinci-003":       encodingP50kBase,
	"code-davinci-002":       encodingP50kBase,
}

// TikToken is an OpenAI-style byte-level BPE backed by pkoukk/tiktoken-go.
// GPT-family classes fall back to it when a model ships no vocabulary files.
//
// Supported encodings:
//   - cl100k_base: GPT-4, GPT-3.5-turbo, text-embedding-ada-002
//   - p50k_base: Codex
//   - r50k_base: GPT-2, GPT-3
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
	info     encodingInfo
}

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}
	return newTikToken(encoding, encodingName), nil
}

// NewTikTokenForModel creates a TikToken tokenizer for a specific model.
//
// Example models: "gpt-4", "gpt-3.5-turbo", "gpt2".
func NewTikTokenForModel(modelName string) (*TikToken, error) {
	if name, ok := modelEncodings[modelName]; ok {
		return NewTikToken(name)
	}

	encoding, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken for model %q: %w", modelName, err)
	}
	return newTikToken(encoding, modelName), nil
}

// TryLoadTikToken loads a tiktoken encoding by model or encoding name.
func TryLoadTikToken(name string) (*TikToken, error) {
	if _, ok := encodings[name]; ok || strings.HasSuffix(name, "_base") {
		return NewTikToken(name)
	}
	return NewTikTokenForModel(name)
}

func newTikToken(encoding *tiktoken.Tiktoken, name string) *TikToken {
	info, ok := encodings[name]
	if !ok {
		info = encodingInfo{vocabSize: 100000, eos: -1, specials: [2]int32{-1, -1}}
		if ids := encoding.Encode(endOfText, []string{endOfText}, nil); len(ids) == 1 {
			info.eos = int32(ids[0]) //nolint:gosec // G115: Token ID fits in int32.
			info.specials = [2]int32{info.eos, info.eos}
		}
	}
	return &TikToken{encoding: encoding, name: name, info: info}
}

// Encode converts text to token IDs. Special tokens in text are encoded
// as plain text.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)

	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}
	return result, nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	intTokens := make([]int, len(tokens))
	for i, tok := range tokens {
		intTokens[i] = int(tok)
	}
	return t.encoding.Decode(intTokens), nil
}

// VocabSize returns the number of regular (non-special) tokens.
func (t *TikToken) VocabSize() int { return t.info.vocabSize }

// BosToken returns -1: tiktoken encodings have no BOS token.
func (t *TikToken) BosToken() int32 { return -1 }

// EosToken returns the <|endoftext|> token ID.
func (t *TikToken) EosToken() int32 { return t.info.eos }

// PadToken returns -1: tiktoken defines no padding token.
func (t *TikToken) PadToken() int32 { return -1 }

// UnkToken returns -1: byte-level BPE never produces unknown tokens.
func (t *TikToken) UnkToken() int32 { return -1 }

// IsSpecialToken checks if a token ID is a special token.
func (t *TikToken) IsSpecialToken(token int32) bool {
	return token >= 0 && token >= t.info.specials[0] && token <= t.info.specials[1]
}

// TokenID returns the ID of a token that encodes to a single rank,
// special tokens included.
func (t *TikToken) TokenID(token string) (int32, bool) {
	ids := t.encoding.Encode(token, []string{"all"}, nil)
	if len(ids) != 1 {
		return -1, false
	}
	return int32(ids[0]), true //nolint:gosec // G115: Token ID fits in int32.
}

// Name returns the encoding or model name.
func (t *TikToken) Name() string {
	return t.name
}
