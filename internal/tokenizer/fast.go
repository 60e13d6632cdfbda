//go:build !notokenizers

package tokenizer

import (
	"fmt"

	hftokenizer "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// FastBackendAvailable reports whether accelerated tokenizers can be built.
// It is false when compiled with the notokenizers build tag.
const FastBackendAvailable = true

// FastTokenizer is an accelerated tokenizer backed by a full tokenizer.json
// pipeline (normalizer, pre-tokenizer, model, post-processor).
type FastTokenizer struct {
	specialTokens

	tk *hftokenizer.Tokenizer
}

// LoadFast loads a tokenizer.json into the accelerated backend.
func LoadFast(path string) (*FastTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer.json: %w", err)
	}

	f := &FastTokenizer{specialTokens: newSpecialTokens(), tk: tk}
	f.SetSpecialTokens(
		f.firstID("<s>", "<bos>", "[CLS]", "<|begin_of_text|>"),
		f.firstID("</s>", "<eos>", "[SEP]", "<|endoftext|>", "<|end_of_text|>"),
		f.firstID("<pad>", "[PAD]"),
		f.firstID("<unk>", "[UNK]"),
	)
	return f, nil
}

func (f *FastTokenizer) firstID(names ...string) int32 {
	for _, name := range names {
		if id, ok := f.TokenID(name); ok {
			return id
		}
	}
	return -1
}

// Encode converts text to token IDs, applying the post-processor.
func (f *FastTokenizer) Encode(text string) ([]int32, error) {
	enc, err := f.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode: %w", err)
	}

	out := make([]int32, len(enc.Ids))
	for i, id := range enc.Ids {
		out[i] = int32(id) //nolint:gosec // G115: Token ID fits in int32.
	}
	return out, nil
}

// Decode converts token IDs back to text, dropping special tokens.
func (f *FastTokenizer) Decode(tokens []int32) (string, error) {
	ids := make([]int, len(tokens))
	for i, id := range tokens {
		ids[i] = int(id)
	}
	return f.tk.Decode(ids, true), nil
}

// VocabSize returns the vocabulary size including added tokens.
func (f *FastTokenizer) VocabSize() int {
	return f.tk.GetVocabSize(true)
}

// TokenID looks up a token string.
func (f *FastTokenizer) TokenID(token string) (int32, bool) {
	id, ok := f.tk.TokenToId(token)
	return int32(id), ok //nolint:gosec // G115: Token ID fits in int32.
}
