package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrBackendUnavailable is returned when a tokenizer needs the accelerated
// backend but the binary was built without it.
var ErrBackendUnavailable = errors.New("accelerated tokenizer backend is not available (built with notokenizers)")

// HFTokenizerType identifies the model section of a tokenizer.json.
type HFTokenizerType string

const (
	// HFTypeBPE indicates Byte-Pair Encoding tokenizer.
	HFTypeBPE HFTokenizerType = "BPE"

	// HFTypeWordPiece indicates WordPiece tokenizer (BERT-style).
	HFTypeWordPiece HFTokenizerType = "WordPiece"

	// HFTypeUnigram indicates Unigram tokenizer (SentencePiece-style).
	HFTypeUnigram HFTokenizerType = "Unigram"

	// HFTypeUnknown indicates an unknown or unsupported tokenizer type.
	HFTypeUnknown HFTokenizerType = "Unknown"
)

// HFTokenizerMetadata contains metadata from tokenizer.json.
type HFTokenizerMetadata struct {
	Type          HFTokenizerType
	VocabSize     int
	HasBOS        bool
	HasEOS        bool
	HasPAD        bool
	HasUNK        bool
	TokenizerType string
}

// DetectHFTokenizerType determines the tokenizer type from tokenizer.json.
func DetectHFTokenizerType(path string) (*HFTokenizerMetadata, error) {
	//nolint:gosec // Loading tokenizer from user-specified path is intentional.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokenizer.json: %w", err)
	}

	var raw struct {
		Model struct {
			Type  string          `json:"type"`
			Vocab json.RawMessage `json:"vocab"`
		} `json:"model"`
		AddedTokens []struct {
			Content string `json:"content"`
		} `json:"added_tokens"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tokenizer.json: %w", err)
	}

	metadata := &HFTokenizerMetadata{
		Type:          HFTypeUnknown,
		TokenizerType: raw.Model.Type,
	}

	switch HFTokenizerType(raw.Model.Type) {
	case HFTypeBPE, HFTypeWordPiece, HFTypeUnigram:
		metadata.Type = HFTokenizerType(raw.Model.Type)
	}

	// Unigram vocabularies are [token, score] lists; the others are maps.
	var asMap map[string]json.RawMessage
	var asList []json.RawMessage
	if json.Unmarshal(raw.Model.Vocab, &asMap) == nil {
		metadata.VocabSize = len(asMap)
	} else if json.Unmarshal(raw.Model.Vocab, &asList) == nil {
		metadata.VocabSize = len(asList)
	}

	for _, token := range raw.AddedTokens {
		switch token.Content {
		case "<s>", "<bos>", "[CLS]":
			metadata.HasBOS = true
		case "</s>", "<eos>", "[SEP]":
			metadata.HasEOS = true
		case "<pad>", "[PAD]":
			metadata.HasPAD = true
		case "<unk>", "[UNK]":
			metadata.HasUNK = true
		}
	}

	return metadata, nil
}

// LoadTokenizerJSON loads a tokenizer.json with the reference implementation
// matching its model type.
//
// Unigram models have no reference implementation here and are handed to
// the accelerated backend.
func LoadTokenizerJSON(path string, lowerCase bool) (Tokenizer, error) {
	metadata, err := DetectHFTokenizerType(path)
	if err != nil {
		return nil, err
	}

	var tok Tokenizer
	switch metadata.Type {
	case HFTypeBPE:
		tok, err = asTokenizer(LoadBPEFromHuggingFace(path))
	case HFTypeWordPiece:
		tok, err = asTokenizer(LoadWordPieceFromHuggingFace(path, lowerCase))
	case HFTypeUnigram:
		if tok, err = asTokenizer(LoadFast(path)); err != nil {
			err = fmt.Errorf("unigram tokenizer needs the accelerated backend: %w", err)
		}
	default:
		err = fmt.Errorf("unknown tokenizer type: %q", metadata.TokenizerType)
	}
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// asTokenizer drops typed nil pointers so failed loads return a nil interface.
func asTokenizer[T Tokenizer](tok T, err error) (Tokenizer, error) {
	if err != nil {
		return nil, err
	}
	return tok, nil
}
