package tokenizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/born-ml/autotokenizer/internal/hub"
)

// Well-known tokenizer file names.
const (
	TokenizerJSONFile = "tokenizer.json"
	VocabTxtFile      = "vocab.txt"
	VocabJSONFile     = "vocab.json"
	MergesFile        = "merges.txt"
)

// ErrNoTokenizerFiles is returned when none of a family's files exist.
var ErrNoTokenizerFiles = errors.New("no tokenizer files found")

// Family groups tokenizer classes by the files and algorithm they load.
type Family string

const (
	// FamilyWordPiece loads vocab.txt, or a WordPiece tokenizer.json.
	FamilyWordPiece Family = "wordpiece"

	// FamilyBPE loads tokenizer.json, or vocab.json + merges.txt.
	FamilyBPE Family = "bpe"

	// FamilyGPT loads BPE files and falls back to a tiktoken encoding.
	FamilyGPT Family = "gpt"

	// FamilySentencePiece loads a converted tokenizer.json.
	FamilySentencePiece Family = "sentencepiece"

	// FamilyFast loads tokenizer.json into the accelerated backend.
	FamilyFast Family = "fast"
)

// defaultTikTokenEncoding is the GPT-2 encoding.
const defaultTikTokenEncoding = encodingR50kBase

// Source describes where a pretrained tokenizer's files come from.
type Source struct {
	// Identifier is a local directory or repository id.
	Identifier string

	// Files locates individual files for Identifier.
	Files hub.Resolver

	// Fetch is passed through to every file lookup.
	Fetch hub.FetchOptions

	// Init holds initialization keyword arguments such as do_lower_case,
	// unk_token or tiktoken_encoding.
	Init map[string]any
}

func (s Source) fetch(ctx context.Context, filename string) (string, bool, error) {
	path, err := s.Files.Resolve(ctx, s.Identifier, filename, s.Fetch)
	if errors.Is(err, hub.ErrEntryNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve %s for %q: %w", filename, s.Identifier, err)
	}
	return path, true, nil
}

func (s Source) boolInit(key string, def bool) bool {
	if v, ok := s.Init[key].(bool); ok {
		return v
	}
	return def
}

// LoadPretrained loads a tokenizer of the given family and applies the
// special-token overrides found in src.Init.
func LoadPretrained(ctx context.Context, family Family, src Source) (Tokenizer, error) {
	if src.Files == nil {
		return nil, errors.New("tokenizer source has no file resolver")
	}

	var (
		tok Tokenizer
		err error
	)
	switch family {
	case FamilyWordPiece:
		tok, err = loadWordPiece(ctx, src)
	case FamilyBPE:
		tok, err = loadBPE(ctx, src)
	case FamilyGPT:
		tok, err = loadGPT(ctx, src)
	case FamilySentencePiece:
		tok, err = loadTokenizerJSONOnly(ctx, src)
	case FamilyFast:
		tok, err = loadFast(ctx, src)
	default:
		return nil, fmt.Errorf("unknown tokenizer family %q", family)
	}
	if err != nil {
		return nil, err
	}

	applyInit(tok, src.Init)
	return tok, nil
}

func loadWordPiece(ctx context.Context, src Source) (Tokenizer, error) {
	lower := src.boolInit("do_lower_case", true)

	path, ok, err := src.fetch(ctx, VocabTxtFile)
	if err != nil {
		return nil, err
	}
	if ok {
		return asTokenizer(LoadWordPieceFromVocab(path, lower))
	}

	path, ok, err = src.fetch(ctx, TokenizerJSONFile)
	if err != nil {
		return nil, err
	}
	if ok {
		return LoadTokenizerJSON(path, lower)
	}

	return nil, fmt.Errorf("%w for %q: need %s or %s", ErrNoTokenizerFiles, src.Identifier, VocabTxtFile, TokenizerJSONFile)
}

func loadBPE(ctx context.Context, src Source) (Tokenizer, error) {
	path, ok, err := src.fetch(ctx, TokenizerJSONFile)
	if err != nil {
		return nil, err
	}
	if ok {
		return LoadTokenizerJSON(path, false)
	}

	vocab, okVocab, err := src.fetch(ctx, VocabJSONFile)
	if err != nil {
		return nil, err
	}
	merges, okMerges, err := src.fetch(ctx, MergesFile)
	if err != nil {
		return nil, err
	}
	if okVocab && okMerges {
		return asTokenizer(LoadBPEFromFiles(vocab, merges))
	}

	return nil, fmt.Errorf("%w for %q: need %s, or %s and %s", ErrNoTokenizerFiles, src.Identifier, TokenizerJSONFile, VocabJSONFile, MergesFile)
}

func loadGPT(ctx context.Context, src Source) (Tokenizer, error) {
	tok, err := loadBPE(ctx, src)
	if !errors.Is(err, ErrNoTokenizerFiles) {
		return tok, err
	}

	encoding := defaultTikTokenEncoding
	if name, ok := src.Init["tiktoken_encoding"].(string); ok && name != "" {
		encoding = name
	}
	return asTokenizer(TryLoadTikToken(encoding))
}

func loadTokenizerJSONOnly(ctx context.Context, src Source) (Tokenizer, error) {
	path, ok, err := src.fetch(ctx, TokenizerJSONFile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w for %q: need a converted %s", ErrNoTokenizerFiles, src.Identifier, TokenizerJSONFile)
	}
	return LoadTokenizerJSON(path, src.boolInit("do_lower_case", false))
}

func loadFast(ctx context.Context, src Source) (Tokenizer, error) {
	if !FastBackendAvailable {
		return nil, ErrBackendUnavailable
	}

	path, ok, err := src.fetch(ctx, TokenizerJSONFile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w for %q: need %s", ErrNoTokenizerFiles, src.Identifier, TokenizerJSONFile)
	}
	return asTokenizer(LoadFast(path))
}

// specialHolder is implemented by tokenizers embedding specialTokens.
type specialHolder interface {
	specials() *specialTokens
}

func (s *specialTokens) specials() *specialTokens { return s }

// applyInit overrides special token roles named in init (e.g. "unk_token": "<unk>").
func applyInit(tok Tokenizer, init map[string]any) {
	holder, ok := tok.(specialHolder)
	if !ok || len(init) == 0 {
		return
	}
	vocab, ok := tok.(Vocabulary)
	if !ok {
		return
	}

	s := holder.specials()
	roles := []struct {
		key string
		dst *int32
	}{
		{"bos_token", &s.bos},
		{"eos_token", &s.eos},
		{"pad_token", &s.pad},
		{"unk_token", &s.unk},
	}
	for _, role := range roles {
		name := tokenContent(init[role.key])
		if name == "" {
			continue
		}
		if id, ok := vocab.TokenID(name); ok {
			*role.dst = id
			s.MarkSpecial(id)
		}
	}
}

// tokenContent accepts a plain string or an added-token object {"content": "..."}.
func tokenContent(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["content"].(string); ok {
			return s
		}
	}
	return ""
}
