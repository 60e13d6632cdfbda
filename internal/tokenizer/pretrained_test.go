package tokenizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/autotokenizer/internal/hub"
)

func localFiles(t *testing.T) hub.Resolver {
	t.Helper()

	client, err := hub.NewClient(hub.WithOffline(true), hub.WithCacheDir(t.TempDir()))
	require.NoError(t, err)
	return client
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(context.Context, string, string, hub.FetchOptions) (string, error) {
	return "", f.err
}

func TestLoadPretrained_WordPiece(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vocab.txt", testVocab)

	tok, err := LoadPretrained(context.Background(), FamilyWordPiece, Source{
		Identifier: dir,
		Files:      localFiles(t),
		Init:       map[string]any{"do_lower_case": false, "unk_token": "[MASK]"},
	})
	require.NoError(t, err)

	ids, err := tok.Encode("The fox")
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 7}, ids, "cased lookup misses and maps to the overridden unk")
	assert.Equal(t, int32(4), tok.UnkToken())
}

func TestLoadPretrained_BPEFromVocabAndMerges(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "vocab.json", map[string]int{"a": 0, "b": 1, "ab": 2, "<pad>": 3})
	writeFile(t, dir, "merges.txt", "a b\n")

	tok, err := LoadPretrained(context.Background(), FamilyBPE, Source{
		Identifier: dir,
		Files:      localFiles(t),
		Init:       map[string]any{"pad_token": map[string]any{"content": "<pad>"}},
	})
	require.NoError(t, err)

	ids, err := tok.Encode("ab")
	require.NoError(t, err)
	assert.Equal(t, []int32{2}, ids)
	assert.Equal(t, int32(3), tok.PadToken())
}

func TestLoadPretrained_GPTFallsBackToTikToken(t *testing.T) {
	tok, err := LoadPretrained(context.Background(), FamilyGPT, Source{
		Identifier: t.TempDir(),
		Files:      localFiles(t),
	})
	require.NoError(t, err)

	tt, ok := tok.(*TikToken)
	require.True(t, ok)
	assert.Equal(t, "r50k_base", tt.Name())
}

func TestLoadPretrained_GPTEncodingOverride(t *testing.T) {
	tok, err := LoadPretrained(context.Background(), FamilyGPT, Source{
		Identifier: t.TempDir(),
		Files:      localFiles(t),
		Init:       map[string]any{"tiktoken_encoding": "cl100k_base"},
	})
	require.NoError(t, err)
	assert.Equal(t, 100256, tok.VocabSize())
}

func TestLoadPretrained_SentencePieceNeedsTokenizerJSON(t *testing.T) {
	_, err := LoadPretrained(context.Background(), FamilySentencePiece, Source{
		Identifier: t.TempDir(),
		Files:      localFiles(t),
	})
	assert.ErrorIs(t, err, ErrNoTokenizerFiles)
}

func TestLoadPretrained_SentencePieceBPE(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "tokenizer.json", bpeTokenizerJSON())

	tok, err := LoadPretrained(context.Background(), FamilySentencePiece, Source{Identifier: dir, Files: localFiles(t)})
	require.NoError(t, err)
	assert.IsType(t, &BPETokenizer{}, tok)
}

func TestLoadPretrained_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadPretrained(ctx, FamilyBPE, Source{Identifier: "x"})
	assert.Error(t, err, "missing resolver")

	_, err = LoadPretrained(ctx, Family("nope"), Source{Identifier: "x", Files: localFiles(t)})
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = LoadPretrained(ctx, FamilyWordPiece, Source{Identifier: "org/model", Files: failingResolver{err: boom}})
	assert.ErrorIs(t, err, boom)

	_, err = LoadPretrained(ctx, FamilyWordPiece, Source{Identifier: t.TempDir(), Files: localFiles(t)})
	assert.ErrorIs(t, err, ErrNoTokenizerFiles)
}
