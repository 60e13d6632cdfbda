package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVocab = "[PAD]\n[UNK]\n[CLS]\n[SEP]\n[MASK]\nthe\nquick\nfox\njump\n##s\n,\n!\n"

func TestLoadWordPieceFromVocab(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vocab.txt", testVocab)

	tok, err := LoadWordPieceFromVocab(path, true)
	require.NoError(t, err)

	assert.Equal(t, 12, tok.VocabSize())
	assert.Equal(t, int32(2), tok.BosToken())
	assert.Equal(t, int32(3), tok.EosToken())
	assert.Equal(t, int32(0), tok.PadToken())
	assert.Equal(t, int32(1), tok.UnkToken())
	assert.True(t, tok.IsSpecialToken(4), "[MASK] is special")
	assert.False(t, tok.IsSpecialToken(5))
}

func TestWordPiece_Encode(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vocab.txt", testVocab)
	tok, err := LoadWordPieceFromVocab(path, true)
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want []int32
	}{
		{name: "empty", text: "", want: []int32{}},
		{name: "continuation pieces", text: "The quick fox jumps", want: []int32{5, 6, 7, 8, 9}},
		{name: "punctuation split", text: "fox, jump!", want: []int32{7, 10, 8, 11}},
		{name: "unknown word", text: "zebra", want: []int32{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := tok.Encode(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestWordPiece_CaseSensitive(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vocab.txt", testVocab)
	tok, err := LoadWordPieceFromVocab(path, false)
	require.NoError(t, err)

	ids, err := tok.Encode("The")
	require.NoError(t, err)
	assert.Equal(t, []int32{1}, ids)
}

func TestWordPiece_Decode(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vocab.txt", testVocab)
	tok, err := LoadWordPieceFromVocab(path, true)
	require.NoError(t, err)

	text, err := tok.Decode([]int32{5, 7, 8, 9})
	require.NoError(t, err)
	assert.Equal(t, "the fox jumps", text)

	_, err = tok.Decode([]int32{999})
	assert.Error(t, err)
}

func TestLoadWordPieceFromVocab_Missing(t *testing.T) {
	_, err := LoadWordPieceFromVocab("/nonexistent/vocab.txt", true)
	assert.Error(t, err)
}
