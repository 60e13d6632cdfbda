package gguf

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ggufWriter struct {
	buf   bytes.Buffer
	order binary.ByteOrder
}

func (w *ggufWriter) u32(v uint32) { _ = binary.Write(&w.buf, w.order, v) }
func (w *ggufWriter) u64(v uint64) { _ = binary.Write(&w.buf, w.order, v) }

func (w *ggufWriter) str(s string) {
	w.u64(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *ggufWriter) kvString(key, value string) {
	w.str(key)
	w.u32(uint32(ValueTypeString))
	w.str(value)
}

func (w *ggufWriter) kvStrings(key string, values []string) {
	w.str(key)
	w.u32(uint32(ValueTypeArray))
	w.u32(uint32(ValueTypeString))
	w.u64(uint64(len(values)))
	for _, v := range values {
		w.str(v)
	}
}

// createTestGGUF builds a minimal GGUF stream with tokenizer metadata.
func createTestGGUF(order binary.ByteOrder) []byte {
	w := &ggufWriter{order: order}
	if order == binary.LittleEndian {
		_ = binary.Write(&w.buf, binary.LittleEndian, MagicGGUFLE)
	} else {
		_ = binary.Write(&w.buf, binary.LittleEndian, MagicGGUFBE)
	}
	w.u32(Version3)
	w.u64(0) // tensors
	w.u64(5) // kvs

	w.kvString(KeyArchitecture, "llama")
	w.kvString(KeyName, "tiny-llama")

	w.str("llama.context_length")
	w.u32(uint32(ValueTypeUint32))
	w.u32(4096)

	w.kvString(KeyTokenizerModel, "llama")
	w.kvStrings(KeyTokens, []string{"<unk>", "<s>", "</s>", "hello"})

	return w.buf.Bytes()
}

func TestReadMetadata(t *testing.T) {
	md, err := ReadMetadata(bytes.NewReader(createTestGGUF(binary.LittleEndian)), nil)
	require.NoError(t, err)

	assert.Equal(t, Version3, md.Header.Version)
	assert.Equal(t, uint64(5), md.Header.MetadataKVCount)
	assert.Equal(t, "llama", md.Architecture())
	assert.Equal(t, "tiny-llama", md.Name())
	assert.Equal(t, "llama", md.TokenizerModel())
	assert.Equal(t, uint32(4096), md.Values["llama.context_length"])

	// Token list was skipped but still counted.
	assert.NotContains(t, md.Values, KeyTokens)
	assert.Equal(t, uint64(4), md.Skipped[KeyTokens])
	assert.Equal(t, 4, md.VocabSize())
}

func TestReadMetadata_KeepArrays(t *testing.T) {
	keep := func(key string) bool { return key == KeyTokens }

	md, err := ReadMetadata(bytes.NewReader(createTestGGUF(binary.LittleEndian)), keep)
	require.NoError(t, err)
	assert.Equal(t, []string{"<unk>", "<s>", "</s>", "hello"}, md.Values[KeyTokens])
	assert.Equal(t, 4, md.VocabSize())
}

func TestReadMetadata_BigEndian(t *testing.T) {
	md, err := ReadMetadata(bytes.NewReader(createTestGGUF(binary.BigEndian)), nil)
	require.NoError(t, err)
	assert.Equal(t, "llama", md.Architecture())
}

func TestReadMetadata_InvalidMagic(t *testing.T) {
	_, err := ReadMetadata(bytes.NewReader([]byte("NOPE0000000000000000")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid magic")
}

func TestReadMetadata_UnsupportedVersion(t *testing.T) {
	w := &ggufWriter{order: binary.LittleEndian}
	w.u32(MagicGGUFLE)
	w.u32(9)

	_, err := ReadMetadata(bytes.NewReader(w.buf.Bytes()), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestReadMetadata_Truncated(t *testing.T) {
	data := createTestGGUF(binary.LittleEndian)

	_, err := ReadMetadata(bytes.NewReader(data[:len(data)-3]), nil)
	assert.Error(t, err)
}

func TestReadMetadataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gguf")
	require.NoError(t, os.WriteFile(path, createTestGGUF(binary.LittleEndian), 0o600))

	md, err := ReadMetadataFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "llama", md.Architecture())

	_, err = ReadMetadataFile(filepath.Join(t.TempDir(), "missing.gguf"), nil)
	assert.Error(t, err)
}

func TestReadMetadata_OversizedArrayLength(t *testing.T) {
	tests := []struct {
		name     string
		elemType ValueType
		elem     func(w *ggufWriter)
	}{
		{"strings", ValueTypeString, func(w *ggufWriter) { w.str("hello") }},
		{"uint32", ValueTypeUint32, func(w *ggufWriter) { w.u32(7) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &ggufWriter{order: binary.LittleEndian}
			w.u32(MagicGGUFLE)
			w.u32(Version3)
			w.u64(0) // tensors
			w.u64(1) // kvs
			w.str(KeyTokens)
			w.u32(uint32(ValueTypeArray))
			w.u32(uint32(tt.elemType))
			w.u64(maxArrayLen) // declared, but only one element follows
			tt.elem(w)

			keep := func(string) bool { return true }

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err := ReadMetadata(bytes.NewReader(w.buf.Bytes()), keep)
			runtime.ReadMemStats(&after)

			require.Error(t, err)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
		})
	}
}
