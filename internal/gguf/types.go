// Package gguf reads the metadata section of GGUF files.
//
// GGUF (GGML Universal Format) is the single-file checkpoint format used by
// llama.cpp. Only the header and key-value metadata are decoded; tensor
// descriptors and tensor data are never read. That is enough to learn a
// checkpoint's architecture and tokenizer family without loading weights.
//
// Format reference: https://github.com/ggerganov/ggml/blob/master/docs/gguf.md
package gguf

import (
	"fmt"
)

// Magic bytes for GGUF format.
const (
	MagicGGUFLE uint32 = 0x46554747 // "GGUF" little-endian.
	MagicGGUFBE uint32 = 0x47475546 // "GGUF" big-endian (reversed).
)

// Version constants.
const (
	Version1 uint32 = 1
	Version2 uint32 = 2
	Version3 uint32 = 3 // Current version.
)

// Well-known metadata keys.
const (
	KeyArchitecture   = "general.architecture"
	KeyName           = "general.name"
	KeyTokenizerModel = "tokenizer.ggml.model"
	KeyTokenizerPre   = "tokenizer.ggml.pre"
	KeyTokens         = "tokenizer.ggml.tokens"
)

// ValueType represents the type of a metadata value.
type ValueType uint32

// Metadata value types as defined in the GGUF format.
const (
	ValueTypeUint8   ValueType = 0
	ValueTypeInt8    ValueType = 1
	ValueTypeUint16  ValueType = 2
	ValueTypeInt16   ValueType = 3
	ValueTypeUint32  ValueType = 4
	ValueTypeInt32   ValueType = 5
	ValueTypeFloat32 ValueType = 6
	ValueTypeBool    ValueType = 7
	ValueTypeString  ValueType = 8
	ValueTypeArray   ValueType = 9
	ValueTypeUint64  ValueType = 10
	ValueTypeInt64   ValueType = 11
	ValueTypeFloat64 ValueType = 12
)

// fixedSizes holds the encoded width of scalar value types.
var fixedSizes = map[ValueType]int64{
	ValueTypeUint8:   1,
	ValueTypeInt8:    1,
	ValueTypeBool:    1,
	ValueTypeUint16:  2,
	ValueTypeInt16:   2,
	ValueTypeUint32:  4,
	ValueTypeInt32:   4,
	ValueTypeFloat32: 4,
	ValueTypeUint64:  8,
	ValueTypeInt64:   8,
	ValueTypeFloat64: 8,
}

// String returns the string representation of the value type.
func (t ValueType) String() string {
	switch t {
	case ValueTypeString:
		return "string"
	case ValueTypeArray:
		return "array"
	case ValueTypeBool:
		return "bool"
	}
	if size, ok := fixedSizes[t]; ok {
		return fmt.Sprintf("scalar%d", size*8)
	}
	return fmt.Sprintf("unknown(%d)", t)
}

// Header represents the GGUF file header.
type Header struct {
	Magic           uint32
	Version         uint32
	TensorCount     uint64
	MetadataKVCount uint64
}

// Metadata is the decoded key-value section of a GGUF file.
//
// Arrays are only decoded for keys accepted by the reader's filter; other
// arrays are skipped and recorded in Skipped with their element count.
type Metadata struct {
	Header  Header
	Values  map[string]interface{}
	Skipped map[string]uint64
}

// Architecture returns the model architecture (e.g., "llama", "bert").
func (m *Metadata) Architecture() string {
	return m.String(KeyArchitecture)
}

// Name returns the model name.
func (m *Metadata) Name() string {
	return m.String(KeyName)
}

// TokenizerModel returns the tokenizer family (e.g., "llama", "gpt2", "bert").
func (m *Metadata) TokenizerModel() string {
	return m.String(KeyTokenizerModel)
}

// String returns a string value, or "" if the key is absent or not a string.
func (m *Metadata) String(key string) string {
	if s, ok := m.Values[key].(string); ok {
		return s
	}
	return ""
}

// VocabSize returns the number of tokens, whether decoded or skipped.
func (m *Metadata) VocabSize() int {
	if tokens, ok := m.Values[KeyTokens].([]string); ok {
		return len(tokens)
	}
	return int(m.Skipped[KeyTokens]) //nolint:gosec // G115: vocab sizes fit in int.
}
