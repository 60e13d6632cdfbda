package gguf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	maxStringLen = 1 << 20
	maxArrayLen  = 100_000_000

	// initialArrayCap caps preallocation; the declared length is untrusted.
	initialArrayCap = 1024
)

// ReadMetadata decodes the header and metadata of a GGUF stream.
//
// keep selects which array-valued keys are decoded; nil skips all arrays.
// Scalar and string values are always decoded.
func ReadMetadata(r io.Reader, keep func(key string) bool) (*Metadata, error) {
	p := &parser{
		r:     bufio.NewReader(r),
		order: binary.LittleEndian,
		keep:  keep,
	}
	return p.parse()
}

// ReadMetadataFile decodes the metadata of a GGUF file on disk.
//
//nolint:gosec // G304: path comes from trusted caller, not user input.
func ReadMetadataFile(path string, keep func(key string) bool) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() {
		_ = f.Close() // Ignore close error on read-only file.
	}()

	return ReadMetadata(f, keep)
}

type parser struct {
	r     *bufio.Reader
	order binary.ByteOrder
	keep  func(key string) bool
}

func (p *parser) parse() (*Metadata, error) {
	md := &Metadata{
		Values:  make(map[string]interface{}),
		Skipped: make(map[string]uint64),
	}

	if err := p.parseHeader(&md.Header); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	for i := uint64(0); i < md.Header.MetadataKVCount; i++ {
		key, err := p.readString()
		if err != nil {
			return nil, fmt.Errorf("parse metadata kv %d: read key: %w", i, err)
		}

		var vt uint32
		if err := binary.Read(p.r, p.order, &vt); err != nil {
			return nil, fmt.Errorf("parse metadata kv %q: read value type: %w", key, err)
		}

		if ValueType(vt) == ValueTypeArray && (p.keep == nil || !p.keep(key)) {
			n, err := p.skipArray()
			if err != nil {
				return nil, fmt.Errorf("parse metadata kv %q: %w", key, err)
			}
			md.Skipped[key] = n
			continue
		}

		value, err := p.parseValue(ValueType(vt))
		if err != nil {
			return nil, fmt.Errorf("parse metadata kv %q: %w", key, err)
		}
		md.Values[key] = value
	}

	return md, nil
}

func (p *parser) parseHeader(h *Header) error {
	if err := binary.Read(p.r, p.order, &h.Magic); err != nil {
		return fmt.Errorf("read magic: %w", err)
	}

	// The magic is written byte-wise, so reading it little-endian also tells us the byte order.
	switch h.Magic {
	case MagicGGUFLE:
		p.order = binary.LittleEndian
	case MagicGGUFBE:
		p.order = binary.BigEndian
	default:
		return fmt.Errorf("invalid magic: 0x%08X (expected GGUF)", h.Magic)
	}

	if err := binary.Read(p.r, p.order, &h.Version); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if h.Version < Version1 || h.Version > Version3 {
		return fmt.Errorf("unsupported version: %d (supported: 1-3)", h.Version)
	}

	if err := binary.Read(p.r, p.order, &h.TensorCount); err != nil {
		return fmt.Errorf("read tensor count: %w", err)
	}
	if err := binary.Read(p.r, p.order, &h.MetadataKVCount); err != nil {
		return fmt.Errorf("read metadata kv count: %w", err)
	}

	return nil
}

func (p *parser) parseValue(t ValueType) (interface{}, error) {
	switch t {
	case ValueTypeBool:
		var v uint8
		err := binary.Read(p.r, p.order, &v)
		return v != 0, err
	case ValueTypeString:
		return p.readString()
	case ValueTypeArray:
		return p.parseArray()
	case ValueTypeUint8:
		var v uint8
		err := binary.Read(p.r, p.order, &v)
		return v, err
	case ValueTypeInt8:
		var v int8
		err := binary.Read(p.r, p.order, &v)
		return v, err
	case ValueTypeUint16:
		var v uint16
		err := binary.Read(p.r, p.order, &v)
		return v, err
	case ValueTypeInt16:
		var v int16
		err := binary.Read(p.r, p.order, &v)
		return v, err
	case ValueTypeUint32:
		var v uint32
		err := binary.Read(p.r, p.order, &v)
		return v, err
	case ValueTypeInt32:
		var v int32
		err := binary.Read(p.r, p.order, &v)
		return v, err
	case ValueTypeFloat32:
		var v float32
		err := binary.Read(p.r, p.order, &v)
		return v, err
	case ValueTypeUint64:
		var v uint64
		err := binary.Read(p.r, p.order, &v)
		return v, err
	case ValueTypeInt64:
		var v int64
		err := binary.Read(p.r, p.order, &v)
		return v, err
	case ValueTypeFloat64:
		var v float64
		err := binary.Read(p.r, p.order, &v)
		return v, err
	default:
		return nil, fmt.Errorf("unknown value type: %d", t)
	}
}

func (p *parser) arrayHeader() (ValueType, uint64, error) {
	var elemType uint32
	if err := binary.Read(p.r, p.order, &elemType); err != nil {
		return 0, 0, fmt.Errorf("read array element type: %w", err)
	}

	var length uint64
	if err := binary.Read(p.r, p.order, &length); err != nil {
		return 0, 0, fmt.Errorf("read array length: %w", err)
	}
	if length > maxArrayLen {
		return 0, 0, fmt.Errorf("array too large: %d elements", length)
	}

	return ValueType(elemType), length, nil
}

// parseArray decodes string arrays as []string and everything else as []interface{}.
func (p *parser) parseArray() (interface{}, error) {
	vt, length, err := p.arrayHeader()
	if err != nil {
		return nil, err
	}

	if vt == ValueTypeString {
		out := make([]string, 0, min(length, initialArrayCap))
		for range length {
			s, err := p.readString()
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}

	out := make([]interface{}, 0, min(length, initialArrayCap))
	for range length {
		v, err := p.parseValue(vt)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// skipArray consumes an array without decoding it and returns its length.
func (p *parser) skipArray() (uint64, error) {
	vt, length, err := p.arrayHeader()
	if err != nil {
		return 0, err
	}

	if size, ok := fixedSizes[vt]; ok {
		if _, err := p.r.Discard(int(size * int64(length))); err != nil { //nolint:gosec // G115: bounded by maxArrayLen.
			return 0, fmt.Errorf("skip array: %w", err)
		}
		return length, nil
	}

	for i := uint64(0); i < length; i++ {
		switch vt {
		case ValueTypeString:
			if err := p.skipString(); err != nil {
				return 0, err
			}
		case ValueTypeArray:
			if _, err := p.skipArray(); err != nil {
				return 0, err
			}
		default:
			return 0, fmt.Errorf("unsupported array element type: %s", vt)
		}
	}
	return length, nil
}

// readString reads a GGUF string (length-prefixed, NOT null-terminated).
func (p *parser) readString() (string, error) {
	length, err := p.stringLen()
	if err != nil {
		return "", err
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(p.r, data); err != nil {
		return "", fmt.Errorf("read string data: %w", err)
	}
	return string(data), nil
}

func (p *parser) skipString() error {
	length, err := p.stringLen()
	if err != nil {
		return err
	}
	if _, err := p.r.Discard(int(length)); err != nil { //nolint:gosec // G115: bounded by maxStringLen.
		return fmt.Errorf("skip string data: %w", err)
	}
	return nil
}

func (p *parser) stringLen() (uint64, error) {
	var length uint64
	if err := binary.Read(p.r, p.order, &length); err != nil {
		return 0, fmt.Errorf("read string length: %w", err)
	}
	if length > maxStringLen {
		return 0, fmt.Errorf("string too long: %d bytes", length)
	}
	return length, nil
}
