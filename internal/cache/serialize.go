package cache

import (
	"bytes"
	"encoding/gob"

	"github.com/klauspost/compress/zstd"
)

// envelope is the gob wire format for a serialized cache payload. Wrapping
// the client's value in a struct with an `any` field lets gob carry enough
// type information to round-trip through Decode without the caller handing
// us a destination type — gob still requires the concrete dynamic type to
// have been registered with gob.Register, which is the one schema-free
// serialization primitive the standard library offers (see DESIGN.md).
type envelope struct {
	V any
}

// codec serializes cache payloads to a compressed, self-describing byte
// form and back. Compression uses klauspost/compress/zstd so that the
// large values this path exists for (anything crossing
// serialize_threshold_bytes) are charged against the memory limit at their
// compressed size, not their raw encoded size.
type codec struct{}

func newCodec() *codec {
	return &codec{}
}

// encode serializes v into a compressed, self-describing byte sequence.
func (c *codec) encode(v any) ([]byte, error) {
	var gobBuf bytes.Buffer
	if err := gob.NewEncoder(&gobBuf).Encode(&envelope{V: v}); err != nil {
		return nil, err
	}

	zw, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer zw.Close()

	return zw.EncodeAll(gobBuf.Bytes(), nil), nil
}

// decode reverses encode, returning the value with its original dynamic
// type.
func (c *codec) decode(data []byte) (any, error) {
	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	raw, err := zr.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return nil, err
	}
	return env.V, nil
}
