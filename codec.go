package wkbraster

import "errors"

var (
	// ErrEncoding is returned by a Codec when it fails to encode a value.
	ErrEncoding = errors.New("failed to encode value")

	// ErrDecoding is returned by a Codec when it fails to decode a value.
	ErrDecoding = errors.New("failed to decode value")
)

// Codec represents a component that can encode and decode concrete message
// types.
type Codec[T any] interface {
	// Encode converts a value to bytes.
	Encode(data T) ([]byte, error)

	// Decode converts bytes back to a value.
	Decode(data []byte) (T, error)
}

var (
	_ Codec[*Raster] = WKBCodec{}
	_ Codec[*Raster] = HexCodec{}
)

// WKBCodec adapts Encode and Decode to the Codec interface, producing raw
// WKB-Raster bytes.
type WKBCodec struct {
	Options []Option
}

// Encode implements Codec.
func (c WKBCodec) Encode(r *Raster) ([]byte, error) {
	return Encode(r, c.Options...)
}

// Decode implements Codec.
func (c WKBCodec) Decode(data []byte) (*Raster, error) {
	return Decode(data, c.Options...)
}

// HexCodec is like WKBCodec but its byte form is the uppercase hex text, the
// representation text oriented stores exchange.
type HexCodec struct {
	Options []Option
}

// Encode implements Codec.
func (c HexCodec) Encode(r *Raster) ([]byte, error) {
	s, err := EncodeToHex(r, c.Options...)
	if err != nil {
		return nil, err
	}

	return []byte(s), nil
}

// Decode implements Codec.
func (c HexCodec) Decode(data []byte) (*Raster, error) {
	return DecodeFromHex(string(data), c.Options...)
}
