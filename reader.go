package wkbraster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// reader is a cursor over an encoded raster. Every read checks the remaining
// length first, so a truncated buffer yields ErrUnexpectedEndOfInput rather
// than a panic.
type reader struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) next(n int, what string) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("%w: reading %s at offset %d, need %d bytes, have %d",
			ErrUnexpectedEndOfInput, what, r.off, n, r.remaining())
	}

	b := r.buf[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *reader) uint8(what string) (uint8, error) {
	b, err := r.next(1, what)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *reader) uint16(what string) (uint16, error) {
	b, err := r.next(2, what)
	if err != nil {
		return 0, err
	}

	return r.order.Uint16(b), nil
}

func (r *reader) uint32(what string) (uint32, error) {
	b, err := r.next(4, what)
	if err != nil {
		return 0, err
	}

	return r.order.Uint32(b), nil
}

func (r *reader) uint64(what string) (uint64, error) {
	b, err := r.next(8, what)
	if err != nil {
		return 0, err
	}

	return r.order.Uint64(b), nil
}

func (r *reader) float32(what string) (float32, error) {
	v, err := r.uint32(what)

	return math.Float32frombits(v), err
}

func (r *reader) float64(what string) (float64, error) {
	v, err := r.uint64(what)

	return math.Float64frombits(v), err
}

// cstring reads up to and including the next NUL byte.
func (r *reader) cstring(what string) (string, error) {
	i := bytes.IndexByte(r.buf[r.off:], 0)
	if i < 0 {
		return "", fmt.Errorf("%w: unterminated %s at offset %d", ErrUnexpectedEndOfInput, what, r.off)
	}

	s := string(r.buf[r.off : r.off+i])
	r.off += i + 1

	return s, nil
}

func (r *reader) int8(what string) (int8, error) {
	v, err := r.uint8(what)

	return int8(v), err
}

func (r *reader) int16(what string) (int16, error) {
	v, err := r.uint16(what)

	return int16(v), err
}

func (r *reader) int32(what string) (int32, error) {
	v, err := r.uint32(what)

	return int32(v), err
}

// bool reads one byte and keeps its lowest bit, like PostGIS does for 1BB
// values.
func (r *reader) bool(what string) (bool, error) {
	v, err := r.uint8(what)

	return v&1 == 1, err
}

// ensure fails early when fewer than n bytes remain, before a large grid is
// allocated for a payload that is not there.
func (r *reader) ensure(n int, what string) error {
	if r.remaining() < n {
		return fmt.Errorf("%w: %s needs %d bytes at offset %d, have %d",
			ErrUnexpectedEndOfInput, what, n, r.off, r.remaining())
	}

	return nil
}
