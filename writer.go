package wkbraster

import (
	"encoding/binary"
	"math"
)

// writer appends fixed width values to a buffer using one byte order.
type writer struct {
	buf   []byte
	order binary.ByteOrder
}

func newWriter(order binary.ByteOrder, capacity int) *writer {
	return &writer{buf: make([]byte, 0, capacity), order: order}
}

func (w *writer) uint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) uint16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) uint32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) uint64(v uint64) {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) float32(v float32) {
	w.uint32(math.Float32bits(v))
}

func (w *writer) float64(v float64) {
	w.uint64(math.Float64bits(v))
}

// cstring writes s followed by a NUL terminator.
func (w *writer) cstring(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

func (w *writer) bytes() []byte {
	return w.buf
}

func (w *writer) int8(v int8) {
	w.uint8(uint8(v))
}

func (w *writer) int16(v int16) {
	w.uint16(uint16(v))
}

func (w *writer) int32(v int32) {
	w.uint32(uint32(v))
}

func (w *writer) bool(v bool) {
	if v {
		w.uint8(1)

		return
	}

	w.uint8(0)
}
