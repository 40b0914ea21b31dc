package wkbraster

import (
	"encoding/hex"
	"strings"
)

// Band flag bits. The lower four bits carry the PixelType tag.
const (
	flagPixelTypeMask = 0x0f
	flagIsNodataValue = 0x20
	flagHasNodata     = 0x40
	flagIsOutDB       = 0x80
)

// headerSize is the length of the raster header preceding the first band.
const headerSize = 1 + 2 + 2 + 6*8 + 4 + 2 + 2

// Encode serializes r to WKB-Raster bytes. The raster is validated first; on
// error nothing is returned.
func Encode(r *Raster, opts ...Option) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	order, _ := r.Endian.byteOrder()

	w := newWriter(order, headerSize+len(r.Bands)*(1+8+int(r.Width)*int(r.Height)))
	w.uint8(uint8(r.Endian))
	w.uint16(r.Version)
	w.uint16(uint16(len(r.Bands)))
	w.float64(r.ScaleX)
	w.float64(r.ScaleY)
	w.float64(r.IPX)
	w.float64(r.IPY)
	w.float64(r.SkewX)
	w.float64(r.SkewY)
	w.int32(r.SRID)
	w.uint16(r.Width)
	w.uint16(r.Height)

	for _, b := range r.Bands {
		encodeBand(w, b, o.dialect)
	}

	return w.bytes(), nil
}

// EncodeToHex is Encode followed by uppercase hex encoding, the textual form
// PostGIS accepts as raster input.
func EncodeToHex(r *Raster, opts ...Option) (string, error) {
	b, err := Encode(r, opts...)
	if err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(b)), nil
}

func encodeBand(w *writer, b Band, d Dialect) {
	flags := uint8(b.Data.PixelType()) & flagPixelTypeMask

	if b.IsNodataValue {
		flags |= flagIsNodataValue
	}

	switch data := b.Data.(type) {
	case *OutDBData:
		flags |= flagIsOutDB
		if data.Nodata != nil {
			flags |= flagHasNodata
		}

		w.uint8(flags)
		writeNodata(data.Nodata, d, func(v float64) { writeSample(w, data.Type, v) })
		w.uint8(data.BandIndex)
		w.cstring(data.Path)
	case InMemoryData:
		if data.hasNodata() {
			flags |= flagHasNodata
		}

		w.uint8(flags)
		data.encode(w, d)
	}
}

// writeSample writes v as one sample of type pt. v must be representable by
// pt, which Validate guarantees.
func writeSample(w *writer, pt PixelType, v float64) {
	switch pt {
	case PixelBool1, PixelUInt2, PixelUInt4, PixelUInt8:
		w.uint8(uint8(v))
	case PixelInt8:
		w.int8(int8(v))
	case PixelInt16:
		w.int16(int16(v))
	case PixelUInt16:
		w.uint16(uint16(v))
	case PixelInt32:
		w.int32(int32(v))
	case PixelUInt32:
		w.uint32(uint32(v))
	case PixelFloat32:
		w.float32(float32(v))
	case PixelFloat64:
		w.float64(v)
	}
}
