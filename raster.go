// Package wkbraster encodes and decodes rasters in the PostGIS WKB-Raster
// binary format.
//
// A Raster is a plain value built by the caller. Encode and Decode are pure
// functions of their input and can be called concurrently.
package wkbraster

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Version is the only WKB-Raster format version understood by this package.
const Version uint16 = 0

// Endian is the byte order of a serialized raster. The marker values follow
// the WKB convention: 0 is XDR (big endian), 1 is NDR (little endian).
type Endian uint8

const (
	EndianBig    Endian = 0
	EndianLittle Endian = 1
)

// String implements fmt.Stringer.
func (e Endian) String() string {
	switch e {
	case EndianBig:
		return "big"
	case EndianLittle:
		return "little"
	}

	return fmt.Sprintf("Endian(%d)", uint8(e))
}

func (e Endian) byteOrder() (binary.ByteOrder, error) {
	switch e {
	case EndianBig:
		return binary.BigEndian, nil
	case EndianLittle:
		return binary.LittleEndian, nil
	}

	return nil, fmt.Errorf("unknown endianness marker %d", uint8(e))
}

// Raster is a georeferenced grid of bands.
type Raster struct {
	// Endian is the byte order of the whole serialized payload. PostGIS only
	// accepts EndianBig on input.
	Endian  Endian
	Version uint16

	// ScaleX and ScaleY are the pixel size in georeferenced units.
	ScaleX float64
	ScaleY float64

	// IPX and IPY locate the upper-left corner of the upper-left pixel.
	IPX float64
	IPY float64

	// SkewX and SkewY are the rotation terms, zero for north-up rasters.
	SkewX float64
	SkewY float64

	SRID   int32
	Width  uint16
	Height uint16

	// Bands in on-wire order. All bands share Width and Height.
	Bands []Band
}

// Band is one layer of a raster.
type Band struct {
	// IsNodataValue flags that every pixel of the band equals its nodata
	// value. It does not change the layout.
	IsNodataValue bool

	Data DataSource
}

// Validate checks the invariants Encode relies on. Errors match
// ErrMalformedRaster or ErrUnsupportedPixelType.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrMalformedRaster)
	}

	if _, err := r.Endian.byteOrder(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRaster, err)
	}

	if r.Version != Version {
		return fmt.Errorf("%w: version %d, want %d", ErrMalformedRaster, r.Version, Version)
	}

	if len(r.Bands) == 0 {
		return fmt.Errorf("%w: no bands", ErrMalformedRaster)
	}

	if r.Width == 0 || r.Height == 0 {
		return fmt.Errorf("%w: %dx%d raster cannot carry bands", ErrMalformedRaster, r.Width, r.Height)
	}

	if len(r.Bands) > 1<<16-1 {
		return fmt.Errorf("%w: %d bands do not fit the band count field", ErrMalformedRaster, len(r.Bands))
	}

	for i, b := range r.Bands {
		if err := b.validate(int(r.Width), int(r.Height)); err != nil {
			return fmt.Errorf("band %d: %w", i, err)
		}
	}

	return nil
}

func (b Band) validate(width, height int) error {
	switch data := b.Data.(type) {
	case nil:
		return fmt.Errorf("%w: band has no data", ErrMalformedRaster)
	case *OutDBData:
		if data == nil {
			return fmt.Errorf("%w: band has no data", ErrMalformedRaster)
		}

		return data.validate()
	case InMemoryData:
		if reflect.ValueOf(data).IsNil() {
			return fmt.Errorf("%w: band has no data", ErrMalformedRaster)
		}

		return data.validate(width, height)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedPixelType, data)
	}
}
