package wkbraster

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Decode parses WKB-Raster bytes. The first byte selects the byte order of
// everything that follows. Bytes after the last declared band are ignored
// unless WithStrict is given. On error no raster is returned.
func Decode(b []byte, opts ...Option) (*Raster, error) {
	o := buildOptions(opts)

	marker, err := (&reader{buf: b}).uint8("endianness marker")
	if err != nil {
		return nil, err
	}

	order, err := Endian(marker).byteOrder()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	r := &reader{buf: b, off: 1, order: order}
	rast := &Raster{Endian: Endian(marker)}

	if rast.Version, err = r.uint16("version"); err != nil {
		return nil, err
	}

	if rast.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rast.Version)
	}

	numBands, err := r.uint16("band count")
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		dst  *float64
		name string
	}{
		{&rast.ScaleX, "scaleX"},
		{&rast.ScaleY, "scaleY"},
		{&rast.IPX, "ipX"},
		{&rast.IPY, "ipY"},
		{&rast.SkewX, "skewX"},
		{&rast.SkewY, "skewY"},
	} {
		if *f.dst, err = r.float64(f.name); err != nil {
			return nil, err
		}
	}

	if rast.SRID, err = r.int32("srid"); err != nil {
		return nil, err
	}

	if rast.Width, err = r.uint16("width"); err != nil {
		return nil, err
	}

	if rast.Height, err = r.uint16("height"); err != nil {
		return nil, err
	}

	if numBands == 0 {
		return nil, fmt.Errorf("%w: no bands", ErrMalformedRaster)
	}

	// Empty rasters have no bands; rejecting them here keeps a tiny input
	// from allocating a row slice per band.
	if rast.Width == 0 || rast.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d raster with %d bands", ErrMalformedRaster, rast.Width, rast.Height, numBands)
	}

	rast.Bands = make([]Band, numBands)

	for i := range rast.Bands {
		if rast.Bands[i], err = decodeBand(r, int(rast.Width), int(rast.Height), o.dialect); err != nil {
			return nil, fmt.Errorf("band %d: %w", i, err)
		}
	}

	if o.strict && r.remaining() > 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, r.remaining())
	}

	return rast, nil
}

// DecodeFromHex decodes the hex text produced by EncodeToHex or by PostGIS.
// Both letter cases are accepted, as is a leading `\x` as printed for bytea
// values.
func DecodeFromHex(s string, opts ...Option) (*Raster, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `\x`)

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}

	return Decode(b, opts...)
}

func decodeBand(r *reader, width, height int, d Dialect) (Band, error) {
	flags, err := r.uint8("band flags")
	if err != nil {
		return Band{}, err
	}

	pt, err := ParsePixelType(flags & flagPixelTypeMask)
	if err != nil {
		return Band{}, err
	}

	band := Band{IsNodataValue: flags&flagIsNodataValue != 0}
	hasNodata := flags&flagHasNodata != 0

	if flags&flagIsOutDB != 0 {
		band.Data, err = decodeOutDB(r, pt, hasNodata, d)
	} else {
		band.Data, err = decodeInMemory(r, pt, width, height, hasNodata, d)
	}

	if err != nil {
		return Band{}, err
	}

	return band, nil
}

func decodeOutDB(r *reader, pt PixelType, hasNodata bool, d Dialect) (*OutDBData, error) {
	data := &OutDBData{Type: pt}

	nodata, err := readNodata(r, hasNodata, d, func(what string) (float64, error) {
		return readSample(r, pt, what)
	})
	if err != nil {
		return nil, err
	}

	data.Nodata = nodata

	if data.BandIndex, err = r.uint8("out-db band index"); err != nil {
		return nil, err
	}

	if data.Path, err = r.cstring("out-db path"); err != nil {
		return nil, err
	}

	return data, nil
}

func decodeInMemory(r *reader, pt PixelType, width, height int, hasNodata bool, d Dialect) (InMemoryData, error) {
	if !pt.subByte() {
		if err := r.ensure(pt.Size()*(width*height+boolToInt(hasNodata || d == DialectPostGIS)), "pixel data"); err != nil {
			return nil, err
		}
	}

	switch pt {
	case PixelBool1:
		nodata, err := readNodata(r, hasNodata, d, r.bool)
		if err != nil {
			return nil, err
		}

		rows, err := readSubByte(r, width, height, pt.Bits(), d)
		if err != nil {
			return nil, err
		}

		data := &Bool1Data{Data: make([][]bool, height), Nodata: nodata}
		for i, row := range rows {
			data.Data[i] = make([]bool, width)
			for j, v := range row {
				data.Data[i][j] = v == 1
			}
		}

		return data, nil
	case PixelUInt2, PixelUInt4:
		mask := uint8(1<<pt.Bits() - 1)

		nodata, err := readNodata(r, hasNodata, d, func(what string) (uint8, error) {
			v, err := r.uint8(what)

			return v & mask, err
		})
		if err != nil {
			return nil, err
		}

		rows, err := readSubByte(r, width, height, pt.Bits(), d)
		if err != nil {
			return nil, err
		}

		if pt == PixelUInt2 {
			return &UInt2Data{Data: rows, Nodata: nodata}, nil
		}

		return &UInt4Data{Data: rows, Nodata: nodata}, nil
	case PixelInt8:
		return decodeGrid(r, width, height, hasNodata, d, r.int8, func(rows [][]int8, nodata *int8) InMemoryData {
			return &Int8Data{Data: rows, Nodata: nodata}
		})
	case PixelUInt8:
		return decodeGrid(r, width, height, hasNodata, d, r.uint8, func(rows [][]uint8, nodata *uint8) InMemoryData {
			return &UInt8Data{Data: rows, Nodata: nodata}
		})
	case PixelInt16:
		return decodeGrid(r, width, height, hasNodata, d, r.int16, func(rows [][]int16, nodata *int16) InMemoryData {
			return &Int16Data{Data: rows, Nodata: nodata}
		})
	case PixelUInt16:
		return decodeGrid(r, width, height, hasNodata, d, r.uint16, func(rows [][]uint16, nodata *uint16) InMemoryData {
			return &UInt16Data{Data: rows, Nodata: nodata}
		})
	case PixelInt32:
		return decodeGrid(r, width, height, hasNodata, d, r.int32, func(rows [][]int32, nodata *int32) InMemoryData {
			return &Int32Data{Data: rows, Nodata: nodata}
		})
	case PixelUInt32:
		return decodeGrid(r, width, height, hasNodata, d, r.uint32, func(rows [][]uint32, nodata *uint32) InMemoryData {
			return &UInt32Data{Data: rows, Nodata: nodata}
		})
	case PixelFloat32:
		return decodeGrid(r, width, height, hasNodata, d, r.float32, func(rows [][]float32, nodata *float32) InMemoryData {
			return &Float32Data{Data: rows, Nodata: nodata}
		})
	case PixelFloat64:
		return decodeGrid(r, width, height, hasNodata, d, r.float64, func(rows [][]float64, nodata *float64) InMemoryData {
			return &Float64Data{Data: rows, Nodata: nodata}
		})
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPixelType, pt)
}

func decodeGrid[T any](
	r *reader,
	width, height int,
	hasNodata bool,
	d Dialect,
	get func(what string) (T, error),
	build func(rows [][]T, nodata *T) InMemoryData,
) (InMemoryData, error) {
	nodata, err := readNodata(r, hasNodata, d, get)
	if err != nil {
		return nil, err
	}

	rows, err := readGrid(r, width, height, get)
	if err != nil {
		return nil, err
	}

	return build(rows, nodata), nil
}

// readNodata reads the nodata sample when the band declares one. In
// DialectPostGIS the sample is always present and is skipped when the flag
// is clear.
func readNodata[T any](r *reader, hasNodata bool, d Dialect, get func(what string) (T, error)) (*T, error) {
	if !hasNodata && d != DialectPostGIS {
		return nil, nil
	}

	v, err := get("nodata value")
	if err != nil {
		return nil, err
	}

	if !hasNodata {
		return nil, nil
	}

	return &v, nil
}

func readSample(r *reader, pt PixelType, what string) (float64, error) {
	switch pt {
	case PixelBool1, PixelUInt2, PixelUInt4:
		v, err := r.uint8(what)

		return float64(v & uint8(1<<pt.Bits()-1)), err
	case PixelUInt8:
		v, err := r.uint8(what)

		return float64(v), err
	case PixelInt8:
		v, err := r.int8(what)

		return float64(v), err
	case PixelInt16:
		v, err := r.int16(what)

		return float64(v), err
	case PixelUInt16:
		v, err := r.uint16(what)

		return float64(v), err
	case PixelInt32:
		v, err := r.int32(what)

		return float64(v), err
	case PixelUInt32:
		v, err := r.uint32(what)

		return float64(v), err
	case PixelFloat32:
		v, err := r.float32(what)

		return float64(v), err
	case PixelFloat64:
		return r.float64(what)
	}

	return 0, fmt.Errorf("%w: %s", ErrUnsupportedPixelType, pt)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
