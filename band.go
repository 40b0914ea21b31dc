package wkbraster

import (
	"fmt"
	"strings"
)

// DataSource tells where the pixels of a band live. It is implemented by the
// in-memory variants (*UInt8Data, *Float32Data, ...) and by *OutDBData.
type DataSource interface {
	// PixelType is the sample type persisted in the band flags.
	PixelType() PixelType

	dataSource()
}

// InMemoryData is a band payload carried inline. There is exactly one
// implementation per PixelType, each holding Data as Height rows of Width
// samples and an optional Nodata sentinel of the same sample type.
type InMemoryData interface {
	DataSource

	hasNodata() bool
	validate(width, height int) error
	encode(w *writer, d Dialect)
}

// OutDBData references pixels stored in an external raster file.
type OutDBData struct {
	Type PixelType

	// Nodata is the sentinel of the external band, nil when there is none.
	// It must be representable by Type.
	Nodata *float64

	// BandIndex is the band number inside the external file.
	BandIndex uint8
	Path      string
}

// PixelType implements DataSource.
func (d *OutDBData) PixelType() PixelType { return d.Type }

func (*OutDBData) dataSource() {}

func (d *OutDBData) validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("%w: tag %d", ErrUnsupportedPixelType, uint8(d.Type))
	}

	if d.Nodata != nil && !d.Type.represents(*d.Nodata) {
		return fmt.Errorf("%w: nodata %v does not fit %s", ErrMalformedRaster, *d.Nodata, d.Type)
	}

	if strings.IndexByte(d.Path, 0) >= 0 {
		return fmt.Errorf("%w: out-db path contains a NUL byte", ErrMalformedRaster)
	}

	return nil
}

// Bool1Data holds 1-bit samples.
type Bool1Data struct {
	Data   [][]bool
	Nodata *bool
}

// UInt2Data holds 2-bit unsigned samples, each in the range [0, 3].
type UInt2Data struct {
	Data   [][]uint8
	Nodata *uint8
}

// UInt4Data holds 4-bit unsigned samples, each in the range [0, 15].
type UInt4Data struct {
	Data   [][]uint8
	Nodata *uint8
}

// Int8Data holds 8-bit signed samples.
type Int8Data struct {
	Data   [][]int8
	Nodata *int8
}

// UInt8Data holds 8-bit unsigned samples.
type UInt8Data struct {
	Data   [][]uint8
	Nodata *uint8
}

// Int16Data holds 16-bit signed samples.
type Int16Data struct {
	Data   [][]int16
	Nodata *int16
}

// UInt16Data holds 16-bit unsigned samples.
type UInt16Data struct {
	Data   [][]uint16
	Nodata *uint16
}

// Int32Data holds 32-bit signed samples.
type Int32Data struct {
	Data   [][]int32
	Nodata *int32
}

// UInt32Data holds 32-bit unsigned samples.
type UInt32Data struct {
	Data   [][]uint32
	Nodata *uint32
}

// Float32Data holds 32-bit float samples.
type Float32Data struct {
	Data   [][]float32
	Nodata *float32
}

// Float64Data holds 64-bit float samples.
type Float64Data struct {
	Data   [][]float64
	Nodata *float64
}

var (
	_ InMemoryData = (*Bool1Data)(nil)
	_ InMemoryData = (*UInt2Data)(nil)
	_ InMemoryData = (*UInt4Data)(nil)
	_ InMemoryData = (*Int8Data)(nil)
	_ InMemoryData = (*UInt8Data)(nil)
	_ InMemoryData = (*Int16Data)(nil)
	_ InMemoryData = (*UInt16Data)(nil)
	_ InMemoryData = (*Int32Data)(nil)
	_ InMemoryData = (*UInt32Data)(nil)
	_ InMemoryData = (*Float32Data)(nil)
	_ InMemoryData = (*Float64Data)(nil)
	_ DataSource   = (*OutDBData)(nil)
)

func (*Bool1Data) PixelType() PixelType   { return PixelBool1 }
func (*UInt2Data) PixelType() PixelType   { return PixelUInt2 }
func (*UInt4Data) PixelType() PixelType   { return PixelUInt4 }
func (*Int8Data) PixelType() PixelType    { return PixelInt8 }
func (*UInt8Data) PixelType() PixelType   { return PixelUInt8 }
func (*Int16Data) PixelType() PixelType   { return PixelInt16 }
func (*UInt16Data) PixelType() PixelType  { return PixelUInt16 }
func (*Int32Data) PixelType() PixelType   { return PixelInt32 }
func (*UInt32Data) PixelType() PixelType  { return PixelUInt32 }
func (*Float32Data) PixelType() PixelType { return PixelFloat32 }
func (*Float64Data) PixelType() PixelType { return PixelFloat64 }

func (*Bool1Data) dataSource()   {}
func (*UInt2Data) dataSource()   {}
func (*UInt4Data) dataSource()   {}
func (*Int8Data) dataSource()    {}
func (*UInt8Data) dataSource()   {}
func (*Int16Data) dataSource()   {}
func (*UInt16Data) dataSource()  {}
func (*Int32Data) dataSource()   {}
func (*UInt32Data) dataSource()  {}
func (*Float32Data) dataSource() {}
func (*Float64Data) dataSource() {}

func (d *Bool1Data) hasNodata() bool   { return d.Nodata != nil }
func (d *UInt2Data) hasNodata() bool   { return d.Nodata != nil }
func (d *UInt4Data) hasNodata() bool   { return d.Nodata != nil }
func (d *Int8Data) hasNodata() bool    { return d.Nodata != nil }
func (d *UInt8Data) hasNodata() bool   { return d.Nodata != nil }
func (d *Int16Data) hasNodata() bool   { return d.Nodata != nil }
func (d *UInt16Data) hasNodata() bool  { return d.Nodata != nil }
func (d *Int32Data) hasNodata() bool   { return d.Nodata != nil }
func (d *UInt32Data) hasNodata() bool  { return d.Nodata != nil }
func (d *Float32Data) hasNodata() bool { return d.Nodata != nil }
func (d *Float64Data) hasNodata() bool { return d.Nodata != nil }

func (d *Bool1Data) validate(width, height int) error {
	return checkGrid(d.Data, width, height)
}

func (d *UInt2Data) validate(width, height int) error {
	return checkSubByte(d.Data, d.Nodata, PixelUInt2, width, height)
}

func (d *UInt4Data) validate(width, height int) error {
	return checkSubByte(d.Data, d.Nodata, PixelUInt4, width, height)
}

func (d *Int8Data) validate(width, height int) error    { return checkGrid(d.Data, width, height) }
func (d *UInt8Data) validate(width, height int) error   { return checkGrid(d.Data, width, height) }
func (d *Int16Data) validate(width, height int) error   { return checkGrid(d.Data, width, height) }
func (d *UInt16Data) validate(width, height int) error  { return checkGrid(d.Data, width, height) }
func (d *Int32Data) validate(width, height int) error   { return checkGrid(d.Data, width, height) }
func (d *UInt32Data) validate(width, height int) error  { return checkGrid(d.Data, width, height) }
func (d *Float32Data) validate(width, height int) error { return checkGrid(d.Data, width, height) }
func (d *Float64Data) validate(width, height int) error { return checkGrid(d.Data, width, height) }

func (d *Bool1Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.bool)

	rows := make([][]uint8, len(d.Data))
	for i, row := range d.Data {
		rows[i] = make([]uint8, len(row))

		for j, v := range row {
			if v {
				rows[i][j] = 1
			}
		}
	}

	writeSubByte(w, rows, PixelBool1.Bits(), dl)
}

func (d *UInt2Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.uint8)
	writeSubByte(w, d.Data, PixelUInt2.Bits(), dl)
}

func (d *UInt4Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.uint8)
	writeSubByte(w, d.Data, PixelUInt4.Bits(), dl)
}

func (d *Int8Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.int8)
	writeGrid(d.Data, w.int8)
}

func (d *UInt8Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.uint8)
	writeGrid(d.Data, w.uint8)
}

func (d *Int16Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.int16)
	writeGrid(d.Data, w.int16)
}

func (d *UInt16Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.uint16)
	writeGrid(d.Data, w.uint16)
}

func (d *Int32Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.int32)
	writeGrid(d.Data, w.int32)
}

func (d *UInt32Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.uint32)
	writeGrid(d.Data, w.uint32)
}

func (d *Float32Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.float32)
	writeGrid(d.Data, w.float32)
}

func (d *Float64Data) encode(w *writer, dl Dialect) {
	writeNodata(d.Nodata, dl, w.float64)
	writeGrid(d.Data, w.float64)
}

func checkGrid[T any](rows [][]T, width, height int) error {
	if len(rows) != height {
		return fmt.Errorf("%w: %d rows, raster height is %d", ErrMalformedRaster, len(rows), height)
	}

	for i, row := range rows {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d samples, raster width is %d", ErrMalformedRaster, i, len(row), width)
		}
	}

	return nil
}

func checkSubByte(rows [][]uint8, nodata *uint8, pt PixelType, width, height int) error {
	if err := checkGrid(rows, width, height); err != nil {
		return err
	}

	limit := uint8(1<<pt.Bits() - 1)

	if nodata != nil && *nodata > limit {
		return fmt.Errorf("%w: nodata %d exceeds %s range", ErrMalformedRaster, *nodata, pt)
	}

	for i, row := range rows {
		for j, v := range row {
			if v > limit {
				return fmt.Errorf("%w: sample (%d,%d)=%d exceeds %s range", ErrMalformedRaster, i, j, v, pt)
			}
		}
	}

	return nil
}

// writeNodata emits the nodata sample. PostGIS always reserves room for it,
// so an absent sentinel is written as the zero value in that dialect.
func writeNodata[T any](nodata *T, d Dialect, put func(T)) {
	if nodata != nil {
		put(*nodata)

		return
	}

	if d == DialectPostGIS {
		var zero T
		put(zero)
	}
}

func writeGrid[T any](rows [][]T, put func(T)) {
	for _, row := range rows {
		for _, v := range row {
			put(v)
		}
	}
}
