package wkbraster

import "fmt"

// NewInMemoryData builds the in-memory variant for pt from samples given as
// float64, the way text formats carry them. Every sample and the nodata value
// must be exactly representable by pt; ErrMalformedRaster is returned
// otherwise.
func NewInMemoryData(pt PixelType, rows [][]float64, nodata *float64) (InMemoryData, error) {
	if !pt.Valid() {
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedPixelType, uint8(pt))
	}

	if nodata != nil && !pt.represents(*nodata) {
		return nil, fmt.Errorf("%w: nodata %v does not fit %s", ErrMalformedRaster, *nodata, pt)
	}

	for i, row := range rows {
		for j, v := range row {
			if !pt.represents(v) {
				return nil, fmt.Errorf("%w: sample (%d,%d)=%v does not fit %s", ErrMalformedRaster, i, j, v, pt)
			}
		}
	}

	switch pt {
	case PixelBool1:
		conv := func(v float64) bool { return v != 0 }

		return &Bool1Data{Data: convertGrid(rows, conv), Nodata: convertPtr(nodata, conv)}, nil
	case PixelUInt2:
		return &UInt2Data{Data: convertGrid(rows, toUint8), Nodata: convertPtr(nodata, toUint8)}, nil
	case PixelUInt4:
		return &UInt4Data{Data: convertGrid(rows, toUint8), Nodata: convertPtr(nodata, toUint8)}, nil
	case PixelInt8:
		conv := func(v float64) int8 { return int8(v) }

		return &Int8Data{Data: convertGrid(rows, conv), Nodata: convertPtr(nodata, conv)}, nil
	case PixelUInt8:
		return &UInt8Data{Data: convertGrid(rows, toUint8), Nodata: convertPtr(nodata, toUint8)}, nil
	case PixelInt16:
		conv := func(v float64) int16 { return int16(v) }

		return &Int16Data{Data: convertGrid(rows, conv), Nodata: convertPtr(nodata, conv)}, nil
	case PixelUInt16:
		conv := func(v float64) uint16 { return uint16(v) }

		return &UInt16Data{Data: convertGrid(rows, conv), Nodata: convertPtr(nodata, conv)}, nil
	case PixelInt32:
		conv := func(v float64) int32 { return int32(v) }

		return &Int32Data{Data: convertGrid(rows, conv), Nodata: convertPtr(nodata, conv)}, nil
	case PixelUInt32:
		conv := func(v float64) uint32 { return uint32(v) }

		return &UInt32Data{Data: convertGrid(rows, conv), Nodata: convertPtr(nodata, conv)}, nil
	case PixelFloat32:
		conv := func(v float64) float32 { return float32(v) }

		return &Float32Data{Data: convertGrid(rows, conv), Nodata: convertPtr(nodata, conv)}, nil
	default:
		conv := func(v float64) float64 { return v }

		return &Float64Data{Data: convertGrid(rows, conv), Nodata: convertPtr(nodata, conv)}, nil
	}
}

func toUint8(v float64) uint8 { return uint8(v) }

func convertGrid[T any](rows [][]float64, conv func(float64) T) [][]T {
	out := make([][]T, len(rows))

	for i, row := range rows {
		out[i] = make([]T, len(row))

		for j, v := range row {
			out[i][j] = conv(v)
		}
	}

	return out
}

func convertPtr[T any](v *float64, conv func(float64) T) *T {
	if v == nil {
		return nil
	}

	out := conv(*v)

	return &out
}
