package wkbraster

import (
	"fmt"
	"math"
)

// PixelType identifies the sample type of a band. Values are the tags stored
// in the lower four bits of the band flag byte and match PostGIS rt_pixtype.
type PixelType uint8

const (
	PixelBool1   PixelType = 0  // 1-bit boolean
	PixelUInt2   PixelType = 1  // 2-bit unsigned integer
	PixelUInt4   PixelType = 2  // 4-bit unsigned integer
	PixelInt8    PixelType = 3  // 8-bit signed integer
	PixelUInt8   PixelType = 4  // 8-bit unsigned integer
	PixelInt16   PixelType = 5  // 16-bit signed integer
	PixelUInt16  PixelType = 6  // 16-bit unsigned integer
	PixelInt32   PixelType = 7  // 32-bit signed integer
	PixelUInt32  PixelType = 8  // 32-bit unsigned integer
	PixelFloat32 PixelType = 10 // 32-bit float
	PixelFloat64 PixelType = 11 // 64-bit float
)

type pixelInfo struct {
	name string
	bits int
	min  float64
	max  float64
}

var pixelInfos = map[PixelType]pixelInfo{
	PixelBool1:   {"1BB", 1, 0, 1},
	PixelUInt2:   {"2BUI", 2, 0, 3},
	PixelUInt4:   {"4BUI", 4, 0, 15},
	PixelInt8:    {"8BSI", 8, -1 << 7, 1<<7 - 1},
	PixelUInt8:   {"8BUI", 8, 0, 1<<8 - 1},
	PixelInt16:   {"16BSI", 16, -1 << 15, 1<<15 - 1},
	PixelUInt16:  {"16BUI", 16, 0, 1<<16 - 1},
	PixelInt32:   {"32BSI", 32, -1 << 31, 1<<31 - 1},
	PixelUInt32:  {"32BUI", 32, 0, 1<<32 - 1},
	PixelFloat32: {"32BF", 32, 0, 0},
	PixelFloat64: {"64BF", 64, 0, 0},
}

// ParsePixelType maps a wire tag to a PixelType.
func ParsePixelType(tag uint8) (PixelType, error) {
	pt := PixelType(tag)
	if !pt.Valid() {
		return 0, fmt.Errorf("%w: tag %d", ErrUnsupportedPixelType, tag)
	}

	return pt, nil
}

// PixelTypeByName resolves the PostGIS name of a pixel type ("8BUI", "32BF").
func PixelTypeByName(name string) (PixelType, error) {
	for pt, info := range pixelInfos {
		if info.name == name {
			return pt, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedPixelType, name)
}

// Valid reports whether pt is one of the known pixel types.
func (pt PixelType) Valid() bool {
	_, ok := pixelInfos[pt]

	return ok
}

// String returns the PostGIS name of the pixel type.
func (pt PixelType) String() string {
	if info, ok := pixelInfos[pt]; ok {
		return info.name
	}

	return fmt.Sprintf("PixelType(%d)", uint8(pt))
}

// Bits is the number of significant bits of one sample.
func (pt PixelType) Bits() int {
	return pixelInfos[pt].bits
}

// Size is the number of bytes a single sample (and the nodata value) takes
// when stored unpacked.
func (pt PixelType) Size() int {
	bits := pt.Bits()
	if bits < 8 {
		return 1
	}

	return bits / 8
}

func (pt PixelType) subByte() bool {
	return pt.Bits() < 8
}

// represents reports whether v can be stored as a sample of this type without
// losing information.
func (pt PixelType) represents(v float64) bool {
	switch pt {
	case PixelFloat64:
		return true
	case PixelFloat32:
		return math.IsNaN(v) || float64(float32(v)) == v
	}

	info := pixelInfos[pt]

	return v >= info.min && v <= info.max && v == math.Trunc(v)
}
