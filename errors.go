package wkbraster

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRaster is returned by Encode when the raster violates one of
	// the model invariants: no bands, bands of different size, ragged rows or
	// samples that do not fit the band pixel type.
	ErrMalformedRaster = errors.New("malformed raster")

	// ErrUnsupportedPixelType is returned when a pixel type tag has no known
	// mapping, in either direction.
	ErrUnsupportedPixelType = errors.New("unsupported pixel type")

	// ErrInvalidHeader is returned by Decode when the raster header cannot be
	// interpreted, e.g. an unknown endianness marker.
	ErrInvalidHeader = errors.New("invalid raster header")

	// ErrUnsupportedVersion is returned by Decode for a format version other
	// than the supported one. It also matches ErrInvalidHeader.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrInvalidHeader)

	// ErrUnexpectedEndOfInput is returned by Decode when the input ends before
	// the last declared field.
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")

	// ErrTrailingData is returned by Decode in strict mode when bytes remain
	// after the last declared band.
	ErrTrailingData = errors.New("trailing data after last band")

	// ErrInvalidHex is returned by DecodeFromHex when the text is not valid
	// hexadecimal.
	ErrInvalidHex = errors.New("invalid hex string")
)

var (
	// ErrItemNotFound whenever a key is not present in a store.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidValue usually returned when a store rejects a value.
	ErrInvalidValue = errors.New("invalid value")
)
