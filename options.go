package wkbraster

import "fmt"

// Dialect selects the layout details that differ between the compact layout
// and the one a PostGIS server produces and accepts.
type Dialect uint8

const (
	// DialectCompact writes the nodata sample only when the band declares one
	// and bit-packs 1-, 2- and 4-bit samples. See PackRowBytes.
	DialectCompact Dialect = iota

	// DialectPostGIS always writes a nodata sample, zero when the band has
	// none, and stores every sub-byte sample in a whole byte.
	DialectPostGIS
)

// String implements fmt.Stringer.
func (d Dialect) String() string {
	switch d {
	case DialectCompact:
		return "compact"
	case DialectPostGIS:
		return "postgis"
	}

	return fmt.Sprintf("Dialect(%d)", uint8(d))
}

// ParseDialect is the inverse of Dialect.String. An empty name selects
// DialectCompact.
func ParseDialect(name string) (Dialect, error) {
	switch name {
	case "", "compact":
		return DialectCompact, nil
	case "postgis":
		return DialectPostGIS, nil
	}

	return 0, fmt.Errorf("unknown dialect %q", name)
}

type options struct {
	dialect Dialect
	strict  bool
}

// Option configures Encode and Decode.
type Option func(*options)

// WithDialect selects the byte layout. Encoder and decoder must agree on it.
func WithDialect(d Dialect) Option {
	return func(o *options) {
		o.dialect = d
	}
}

// WithStrict makes Decode fail with ErrTrailingData when bytes remain after
// the last declared band. It has no effect on Encode.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

func buildOptions(opts []Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
