package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/tangelo-labs/go-wkbraster"
	"github.com/tangelo-labs/go-wkbraster/internal/config"
)

var rasterFile string

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)

	encodeCmd.Flags().StringVarP(&rasterFile, "file", "f", "", "YAML raster description (default is a 2x2 sample raster)")
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a raster description to WKB hex",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rast, err := loadRaster()
		if err != nil {
			return err
		}

		text, err := wkbraster.EncodeToHex(rast, codecOptions()...)
		if err != nil {
			return fmt.Errorf("encode raster: %w", err)
		}

		fmt.Fprintln(outWriter, text)

		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode [HEX]",
	Short: "Decode WKB hex given as argument or on stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string

		if len(args) == 1 {
			text = args[0]
		} else {
			b, err := io.ReadAll(inReader)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			text = string(b)
		}

		rast, err := wkbraster.DecodeFromHex(text, codecOptions()...)
		if err != nil {
			return fmt.Errorf("decode raster: %w", err)
		}

		return printRaster(rast)
	},
}

func loadRaster() (*wkbraster.Raster, error) {
	if rasterFile == "" {
		return sampleRaster(), nil
	}

	return config.ReadRasterFile(rasterFile)
}

// sampleRaster is a 2x2 single band raster placed in EPSG:4326.
func sampleRaster() *wkbraster.Raster {
	return &wkbraster.Raster{
		Endian: wkbraster.EndianBig,
		ScaleX: 500,
		ScaleY: 1,
		IPX:    49.89,
		IPY:    8.56,
		SRID:   4326,
		Width:  2,
		Height: 2,
		Bands: []wkbraster.Band{
			{Data: &wkbraster.UInt8Data{Data: [][]uint8{{34, 40}, {56, 0}}}},
		},
	}
}

type bandView struct {
	Type          string      `json:"type"`
	IsNodataValue bool        `json:"isNodataValue"`
	Nodata        interface{} `json:"nodata,omitempty"`
	OutDBIndex    *uint8      `json:"outdbIndex,omitempty"`
	OutDBPath     string      `json:"outdbPath,omitempty"`
	Rows          interface{} `json:"rows,omitempty"`
}

// rasterView is the JSON rendering of a raster. Header floats are
// interface{} so that non-finite values can be shown as strings.
type rasterView struct {
	Endian   string      `json:"endian"`
	Version  uint16      `json:"version"`
	ScaleX   interface{} `json:"scaleX"`
	ScaleY   interface{} `json:"scaleY"`
	IPX      interface{} `json:"ipX"`
	IPY      interface{} `json:"ipY"`
	SkewX    interface{} `json:"skewX"`
	SkewY    interface{} `json:"skewY"`
	SRID     int32       `json:"srid"`
	Width    uint16      `json:"width"`
	Height   uint16      `json:"height"`
	Envelope string      `json:"envelope,omitempty"`
	Bands    []bandView  `json:"bands"`
}

func newRasterView(r *wkbraster.Raster) rasterView {
	v := rasterView{
		Endian:  r.Endian.String(),
		Version: r.Version,
		ScaleX:  finite(r.ScaleX),
		ScaleY:  finite(r.ScaleY),
		IPX:     finite(r.IPX),
		IPY:     finite(r.IPY),
		SkewX:   finite(r.SkewX),
		SkewY:   finite(r.SkewY),
		SRID:    r.SRID,
		Width:   r.Width,
		Height:  r.Height,
	}

	if env, err := r.EnvelopeWKT(); err == nil {
		v.Envelope = env
	}

	for _, b := range r.Bands {
		bv := bandView{
			Type:          b.Data.PixelType().String(),
			IsNodataValue: b.IsNodataValue,
		}

		if out, ok := b.Data.(*wkbraster.OutDBData); ok {
			idx := out.BandIndex
			bv.OutDBIndex = &idx
			bv.OutDBPath = out.Path

			bv.Nodata = deref(out.Nodata)
		} else {
			bv.Nodata, bv.Rows = inMemoryView(b.Data)
		}

		v.Bands = append(v.Bands, bv)
	}

	return v
}

// inMemoryView unwraps the typed grid and nodata of an in-memory band. Byte
// grids are widened so that JSON does not render them as base64.
func inMemoryView(d wkbraster.DataSource) (nodata interface{}, rows interface{}) {
	switch d := d.(type) {
	case *wkbraster.Bool1Data:
		return deref(d.Nodata), d.Data
	case *wkbraster.UInt2Data:
		return deref(d.Nodata), widen(d.Data)
	case *wkbraster.UInt4Data:
		return deref(d.Nodata), widen(d.Data)
	case *wkbraster.UInt8Data:
		return deref(d.Nodata), widen(d.Data)
	case *wkbraster.Int8Data:
		return deref(d.Nodata), d.Data
	case *wkbraster.Int16Data:
		return deref(d.Nodata), d.Data
	case *wkbraster.UInt16Data:
		return deref(d.Nodata), d.Data
	case *wkbraster.Int32Data:
		return deref(d.Nodata), d.Data
	case *wkbraster.UInt32Data:
		return deref(d.Nodata), d.Data
	case *wkbraster.Float32Data:
		return deref(d.Nodata), finite32(d.Data)
	case *wkbraster.Float64Data:
		return deref(d.Nodata), finite64(d.Data)
	}

	return nil, nil
}

// deref returns the pointed value, with non-finite floats as strings.
func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}

	switch v := any(*p).(type) {
	case float32:
		return finite(float64(v))
	case float64:
		return finite(v)
	}

	return *p
}

func widen(rows [][]uint8) [][]uint16 {
	out := make([][]uint16, len(rows))
	for i, row := range rows {
		out[i] = make([]uint16, len(row))
		for j, v := range row {
			out[i][j] = uint16(v)
		}
	}

	return out
}

// finite32 and finite64 render non-finite samples as strings, which JSON
// numbers cannot carry.
func finite32(rows [][]float32) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = make([]interface{}, len(row))
		for j, v := range row {
			out[i][j] = finite(float64(v))
		}
	}

	return out
}

func finite64(rows [][]float64) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = make([]interface{}, len(row))
		for j, v := range row {
			out[i][j] = finite(v)
		}
	}

	return out
}

func finite(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strings.ToLower(fmt.Sprint(v))
	}

	return v
}

func printRaster(r *wkbraster.Raster) error {
	view := newRasterView(r)

	f := prettyjson.NewFormatter()
	f.DisabledColor = outWriter != os.Stdout

	b, err := f.Marshal(view)
	if err != nil {
		return fmt.Errorf("render raster: %w", err)
	}

	fmt.Fprintln(colorableOut, string(b))

	return nil
}
