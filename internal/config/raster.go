package config

import (
	"fmt"
	"io"
	"os"

	"github.com/tangelo-labs/go-wkbraster"
	yaml "gopkg.in/yaml.v3"
)

// OutDB locates the pixels of an out-of-database band.
type OutDB struct {
	Index uint8  `yaml:"index"`
	Path  string `yaml:"path"`
}

// BandFile describes one band of a RasterFile. Exactly one of Rows and OutDB
// is expected.
type BandFile struct {
	Type     string      `yaml:"type"`
	Nodata   *float64    `yaml:"nodata"`
	IsNodata bool        `yaml:"is-nodata"`
	Rows     [][]float64 `yaml:"rows"`
	OutDB    *OutDB      `yaml:"outdb"`
}

// RasterFile is the YAML description of a raster accepted by the CLI.
type RasterFile struct {
	Endian string     `yaml:"endian"`
	ScaleX float64    `yaml:"scale-x"`
	ScaleY float64    `yaml:"scale-y"`
	IPX    float64    `yaml:"ip-x"`
	IPY    float64    `yaml:"ip-y"`
	SkewX  float64    `yaml:"skew-x"`
	SkewY  float64    `yaml:"skew-y"`
	SRID   int32      `yaml:"srid"`
	Width  uint16     `yaml:"width"`
	Height uint16     `yaml:"height"`
	Bands  []BandFile `yaml:"bands"`
}

// ReadRasterFile parses a raster description from path.
func ReadRasterFile(path string) (*wkbraster.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raster file: %w", err)
	}
	defer f.Close()

	return DecodeRasterFile(f)
}

// DecodeRasterFile parses a raster description and converts it to a raster.
// Structural checks are left to wkbraster.Encode.
func DecodeRasterFile(r io.Reader) (*wkbraster.Raster, error) {
	var rf RasterFile

	if err := yaml.NewDecoder(r).Decode(&rf); err != nil {
		return nil, fmt.Errorf("decode raster file: %w", err)
	}

	return rf.Raster()
}

// Raster converts the description.
func (rf RasterFile) Raster() (*wkbraster.Raster, error) {
	out := &wkbraster.Raster{
		ScaleX: rf.ScaleX,
		ScaleY: rf.ScaleY,
		IPX:    rf.IPX,
		IPY:    rf.IPY,
		SkewX:  rf.SkewX,
		SkewY:  rf.SkewY,
		SRID:   rf.SRID,
		Width:  rf.Width,
		Height: rf.Height,
	}

	switch rf.Endian {
	case "", "big":
		out.Endian = wkbraster.EndianBig
	case "little":
		out.Endian = wkbraster.EndianLittle
	default:
		return nil, fmt.Errorf("unknown endian %q", rf.Endian)
	}

	for i, bf := range rf.Bands {
		pt, err := wkbraster.PixelTypeByName(bf.Type)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", i, err)
		}

		band := wkbraster.Band{IsNodataValue: bf.IsNodata}

		if bf.OutDB != nil {
			band.Data = &wkbraster.OutDBData{
				Type:      pt,
				Nodata:    bf.Nodata,
				BandIndex: bf.OutDB.Index,
				Path:      bf.OutDB.Path,
			}
		} else {
			if band.Data, err = wkbraster.NewInMemoryData(pt, bf.Rows, bf.Nodata); err != nil {
				return nil, fmt.Errorf("band %d: %w", i, err)
			}
		}

		out.Bands = append(out.Bands, band)
	}

	return out, nil
}
