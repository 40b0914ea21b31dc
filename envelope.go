package wkbraster

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// PixelToWorld applies the raster geotransform to a pixel corner position.
func (r *Raster) PixelToWorld(col, row float64) (x, y float64) {
	x = r.IPX + col*r.ScaleX + row*r.SkewX
	y = r.IPY + col*r.SkewY + row*r.ScaleY

	return x, y
}

// Envelope returns the footprint of the raster as a closed polygon in the
// raster SRID, walking the corners upper-left, upper-right, lower-right,
// lower-left.
func (r *Raster) Envelope() (*geom.Polygon, error) {
	w, h := float64(r.Width), float64(r.Height)
	ring := make([]geom.Coord, 0, 5)

	for _, c := range [][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}, {0, 0}} {
		x, y := r.PixelToWorld(c[0], c[1])
		ring = append(ring, geom.Coord{x, y})
	}

	p, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return nil, fmt.Errorf("building envelope: %w", err)
	}

	return p.SetSRID(int(r.SRID)), nil
}

// EnvelopeWKT is Envelope rendered as WKT.
func (r *Raster) EnvelopeWKT() (string, error) {
	p, err := r.Envelope()
	if err != nil {
		return "", err
	}

	return wkt.Marshal(p)
}
