package mcache

import (
	"fmt"

	"github.com/tangelo-labs/go-wkbraster"
)

// checkText rejects values that cannot hold a raster; even a one band 1x1
// raster encodes to more than the header.
func checkText(key, text string) error {
	if text == "" {
		return fmt.Errorf("%w: empty raster text for key %s", wkbraster.ErrInvalidValue, key)
	}

	return nil
}
