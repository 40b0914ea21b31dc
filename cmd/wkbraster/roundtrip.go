package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tangelo-labs/go-wkbraster"
)

const roundtripKey = "roundtrip"

func init() {
	rootCmd.AddCommand(roundtripCmd)

	roundtripCmd.Flags().StringVarP(&rasterFile, "file", "f", "", "YAML raster description (default is a 2x2 sample raster)")
}

// roundtripCmd writes a raster through the store, reads it back and checks
// that both encodings agree.
var roundtripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Save a raster, load it back and compare the encodings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rast, err := loadRaster()
		if err != nil {
			return err
		}

		want, err := wkbraster.EncodeToHex(rast, codecOptions()...)
		if err != nil {
			return fmt.Errorf("encode raster: %w", err)
		}

		fmt.Fprintf(outWriter, "Encoded:  %s\n", want)

		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := repo.Save(cmd.Context(), roundtripKey, rast); err != nil {
			return fmt.Errorf("save: %w", err)
		}

		loaded, err := repo.Load(cmd.Context(), roundtripKey)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}

		// Stores backed by a database may answer in the server byte order.
		if loaded.Endian != rast.Endian {
			fmt.Fprintf(outWriter, "Store answered in %s endian, comparing in %s\n", loaded.Endian, rast.Endian)
			loaded.Endian = rast.Endian
		}

		got, err := wkbraster.EncodeToHex(loaded, codecOptions()...)
		if err != nil {
			return fmt.Errorf("re-encode raster: %w", err)
		}

		fmt.Fprintf(outWriter, "Returned: %s\n", got)

		if got != want {
			return fmt.Errorf("roundtrip mismatch through %s store", cfg.Store)
		}

		fmt.Fprintln(outWriter, "Roundtrip OK")

		return nil
	},
}
