package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
	"github.com/tangelo-labs/go-wkbraster"
	"github.com/tangelo-labs/go-wkbraster/internal/config"
	"go.uber.org/zap"
)

var (
	outWriter io.Writer = os.Stdout
	errWriter io.Writer = os.Stderr
	inReader  io.Reader = os.Stdin

	colorableOut io.Writer = colorable.NewColorableStdout()
)

var rootCmd = &cobra.Command{
	Use:          "wkbraster",
	Short:        "Encode, decode and store PostGIS WKB rasters",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		outWriter = cmd.OutOrStdout()
		errWriter = cmd.ErrOrStderr()
		inReader = cmd.InOrStdin()

		if outWriter != os.Stdout {
			colorableOut = outWriter
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	cfg     config.Config
	logger  = zap.NewNop()
	dialect wkbraster.Dialect
)

var (
	cfgFile      string
	dialectFlag  string
	storeFlag    string
	strictDecode bool
	verbose      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wkbraster/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dialectFlag, "dialect", "", "wire dialect: compact or postgis (overrides config)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "store backend: memory, redis or postgis (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&strictDecode, "strict", false, "reject bytes after the last band")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log store and codec activity to stderr")
	cobra.OnInitialize(onInit)
}

func onInit() {
	var err error

	cfg, err = config.ReadConfig(cfgFile)
	if err != nil {
		errorExit("Invalid config: %v", err)
	}

	// Any set flags override the configuration
	if dialectFlag != "" {
		cfg.Dialect = dialectFlag
	}

	if storeFlag != "" {
		cfg.Store = storeFlag
	}

	// PostGIS always writes the nodata slot and unpacked sub-byte samples.
	if cfg.Dialect == "" && cfg.Store == config.StorePostGIS {
		cfg.Dialect = wkbraster.DialectPostGIS.String()
	}

	if err := cfg.Validate(); err != nil {
		errorExit("Invalid config: %v", err)
	}

	if dialect, err = wkbraster.ParseDialect(cfg.Dialect); err != nil {
		errorExit("Invalid dialect: %v", err)
	}

	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			errorExit("Unable to build logger: %v", err)
		}
	}
}

func codecOptions() []wkbraster.Option {
	opts := []wkbraster.Option{wkbraster.WithDialect(dialect)}
	if strictDecode {
		opts = append(opts, wkbraster.WithStrict())
	}

	return opts
}

func errorExit(format string, a ...interface{}) {
	fmt.Fprintf(errWriter, format+"\n", a...)
	os.Exit(1)
}
