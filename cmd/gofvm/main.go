package main

import (
	"fmt"
	"os"

	"gofvm/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	debug   bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "gofvm",
	Short:         "gofvm - explicit-state model checking of omega-regular properties",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Read(cfgFile)
		if err != nil {
			return err
		}
		if debug {
			cfg.Log.Level = "debug"
			cfg.Log.Development = true
		}
		logger, err = cfg.Logger()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log at debug level with the development logger")
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
