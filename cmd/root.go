package cmd

import (
	"fmt"
	"os"

	"cmacbench/config"
	"cmacbench/logger"

	"github.com/spf13/cobra"
)

// cfg is loaded once before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cmacbench",
	Short: "CMACBench is a benchmark of computational methods for animal acoustic communication.",
	Long: `CMACBench prepares and serves the CMACBench dataset: audio recordings of
animal acoustic communication with segment annotations at one or more units
(syllables, calls, phonemes), plus tools to evaluate segmentation methods
against it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     cfg.LogMaxAge,
			Compress:   true,
		})
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
