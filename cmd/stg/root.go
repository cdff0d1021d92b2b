package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/stg/internal/config"
)

// Global flags
var (
	verbose    bool
	configPath string
)

// cfg is the configuration resolved before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "stg",
	Short: "Hide payloads in images, audio and video frames",
	Long: `stg hides an arbitrary file in the low bits of a cover image, 16-bit PCM audio
file or directory of video frames, in an order chosen by a numeric key.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}

		var err error
		cfg, err = config.Load(configPath)
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
}
