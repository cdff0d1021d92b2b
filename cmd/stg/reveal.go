package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/stg/internal/media"
	"github.com/andresmejia3/stg/internal/pipeline"
	"github.com/andresmejia3/stg/internal/sniff"
	"github.com/andresmejia3/stg/pkg/stego"
)

var (
	revealFlags struct {
		stegoFlags
		Input   string
		Out     string
		MaxBits int
		NoProbe bool
	}
)

var revealCmd = &cobra.Command{
	Use:   "reveal",
	Short: "Reveal a payload hidden in a stego file",
	Run: func(cmd *cobra.Command, args []string) {
		c, params, err := revealFlags.resolve(cmd)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid parameters")
		}
		params.MaxBits = revealFlags.MaxBits
		if revealFlags.NoProbe {
			params.Probe = false
		}

		cover, err := media.Open(revealFlags.Input)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open stego file")
		}

		if !params.LegacyVideo(cover) {
			cells, err := stego.RegionCapacityBits(cover.Carrier, params.Region, 1)
			if err != nil {
				log.Fatal().Err(err).Msg("Invalid region")
			}
			bar := newProgressBar(cells, "decoding")
			params.Progress = bar
			defer bar.Finish()
		}

		res, err := pipeline.Reveal(cover, params)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to reveal payload")
		}
		logProbe(res)

		if err := res.Err(); err != nil {
			log.Fatal().Err(err).Msg("Failed to reveal payload")
		}
		if !res.Meta.Complete {
			log.Warn().
				Int("expected", res.Meta.TotalLen).
				Int("recovered", res.Meta.Length).
				Msg("Payload is truncated")
		}

		if revealFlags.Out == "-" {
			if _, err := os.Stdout.Write(res.Meta.Data); err != nil {
				log.Fatal().Err(err).Msg("Failed to write payload")
			}
			return
		}

		outPath, err := outputPath(revealFlags.Out, sniff.RecoveredName(res.Meta.MIME), c)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create output directory")
		}
		if err := os.WriteFile(outPath, res.Meta.Data, 0o644); err != nil {
			log.Fatal().Err(err).Msg("Failed to write payload")
		}
		log.Info().
			Str("output", outPath).
			Str("mime", res.Meta.MIME).
			Int("bytes", res.Meta.Length).
			Msg("Payload revealed")
	},
}

func logProbe(res *stego.Revealed) {
	if res.Probe != nil {
		for _, a := range res.Probe.Attempts {
			log.Debug().
				Stringer("variant", a.Variant).
				Bool("header", a.Meta != nil).
				AnErr("error", a.Err).
				Msg("Probe attempt")
		}
	}
	if res.Variant != nil {
		log.Warn().Stringer("variant", *res.Variant).Msg("Header found only with a different bit/channel order; pass it explicitly next time")
	}
}

func init() {
	rootCmd.AddCommand(revealCmd)

	revealFlags.register(revealCmd)
	revealCmd.Flags().StringVarP(&revealFlags.Input, "input", "i", "", "Path to the stego file (required)")
	revealCmd.MarkFlagRequired("input")
	revealCmd.Flags().StringVarP(&revealFlags.Out, "output", "o", "", "Output path for the payload (default recovered_payload<ext>, '-' for stdout)")
	revealCmd.Flags().IntVar(&revealFlags.MaxBits, "max-bits", 0, "Read at most this many bits (0 reads the full capacity)")
	revealCmd.Flags().BoolVar(&revealFlags.NoProbe, "no-probe", false, "Do not retry other bit/channel orders when no header is found")
}
