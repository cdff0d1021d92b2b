package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/stg/internal/media"
	"github.com/andresmejia3/stg/internal/pipeline"
	"github.com/andresmejia3/stg/internal/sniff"
	"github.com/andresmejia3/stg/pkg/stego"
)

var (
	concealFlags struct {
		stegoFlags
		Cover  string
		Msg    string
		File   string
		MIME   string
		Out    string
		DryRun bool
		Verify bool
	}
)

var concealCmd = &cobra.Command{
	Use:   "conceal",
	Short: "Conceal a file or message in a cover",
	Run: func(cmd *cobra.Command, args []string) {
		if concealFlags.Msg != "" && concealFlags.File != "" {
			log.Fatal().Msg("message and file flags cannot both be provided")
		}
		if concealFlags.Msg == "" && concealFlags.File == "" {
			log.Fatal().Msg("one of --message or --file is required")
		}

		c, params, err := concealFlags.resolve(cmd)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid parameters")
		}

		data, mime, err := readPayload(concealFlags.File, concealFlags.Msg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read payload")
		}
		if concealFlags.MIME != "" {
			mime = concealFlags.MIME
		}

		cover, err := media.Open(concealFlags.Cover)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open cover")
		}

		capacity, err := pipeline.CapacityOf(cover, params)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to compute capacity")
		}
		required := pipeline.RequiredBits(data, mime)

		log.Info().
			Str("cover", cover.Shape()).
			Str("scheme", capacity.Scheme).
			Str("mime", mime).
			Int("payload", len(data)).
			Int("required_bits", required).
			Int("capacity_bits", capacity.Bits).
			Msg("Concealing")

		if concealFlags.DryRun {
			if required > capacity.Bits {
				log.Fatal().Err(&stego.CapacityError{Required: required, Available: capacity.Bits}).Msg("Payload does not fit")
			}
			fmt.Printf("Payload fits: %d of %d bits (%.1f%%), %d bytes to spare\n",
				required, capacity.Bits, 100*float64(required)/float64(capacity.Bits), (capacity.Bits-required)/8)
			return
		}

		if !params.LegacyVideo(cover) {
			cells := (required + params.LSB - 1) / params.LSB
			bar := newProgressBar(cells, "encoding")
			params.Progress = bar
			defer bar.Finish()
		}

		out, err := pipeline.Conceal(cover, data, mime, params)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to conceal payload")
		}

		outPath, err := outputPath(concealFlags.Out, cover.DefaultOutput(), c)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create output directory")
		}
		if err := cover.Save(outPath, out); err != nil {
			log.Fatal().Err(err).Msg("Failed to write stego output")
		}

		if concealFlags.Verify {
			// Re-read from disk so encoder losses show up too.
			written, err := media.Open(outPath)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to re-open stego output")
			}
			params.Progress = nil
			if err := pipeline.Verify(written, written.Carrier, data, params); err != nil {
				log.Fatal().Err(err).Msg("Round trip verification failed")
			}
			log.Debug().Msg("Round trip verified")
		}

		log.Info().Str("output", outPath).Msg("Payload concealed")
	},
}

// readPayload returns the bytes to hide and their MIME label. A file of "-" reads stdin.
func readPayload(file, message string) ([]byte, string, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", err
		}
		return data, sniff.DetectBytes(data, ""), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, "", err
		}
		return data, sniff.DetectMIME(file), nil
	}
	return []byte(message), "text/plain", nil
}

func init() {
	rootCmd.AddCommand(concealCmd)

	concealFlags.register(concealCmd)
	concealCmd.Flags().StringVarP(&concealFlags.Cover, "input", "i", "", "Path to the cover: image, .wav, .flac or a directory of PNG frames (required)")
	concealCmd.MarkFlagRequired("input")
	concealCmd.Flags().StringVarP(&concealFlags.Msg, "message", "m", "", "Message to conceal")
	concealCmd.Flags().StringVarP(&concealFlags.File, "file", "f", "", "Path to file to conceal. Use '-' for stdin.")
	concealCmd.Flags().StringVar(&concealFlags.MIME, "mime", "", "MIME label to store instead of the detected one")
	concealCmd.Flags().StringVarP(&concealFlags.Out, "output", "o", "", "Output path for the stego file")
	concealCmd.Flags().BoolVar(&concealFlags.DryRun, "dry-run", false, "Check if the payload fits without encoding")
	concealCmd.Flags().BoolVar(&concealFlags.Verify, "verify", true, "Reveal the written output once and compare it with the payload")
}
