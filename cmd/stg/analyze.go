package main

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/stg/internal/media"
	"github.com/andresmejia3/stg/pkg/stego"
)

var (
	analyzeFlags struct {
		Original string
		Stego    string
		Heatmap  string
	}
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the difference between a cover and its stego file",
	Long:  `Calculates MSE and PSNR (Peak Signal-to-Noise Ratio) over every cell and, for images and video, writes a difference map highlighting modified pixels.`,
	Run: func(cmd *cobra.Command, args []string) {
		original, err := media.Open(analyzeFlags.Original)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open original")
		}
		stegoFile, err := media.Open(analyzeFlags.Stego)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open stego file")
		}

		bar := newProgressBar(original.Carrier.Len(), " 📊 Analyzing")
		result, err := stego.Analyze(original.Carrier, stegoFile.Carrier, bar)
		if err != nil {
			log.Fatal().Err(err).Msg("Analysis failed")
		}
		_ = bar.Finish()

		heatmap := ""
		if a, b := firstFrame(original), firstFrame(stegoFile); a != nil && b != nil {
			diff, err := stego.DifferenceMap(a, b)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to build difference map")
			}
			if err := media.WriteImage(analyzeFlags.Heatmap, diff); err != nil {
				log.Fatal().Err(err).Msg("Failed to write difference map")
			}
			heatmap = analyzeFlags.Heatmap
		}

		fmt.Printf("Analysis Complete:\n")
		fmt.Printf("------------------\n")
		fmt.Printf("Cells Changed:                  %d of %d (%.2f%%)\n", result.ChangedCells, result.Cells, 100*float64(result.ChangedCells)/float64(max(result.Cells, 1)))
		fmt.Printf("MSE (Mean Squared Error):       %.4f\n", result.MSE)
		if math.IsInf(result.PSNR, 1) {
			fmt.Printf("PSNR (Peak Signal-to-Noise):    identical\n")
		} else {
			fmt.Printf("PSNR (Peak Signal-to-Noise):    %.2f dB\n", result.PSNR)
		}
		if heatmap != "" {
			fmt.Printf("Heatmap saved to:               %s\n", heatmap)
		}
		fmt.Printf("\nInterpretation:\n")
		fmt.Printf(" > 30dB: Good quality (hard to detect visually)\n")
		fmt.Printf(" > 40dB: Excellent quality\n")
	},
}

// firstFrame returns the image of an image cover or the first frame of a video cover.
func firstFrame(c *media.Cover) *stego.Image {
	if img := c.Image(); img != nil {
		return img
	}
	if v := c.Video(); v != nil {
		return v.Frame(0)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.Original, "original", "o", "", "Path to the original cover (required)")
	analyzeCmd.MarkFlagRequired("original")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.Stego, "stego", "s", "", "Path to the stego file (required)")
	analyzeCmd.MarkFlagRequired("stego")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.Heatmap, "heatmap", "d", "heatmap.png", "Output path for the difference map image")
}
