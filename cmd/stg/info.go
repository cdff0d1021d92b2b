package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andresmejia3/stg/internal/media"
	"github.com/andresmejia3/stg/internal/pipeline"
	"github.com/andresmejia3/stg/internal/sniff"
	"github.com/andresmejia3/stg/pkg/stego"
)

var infoFlags stegoFlags

var infoCmd = &cobra.Command{
	Use:   "info [path]",
	Short: "Inspect a stego file and display its payload header",
	Long:  `Extracts the bitstream of a stego file with the given key and prints the payload header: MIME label, payload size, key hint and whether the payload is complete. Nothing is written to disk.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		_, params, err := infoFlags.resolve(cmd)
		if err != nil {
			return err
		}
		cover, err := media.Open(path)
		if err != nil {
			return err
		}

		res, err := pipeline.Reveal(cover, params)
		if err != nil {
			return fmt.Errorf("failed to get info from %s: %w", path, err)
		}
		logProbe(res)

		fmt.Println("Stego Header Information:")
		fmt.Println("-------------------------")
		fmt.Printf("Cover:            %s (%s)\n", cover.Shape(), cover.Format)
		fmt.Printf("Status:           %s\n", res.Status)
		if res.Status == stego.StatusHeaderNotFound {
			switch {
			case res.MagicOffset == 0:
				fmt.Printf("Magic Offset:     0 bytes (header truncated; read more bits)\n")
			case res.MagicOffset > 0:
				fmt.Printf("Magic Offset:     %d bytes (bit packing/order mismatch)\n", res.MagicOffset)
			}
			return res.Err()
		}
		if res.Variant != nil {
			fmt.Printf("Variant:          %s\n", res.Variant)
		}
		fmt.Printf("MIME:             %s (%s)\n", res.Meta.MIME, sniff.RecoveredName(res.Meta.MIME))
		fmt.Printf("Payload Size:     %d bytes\n", max(res.Meta.TotalLen-stego.HeaderLen-len(res.Meta.MIME), 0))
		fmt.Printf("Recovered:        %d bytes\n", res.Meta.Length)
		fmt.Printf("Complete:         %t\n", res.Meta.Complete)
		fmt.Printf("Key Hint:         %d\n", res.Meta.KeyHint)
		return res.Err()
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoFlags.register(infoCmd)
}
