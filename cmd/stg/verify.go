package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andresmejia3/stg/internal/media"
	"github.com/andresmejia3/stg/internal/pipeline"
)

var (
	verifyFlags struct {
		stegoFlags
		Input string
		File  string
	}
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify that a stego file carries a given payload",
	Long:  `Reveals the payload of a stego file and checks it byte for byte against the original file, without writing anything to disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, params, err := verifyFlags.resolve(cmd)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(verifyFlags.File)
		if err != nil {
			return err
		}
		cover, err := media.Open(verifyFlags.Input)
		if err != nil {
			return err
		}

		if err := pipeline.Verify(cover, cover.Carrier, data, params); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}

		fmt.Println("✅ Payload verification successful!")
		fmt.Printf("Cover:            %s (%s)\n", cover.Shape(), cover.Format)
		fmt.Printf("Payload Size:     %d bytes\n", len(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyFlags.register(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyFlags.Input, "input", "i", "", "Path to the stego file (required)")
	verifyCmd.MarkFlagRequired("input")
	verifyCmd.Flags().StringVarP(&verifyFlags.File, "file", "f", "", "Path to the original payload (required)")
	verifyCmd.MarkFlagRequired("file")
}
