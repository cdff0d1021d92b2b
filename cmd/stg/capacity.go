package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/andresmejia3/stg/internal/media"
	"github.com/andresmejia3/stg/internal/pipeline"
)

var (
	capacityFlags struct {
		stegoFlags
		MIME    string
		Workers int
	}
)

type capacityRow struct {
	Scheme   string
	Bits     int
	MaxBytes int
}

type capacityReport struct {
	Path  string
	Kind  media.Kind
	Shape string
	Rows  []capacityRow
}

var capacityCmd = &cobra.Command{
	Use:   "capacity [path...]",
	Short: "Calculate the storage capacity of one or more covers",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, params, err := capacityFlags.resolve(cmd)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid parameters")
		}
		workers := c.Workers
		if cmd.Flags().Changed("workers") {
			workers = capacityFlags.Workers
		}
		if workers < 1 {
			log.Fatal().Msg("number of workers must be at least 1")
		}

		// Show the common bit depths unless one was asked for.
		lsbs := []int{1, 2, 3, 4, 8}
		if cmd.Flags().Changed("num-bits") || c.LSB != 1 {
			lsbs = []int{params.LSB}
		}

		reports := make([]capacityReport, len(args))
		g := new(errgroup.Group)
		g.SetLimit(workers)
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				cover, err := media.Open(path)
				if err != nil {
					return err
				}
				report := capacityReport{Path: path, Kind: cover.Kind, Shape: cover.Shape()}

				if params.LegacyVideo(cover) {
					capacity, err := pipeline.CapacityOf(cover, params)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					report.Rows = append(report.Rows, capacityRow{capacity.Scheme, capacity.Bits, capacity.MaxPayload(len(capacityFlags.MIME))})
				} else {
					for _, lsb := range lsbs {
						p := params
						p.LSB = lsb
						capacity, err := pipeline.CapacityOf(cover, p)
						if err != nil {
							return fmt.Errorf("%s: %w", path, err)
						}
						report.Rows = append(report.Rows, capacityRow{capacity.Scheme, capacity.Bits, capacity.MaxPayload(len(capacityFlags.MIME))})
					}
				}
				reports[i] = report
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Fatal().Err(err).Msg("Failed to compute capacity")
		}

		wtr := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(wtr, "File\tKind\tShape\tScheme\tCapacity (Bits)\tMax Payload (Bytes)")
		fmt.Fprintln(wtr, "----\t----\t-----\t------\t---------------\t-------------------")
		for _, r := range reports {
			for _, row := range r.Rows {
				fmt.Fprintf(wtr, "%s\t%s\t%s\t%s\t%d\t%d\n", r.Path, r.Kind, r.Shape, row.Scheme, row.Bits, row.MaxBytes)
			}
		}
		wtr.Flush()
	},
}

func init() {
	rootCmd.AddCommand(capacityCmd)

	capacityFlags.register(capacityCmd)
	capacityCmd.Flags().StringVar(&capacityFlags.MIME, "mime", "application/octet-stream", "MIME label assumed when computing the max payload")
	capacityCmd.Flags().IntVarP(&capacityFlags.Workers, "workers", "w", 0, "Number of files to load concurrently (default: number of CPUs)")
}
