package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/stg/internal/server"
)

var (
	serveFlags struct {
		Addr string
	}
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the capacity, conceal and reveal operations over HTTP",
	Long: `Starts an HTTP API for browser frontends:

  GET  /api/v1/health
  POST /api/v1/capacity        multipart: cover, [message|payload], [mime]
  POST /api/v1/stego/conceal   multipart: cover, message|payload, [mime, key|passphrase, lsb, region, ...]
  POST /api/v1/stego/reveal    multipart: stego, [key|passphrase, lsb, region, max_bits, probe, ...]

Form fields default to the loaded configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := cfg
		if cmd.Flags().Changed("addr") {
			c.Server.Addr = serveFlags.Addr
		}
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.New(c).Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("HTTP API failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveFlags.Addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
}
