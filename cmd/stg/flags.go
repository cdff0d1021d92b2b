package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/stg/internal/config"
	"github.com/andresmejia3/stg/internal/pipeline"
	"github.com/andresmejia3/stg/pkg/stego"
)

// stegoFlags are the parameters encoder and decoder must agree on.
type stegoFlags struct {
	Bits         int
	Key          uint64
	Passphrase   string
	BitOrder     string
	ChannelOrder string
	Region       string
	VideoScheme  string
}

func (f *stegoFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.Bits, "num-bits", "n", 1, "Number of low bits to use per cell (1-8)")
	cmd.Flags().Uint64VarP(&f.Key, "key", "k", 0, "Numeric key that seeds the cell order")
	cmd.Flags().StringVarP(&f.Passphrase, "passphrase", "p", "", "Derive the key from a passphrase instead of --key")
	cmd.Flags().StringVar(&f.BitOrder, "bit-order", "msb-first", "Bit order within each byte: msb-first or lsb-first")
	cmd.Flags().StringVar(&f.ChannelOrder, "channel-order", "RGB", "Channel block order for images and video: RGB or BGR")
	cmd.Flags().StringVarP(&f.Region, "region", "r", "", "Restrict to y0,x0,h,w (image, every video frame) or start,len (audio samples)")
	cmd.Flags().StringVar(&f.VideoScheme, "video-scheme", config.VideoSchemeLegacy, "Video scheme: legacy (first frame, red channel) or general")
}

// resolve applies the flags the user set explicitly on top of the loaded configuration.
func (f *stegoFlags) resolve(cmd *cobra.Command) (config.Config, pipeline.Params, error) {
	c := cfg
	flags := cmd.Flags()
	if flags.Changed("num-bits") {
		c.LSB = f.Bits
	}
	if flags.Changed("key") {
		c.Key = f.Key
	}
	if flags.Changed("passphrase") {
		if flags.Changed("key") {
			return c, pipeline.Params{}, fmt.Errorf("--key and --passphrase cannot both be provided")
		}
		c.Key = stego.KeyFromPassphrase(f.Passphrase)
	}
	if flags.Changed("bit-order") {
		c.BitOrder = f.BitOrder
	}
	if flags.Changed("channel-order") {
		c.ChannelOrder = f.ChannelOrder
	}
	if flags.Changed("video-scheme") {
		c.VideoScheme = f.VideoScheme
	}
	if err := c.Validate(); err != nil {
		return c, pipeline.Params{}, err
	}

	opts, err := c.Options()
	if err != nil {
		return c, pipeline.Params{}, err
	}
	if opts.Region, err = stego.ParseRegion(f.Region); err != nil {
		return c, pipeline.Params{}, err
	}
	return c, pipeline.Params{Options: opts, VideoScheme: c.VideoScheme}, nil
}

func newProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// outputPath resolves where a command writes its result: the explicit flag, else name
// inside the configured output directory, else name as is.
func outputPath(explicit, name string, c config.Config) (string, error) {
	path := explicit
	if path == "" {
		path = name
		if c.OutputDir != "" {
			path = filepath.Join(c.OutputDir, filepath.Base(name))
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	return path, nil
}
