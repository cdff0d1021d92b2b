// Package config resolves stg settings from defaults, optional YAML files and the
// environment. Command-line flags are applied on top by the commands themselves.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andresmejia3/stg/pkg/stego"
)

// Video embedding schemes.
const (
	VideoSchemeLegacy  = "legacy"
	VideoSchemeGeneral = "general"
)

// Config captures the settings shared by the stg commands.
type Config struct {
	LSB          int          `yaml:"lsb"`
	Key          uint64       `yaml:"key"`
	BitOrder     string       `yaml:"bit_order"`
	ChannelOrder string       `yaml:"channel_order"`
	OutputDir    string       `yaml:"output_dir"`
	Workers      int          `yaml:"workers"`
	VideoScheme  string       `yaml:"video_scheme"`
	Probe        bool         `yaml:"probe"`
	Server       ServerConfig `yaml:"server"`
}

// ServerConfig controls the HTTP API started by `stg serve`.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LSB:          1,
		Key:          0,
		BitOrder:     "msb-first",
		ChannelOrder: "RGB",
		OutputDir:    "",
		Workers:      runtime.NumCPU(),
		VideoScheme:  VideoSchemeLegacy,
		Probe:        true,
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			AllowOrigins: []string{"http://localhost:3000"},
		},
	}
}

// Load resolves the configuration. The lookup order is:
//  1. ~/.stg/config.yaml
//  2. ./stg.yml
//  3. explicitPath, when not empty (it must exist)
//
// Environment variables prefixed with STG_ have the highest precedence.
func Load(explicitPath string) (Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		if err := loadFile(&cfg, filepath.Join(home, ".stg", "config.yaml"), false); err != nil {
			return Config{}, err
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("determine working directory: %w", err)
	}
	if err := loadFile(&cfg, filepath.Join(wd, "stg.yml"), false); err != nil {
		return Config{}, err
	}
	if explicitPath != "" {
		if err := loadFile(&cfg, explicitPath, true); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if c.LSB < 1 || c.LSB > 8 {
		return fmt.Errorf("lsb: %w: got %d", stego.ErrInvalidLSB, c.LSB)
	}
	if _, err := stego.ParseBitOrder(c.BitOrder); err != nil {
		return err
	}
	if _, err := stego.ParseChannelOrder(c.ChannelOrder); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.VideoScheme {
	case VideoSchemeLegacy, VideoSchemeGeneral:
	default:
		return fmt.Errorf("unknown video scheme %q (want %s or %s)", c.VideoScheme, VideoSchemeLegacy, VideoSchemeGeneral)
	}
	return nil
}

// Options converts the embedding-related fields to stego options.
func (c Config) Options() (stego.Options, error) {
	bitOrder, err := stego.ParseBitOrder(c.BitOrder)
	if err != nil {
		return stego.Options{}, err
	}
	channelOrder, err := stego.ParseChannelOrder(c.ChannelOrder)
	if err != nil {
		return stego.Options{}, err
	}
	return stego.Options{
		LSB:          c.LSB,
		Key:          c.Key,
		BitOrder:     bitOrder,
		ChannelOrder: channelOrder,
		Probe:        c.Probe,
	}, nil
}

func loadFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type fileConfig struct {
	LSB          *int              `yaml:"lsb"`
	Key          *uint64           `yaml:"key"`
	BitOrder     *string           `yaml:"bit_order"`
	ChannelOrder *string           `yaml:"channel_order"`
	OutputDir    *string           `yaml:"output_dir"`
	Workers      *int              `yaml:"workers"`
	VideoScheme  *string           `yaml:"video_scheme"`
	Probe        *bool             `yaml:"probe"`
	Server       *fileServerConfig `yaml:"server"`
}

type fileServerConfig struct {
	Addr         *string  `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.LSB != nil {
		cfg.LSB = *fc.LSB
	}
	if fc.Key != nil {
		cfg.Key = *fc.Key
	}
	if fc.BitOrder != nil {
		cfg.BitOrder = strings.TrimSpace(*fc.BitOrder)
	}
	if fc.ChannelOrder != nil {
		cfg.ChannelOrder = strings.TrimSpace(*fc.ChannelOrder)
	}
	if fc.OutputDir != nil {
		cfg.OutputDir = strings.TrimSpace(*fc.OutputDir)
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.VideoScheme != nil {
		cfg.VideoScheme = strings.TrimSpace(*fc.VideoScheme)
	}
	if fc.Probe != nil {
		cfg.Probe = *fc.Probe
	}
	if fc.Server != nil {
		if fc.Server.Addr != nil {
			cfg.Server.Addr = strings.TrimSpace(*fc.Server.Addr)
		}
		if fc.Server.AllowOrigins != nil {
			cfg.Server.AllowOrigins = fc.Server.AllowOrigins
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv("STG_LSB")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("STG_LSB: %w", err)
		}
		cfg.LSB = n
	}
	if val := strings.TrimSpace(os.Getenv("STG_KEY")); val != "" {
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("STG_KEY: %w", err)
		}
		cfg.Key = n
	}
	if val := strings.TrimSpace(os.Getenv("STG_BIT_ORDER")); val != "" {
		cfg.BitOrder = val
	}
	if val := strings.TrimSpace(os.Getenv("STG_CHANNEL_ORDER")); val != "" {
		cfg.ChannelOrder = val
	}
	if val := strings.TrimSpace(os.Getenv("STG_OUT")); val != "" {
		cfg.OutputDir = val
	}
	if val := strings.TrimSpace(os.Getenv("STG_WORKERS")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("STG_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if val := strings.TrimSpace(os.Getenv("STG_VIDEO_SCHEME")); val != "" {
		cfg.VideoScheme = val
	}
	if val := strings.TrimSpace(os.Getenv("STG_PROBE")); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			cfg.Probe = parsed
		}
	}
	if val := strings.TrimSpace(os.Getenv("STG_SERVER_ADDR")); val != "" {
		cfg.Server.Addr = val
	}
	if val := strings.TrimSpace(os.Getenv("STG_ALLOW_ORIGINS")); val != "" {
		var origins []string
		for _, o := range strings.Split(val, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowOrigins = origins
	}
	return nil
}
