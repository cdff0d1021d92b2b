package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresmejia3/stg/pkg/stego"
)

// isolate points HOME and the working directory at fresh temp directories and clears
// every STG_ variable.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	tempDir := t.TempDir()
	home = filepath.Join(tempDir, "home")
	work = filepath.Join(tempDir, "work")
	require.NoError(t, os.Mkdir(home, 0o755))
	require.NoError(t, os.Mkdir(work, 0o755))
	t.Setenv("HOME", home)
	for _, name := range []string{"STG_LSB", "STG_KEY", "STG_BIT_ORDER", "STG_CHANNEL_ORDER", "STG_OUT",
		"STG_WORKERS", "STG_VIDEO_SCHEME", "STG_PROBE", "STG_SERVER_ADDR", "STG_ALLOW_ORIGINS"} {
		t.Setenv(name, "")
	}

	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	require.NoError(t, os.Chdir(work))
	return home, work
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPrecedence(t *testing.T) {
	home, work := isolate(t)

	require.NoError(t, os.Mkdir(filepath.Join(home, ".stg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".stg", "config.yaml"), []byte(`lsb: 2
key: 1111
output_dir: /home-out
server:
  addr: 0.0.0.0:9000
`), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(work, "stg.yml"), []byte(`key: 2222
channel_order: bgr
probe: false
`), 0o644))

	explicit := filepath.Join(work, "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte(`bit_order: lsb-first
video_scheme: general
server:
  allow_origins: ["https://a.example", "https://b.example"]
`), 0o644))

	t.Setenv("STG_KEY", "3333")
	t.Setenv("STG_WORKERS", "3")

	cfg, err := Load(explicit)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.LSB)
	assert.Equal(t, uint64(3333), cfg.Key)
	assert.Equal(t, "/home-out", cfg.OutputDir)
	assert.Equal(t, "bgr", cfg.ChannelOrder)
	assert.False(t, cfg.Probe)
	assert.Equal(t, "lsb-first", cfg.BitOrder)
	assert.Equal(t, VideoSchemeGeneral, cfg.VideoScheme)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, stego.LSBFirst, opts.BitOrder)
	assert.Equal(t, stego.BGR, opts.ChannelOrder)
	assert.Equal(t, uint64(3333), opts.Key)
}

func TestLoadErrors(t *testing.T) {
	_, work := isolate(t)

	_, err := Load(filepath.Join(work, "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")

	bad := filepath.Join(work, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("lsb: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(work, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("lsb: 9\n"), 0o644))
	_, err = Load(invalid)
	assert.True(t, errors.Is(err, stego.ErrInvalidLSB))

	t.Setenv("STG_LSB", "two")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bit order", func(c *Config) { c.BitOrder = "middle" }},
		{"channel order", func(c *Config) { c.ChannelOrder = "GRB" }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"video scheme", func(c *Config) { c.VideoScheme = "mpeg" }},
		{"lsb", func(c *Config) { c.LSB = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
