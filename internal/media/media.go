// Package media loads cover files into stego carriers and writes stego carriers back out.
//
// Images (PNG, BMP, TIFF, GIF, JPEG) become *stego.Image, 16-bit WAV and FLAC become
// *stego.Audio, and a directory of PNG frames becomes *stego.Video. Output is always
// written in a lossless format.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresmejia3/stg/pkg/stego"
)

// Kind is the medium of a cover.
type Kind int

const (
	KindImage Kind = iota
	KindAudio
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Cover is a decoded carrier together with what is needed to write it back.
type Cover struct {
	Path    string
	Kind    Kind
	Format  string
	Carrier stego.Carrier

	// SampleRate is set for audio covers.
	SampleRate int

	// Lossy is true when the cover was decoded from a lossy format; low bits written back
	// to the same format would not survive.
	Lossy bool
}

// Image returns the carrier as an image, or nil.
func (c *Cover) Image() *stego.Image {
	img, _ := c.Carrier.(*stego.Image)
	return img
}

// Audio returns the carrier as audio, or nil.
func (c *Cover) Audio() *stego.Audio {
	a, _ := c.Carrier.(*stego.Audio)
	return a
}

// Video returns the carrier as video, or nil.
func (c *Cover) Video() *stego.Video {
	v, _ := c.Carrier.(*stego.Video)
	return v
}

// Shape describes the carrier dimensions for humans.
func (c *Cover) Shape() string {
	switch v := c.Carrier.(type) {
	case *stego.Image:
		return fmt.Sprintf("%dx%d RGB", v.Width, v.Height)
	case *stego.Audio:
		return fmt.Sprintf("%d frames, %d ch, %d Hz", v.Frames(), v.Channels, c.SampleRate)
	case *stego.Video:
		return fmt.Sprintf("%d frames of %dx%d RGB", v.Frames, v.Width, v.Height)
	}
	return "unknown"
}

// KindOf classifies a path by extension, or as video when it is a directory.
func KindOf(path string) (Kind, string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return KindVideo, "frames", nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".bmp", ".tif", ".tiff", ".gif", ".jpg", ".jpeg":
		return KindImage, imageFormat(ext), nil
	case ".wav", ".wave":
		return KindAudio, "wav", nil
	case ".flac":
		return KindAudio, "flac", nil
	}
	return 0, "", fmt.Errorf("%w: %q (want an image, .wav, .flac or a directory of PNG frames)", stego.ErrUnsupported, path)
}

// Open decodes the cover at path.
func Open(path string) (*Cover, error) {
	kind, format, err := KindOf(path)
	if err != nil {
		return nil, err
	}

	cover := &Cover{Path: path, Kind: kind, Format: format}
	switch format {
	case "frames":
		cover.Carrier, err = loadFrames(path)
	case "wav":
		cover.Carrier, cover.SampleRate, err = loadWAV(path)
	case "flac":
		cover.Carrier, cover.SampleRate, err = loadFLAC(path)
	default:
		cover.Carrier, err = loadImage(path)
		cover.Lossy = format == "jpeg" || format == "gif"
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cover, nil
}

// Save writes carrier, which must be of the cover's kind, to path. The format follows the
// extension of path; lossy image formats are refused.
func (c *Cover) Save(path string, carrier stego.Carrier) error {
	switch v := carrier.(type) {
	case *stego.Image:
		return saveImage(path, v)
	case *stego.Audio:
		switch strings.ToLower(filepath.Ext(path)) {
		case ".wav", ".wave":
			return saveWAV(path, v, c.SampleRate)
		case ".flac":
			return saveFLAC(path, v, c.SampleRate)
		}
		return fmt.Errorf("%w: audio output %q (want .wav or .flac)", stego.ErrUnsupported, path)
	case *stego.Video:
		return saveFrames(path, v)
	}
	return fmt.Errorf("%w: carrier %T", stego.ErrUnsupported, carrier)
}

// DefaultOutput picks the stego path for a cover: the same directory and base name with a
// "_stego" suffix. Lossy images are written as PNG.
func (c *Cover) DefaultOutput() string {
	if c.Kind == KindVideo {
		return strings.TrimSuffix(filepath.Clean(c.Path), string(filepath.Separator)) + "_stego"
	}
	ext := filepath.Ext(c.Path)
	base := strings.TrimSuffix(c.Path, ext)
	if c.Lossy {
		ext = ".png"
	}
	return base + "_stego" + ext
}
