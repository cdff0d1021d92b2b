package stego

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Legacy video scheme limits.
const (
	LegacyVideoMaxBytes = 10000
	legacyVideoMaxBits  = LegacyVideoMaxBytes * 8
)

// Video is an F×H×W×3 8-bit RGB frame stack. As a Carrier it is the general scheme: every
// channel sample of every frame is a cell and Rect regions apply to each frame.
// EmbedLegacyVideo and ExtractLegacyVideo implement the narrower first-frame scheme.
type Video struct {
	Frames int
	Height int
	Width  int
	Pix    []uint8
}

// NewVideo wraps pix as a video carrier. It rejects shapes that are not F×H×W×3.
func NewVideo(frames, height, width int, pix []uint8) (*Video, error) {
	if frames <= 0 || height <= 0 || width <= 0 || len(pix) != frames*height*width*3 {
		return nil, fmt.Errorf("%w: video %dx%dx%d with %d samples (want F*H*W*3)", ErrUnsupported, frames, height, width, len(pix))
	}
	return &Video{Frames: frames, Height: height, Width: width, Pix: pix}, nil
}

func (v *Video) Len() int      { return len(v.Pix) }
func (v *Video) CellBits() int { return 8 }

func (v *Video) ReadBits(i, n int) uint16 {
	return uint16(v.Pix[i]) & lowMask(n)
}

func (v *Video) WriteBits(i, n int, val uint16) {
	mask := uint8(lowMask(n))
	v.Pix[i] = v.Pix[i]&^mask | uint8(val)&mask
}

func (v *Video) Eligible(region Region, order ChannelOrder) ([]int, error) {
	rect := Rect{Height: v.Height, Width: v.Width}
	switch r := region.(type) {
	case nil:
	case Rect:
		if err := r.check(v.Height, v.Width); err != nil {
			return nil, err
		}
		rect = r
	default:
		return nil, unsupportedRegion(region, "video")
	}

	framePos := rect.positions(v.Width)
	pos := make([]int, 0, len(framePos)*v.Frames)
	for f := 0; f < v.Frames; f++ {
		base := f * v.Height * v.Width
		for _, p := range framePos {
			pos = append(pos, base+p)
		}
	}
	return expandChannels(pos, order), nil
}

func (v *Video) Clone() Carrier {
	pix := make([]uint8, len(v.Pix))
	copy(pix, v.Pix)
	return &Video{Frames: v.Frames, Height: v.Height, Width: v.Width, Pix: pix}
}

// Frame returns frame f as an Image sharing the underlying samples.
func (v *Video) Frame(f int) *Image {
	size := v.Height * v.Width * 3
	return &Image{Height: v.Height, Width: v.Width, Pix: v.Pix[f*size : (f+1)*size]}
}

// LegacyVideoCapacityBits is the number of payload bits the legacy scheme can hold: one
// per pixel of the first frame, capped at LegacyVideoMaxBytes.
func LegacyVideoCapacityBits(v *Video) int {
	if v == nil || v.Frames == 0 {
		return 0
	}
	return min(v.Height*v.Width, legacyVideoMaxBits)
}

// EmbedLegacyVideo writes payload into the red channel of the first frame, one bit per
// pixel in row-major order, stored as 00 or 11 in the two low bits. The bits-per-cell
// setting, key and region do not apply. The input video is not modified.
func EmbedLegacyVideo(v *Video, payload []byte) (*Video, error) {
	if v == nil || v.Frames == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrUnsupported)
	}

	bits := BytesToBits(payload, MSBFirst)
	available := LegacyVideoCapacityBits(v)
	if len(bits) > available {
		return nil, &CapacityError{Required: len(bits), Available: available}
	}

	out := v.Clone().(*Video)
	frame := out.Frame(0)
	for i, bit := range bits {
		red := &frame.Pix[i*3]
		*red = *red&0xFC | bit*3
	}

	log.Debug().Int("bits", len(bits)).Int("frames", v.Frames).Msg("Embedded payload with legacy video scheme")
	return out, nil
}

// ExtractLegacyVideo reads bits written by EmbedLegacyVideo. maxBits <= 0 reads up to
// LegacyVideoMaxBytes. The result is truncated to whole bytes.
func ExtractLegacyVideo(v *Video, maxBits int) []byte {
	if v == nil || v.Frames == 0 {
		return nil
	}

	maxBytes := LegacyVideoMaxBytes
	if maxBits > 0 {
		maxBytes = maxBits / 8
	}
	n := min(maxBytes*8, v.Height*v.Width)
	n -= n % 8

	frame := v.Frame(0)
	bits := make([]uint8, n)
	for i := range bits {
		if frame.Pix[i*3]&3 >= 2 {
			bits[i] = 1
		}
	}
	return BitsToBytes(bits, MSBFirst)
}
