package stego

import "fmt"

// Audio is 16-bit signed PCM. Samples are interleaved (frame-major) so a stereo buffer of
// N frames holds 2N cells.
type Audio struct {
	Channels int
	Samples  []int16
}

// NewAudio wraps interleaved samples as an audio carrier.
func NewAudio(channels int, samples []int16) (*Audio, error) {
	if channels < 1 || len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples do not split into %d channels", ErrUnsupported, len(samples), channels)
	}
	return &Audio{Channels: channels, Samples: samples}, nil
}

func (a *Audio) Len() int      { return len(a.Samples) }
func (a *Audio) CellBits() int { return 16 }

// Frames is the number of sample frames (samples per channel).
func (a *Audio) Frames() int { return len(a.Samples) / a.Channels }

// ReadBits works on the unsigned bit pattern; shifting a negative int16 would smear the
// sign bit into the result.
func (a *Audio) ReadBits(i, n int) uint16 {
	return uint16(a.Samples[i]) & lowMask(n)
}

func (a *Audio) WriteBits(i, n int, v uint16) {
	mask := lowMask(n)
	a.Samples[i] = int16(uint16(a.Samples[i])&^mask | v&mask)
}

func (a *Audio) Eligible(region Region, _ ChannelOrder) ([]int, error) {
	start, length := 0, len(a.Samples)
	switch r := region.(type) {
	case nil:
	case Span:
		if r.Start < 0 || r.Length < 0 || r.Start > len(a.Samples) || r.Length > len(a.Samples)-r.Start {
			return nil, &BoundsError{Region: r, Shape: fmt.Sprintf("%d samples", len(a.Samples))}
		}
		start, length = r.Start, r.Length
	default:
		return nil, unsupportedRegion(region, "audio")
	}

	cells := make([]int, length)
	for i := range cells {
		cells[i] = start + i
	}
	return cells, nil
}

func (a *Audio) Clone() Carrier {
	samples := make([]int16, len(a.Samples))
	copy(samples, a.Samples)
	return &Audio{Channels: a.Channels, Samples: samples}
}
