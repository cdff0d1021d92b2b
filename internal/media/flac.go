package media

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/andresmejia3/stg/pkg/stego"
)

const flacBlockSize = 4096

func loadFLAC(path string) (*stego.Audio, int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	info := stream.Info
	if info.BitsPerSample != 16 {
		return nil, 0, fmt.Errorf("%w: only 16-bit FLAC is supported (%d-bit)", stego.ErrUnsupported, info.BitsPerSample)
	}
	channels := int(info.NChannels)

	samples := make([]int16, 0, int(info.NSamples)*channels)
	for {
		f, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode FLAC frame: %v", err)
		}
		if len(f.Subframes) != channels {
			return nil, 0, fmt.Errorf("%w: frame with %d channels in a %d-channel stream", stego.ErrUnsupported, len(f.Subframes), channels)
		}
		// Interleave the per-channel subframes.
		for i := 0; i < int(f.BlockSize); i++ {
			for _, sub := range f.Subframes {
				samples = append(samples, int16(sub.Samples[i]))
			}
		}
	}

	a, err := stego.NewAudio(channels, samples)
	if err != nil {
		return nil, 0, err
	}
	return a, int(info.SampleRate), nil
}

// saveFLAC writes every block as verbatim subframes. Prediction would have to be recomputed
// for the new low bits anyway, and verbatim keeps the samples exact.
func saveFLAC(path string, a *stego.Audio, sampleRate int) error {
	if a.Channels < 1 || a.Channels > 8 {
		return fmt.Errorf("%w: FLAC holds 1 to 8 channels, got %d", stego.ErrUnsupported, a.Channels)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	nframes := a.Frames()
	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     uint8(a.Channels),
		BitsPerSample: 16,
		NSamples:      uint64(nframes),
	}
	if nframes < flacBlockSize {
		info.BlockSizeMin = uint16(max(nframes, 16))
		info.BlockSizeMax = info.BlockSizeMin
	}

	// A WriteSeeker lets the encoder patch the MD5 into the stream info on Close.
	enc, err := flac.NewEncoder(file, info)
	if err != nil {
		return err
	}

	for num, start := 0, 0; start < nframes; num, start = num+1, start+flacBlockSize {
		n := min(flacBlockSize, nframes-start)
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(n),
				SampleRate:        uint32(sampleRate),
				// Independent channel assignments are numbered channels-1.
				Channels:      frame.Channels(a.Channels - 1),
				BitsPerSample: 16,
				Num:           uint64(num),
			},
		}
		for ch := 0; ch < a.Channels; ch++ {
			sub := &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   make([]int32, n),
				NSamples:  n,
			}
			for i := 0; i < n; i++ {
				sub.Samples[i] = int32(a.Samples[(start+i)*a.Channels+ch])
			}
			f.Subframes = append(f.Subframes, sub)
		}
		if err := enc.WriteFrame(f); err != nil {
			return fmt.Errorf("failed to encode FLAC frame %d: %v", num, err)
		}
	}

	// Close also closes the file.
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close FLAC encoder: %v", err)
	}
	return nil
}
