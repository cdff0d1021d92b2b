package media

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/andresmejia3/stg/pkg/stego"
)

const pcmFormat = 1

func loadWAV(path string) (*stego.Audio, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: not a valid WAV file", stego.ErrUnsupported)
	}
	if decoder.WavAudioFormat != pcmFormat || decoder.BitDepth != 16 {
		return nil, 0, fmt.Errorf("%w: only 16-bit PCM WAV is supported (format %d, %d-bit)",
			stego.ErrUnsupported, decoder.WavAudioFormat, decoder.BitDepth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode WAV: %v", err)
	}

	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = int16(s)
	}
	a, err := stego.NewAudio(buf.Format.NumChannels, samples)
	if err != nil {
		return nil, 0, err
	}
	return a, buf.Format.SampleRate, nil
}

func saveWAV(path string, a *stego.Audio, sampleRate int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	data := make([]int, len(a.Samples))
	for i, s := range a.Samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: a.Channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	encoder := wav.NewEncoder(file, sampleRate, 16, a.Channels, pcmFormat)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to encode WAV: %v", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close WAV encoder: %v", err)
	}
	return file.Close()
}
