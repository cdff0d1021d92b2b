// Package pipeline runs the stego operations against loaded cover files, choosing the
// video scheme and accounting for the container overhead.
package pipeline

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresmejia3/stg/internal/config"
	"github.com/andresmejia3/stg/internal/media"
	"github.com/andresmejia3/stg/pkg/stego"
)

// Params are the embedding parameters plus the video scheme.
type Params struct {
	stego.Options
	VideoScheme string
}

// LegacyVideo reports whether cover is handled by the legacy first-frame video scheme.
func (p Params) LegacyVideo(cover *media.Cover) bool {
	return cover.Kind == media.KindVideo && p.VideoScheme != config.VideoSchemeGeneral
}

// Capacity is the payload capacity of a cover under p.
type Capacity struct {
	Bits   int
	Scheme string
}

// MaxPayload is the largest data size that fits with a MIME label of mimeLen bytes.
func (c Capacity) MaxPayload(mimeLen int) int {
	return stego.MaxPayloadBytes(c.Bits, min(mimeLen, stego.MaxMIMELen))
}

// CapacityOf computes the capacity of cover, honouring the region.
func CapacityOf(cover *media.Cover, p Params) (Capacity, error) {
	if p.LegacyVideo(cover) {
		return Capacity{Bits: stego.LegacyVideoCapacityBits(cover.Video()), Scheme: config.VideoSchemeLegacy}, nil
	}
	bits, err := stego.RegionCapacityBits(cover.Carrier, p.Region, p.LSB)
	if err != nil {
		return Capacity{}, err
	}
	return Capacity{Bits: bits, Scheme: fmt.Sprintf("lsb%d", p.LSB)}, nil
}

// RequiredBits is the number of bits the framed payload occupies.
func RequiredBits(data []byte, mime string) int {
	return len(stego.Pack(data, mime, 0)) * 8
}

// Conceal embeds data into cover and returns the stego carrier.
func Conceal(cover *media.Cover, data []byte, mime string, p Params) (stego.Carrier, error) {
	if cover.Lossy {
		log.Warn().Str("format", cover.Format).Msg("Cover is lossy; the stego output is written losslessly and must stay that way")
	}
	if p.LegacyVideo(cover) {
		if p.Region != nil || p.LSB != 1 {
			log.Warn().Msg("Legacy video scheme ignores --num-bits and --region")
		}
		return stego.ConcealLegacyVideo(cover.Video(), data, mime, p.Key)
	}
	return stego.Conceal(cover.Carrier, data, mime, p.Options)
}

// Reveal extracts and parses a payload from cover.
func Reveal(cover *media.Cover, p Params) (*stego.Revealed, error) {
	if p.LegacyVideo(cover) {
		return stego.RevealLegacyVideo(cover.Video(), p.Key, p.MaxBits)
	}
	return stego.Reveal(cover.Carrier, p.Options)
}

// Verify reveals stego and checks the payload came back unchanged.
func Verify(cover *media.Cover, stegoCarrier stego.Carrier, data []byte, p Params) error {
	if p.LegacyVideo(cover) {
		v, ok := stegoCarrier.(*stego.Video)
		if !ok {
			return fmt.Errorf("%w: legacy scheme needs a video, got %T", stego.ErrUnsupported, stegoCarrier)
		}
		res, err := stego.RevealLegacyVideo(v, p.Key, 0)
		if err != nil {
			return err
		}
		if err := res.Err(); err != nil {
			return err
		}
		if !res.Meta.Complete || string(res.Meta.Data) != string(data) {
			return fmt.Errorf("round trip mismatch: embedded %d bytes, recovered %d", len(data), res.Meta.Length)
		}
		return nil
	}
	return stego.VerifyRoundTrip(stegoCarrier, data, p.Options)
}
