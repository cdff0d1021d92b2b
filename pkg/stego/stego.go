package stego

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog/log"
)

// magicScanWindow is how far into a failed bitstream Reveal looks for a misaligned magic.
const magicScanWindow = 64

// Status classifies the outcome of Reveal.
type Status int

const (
	StatusOK Status = iota
	StatusHeaderNotFound
	StatusKeyMismatch
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusHeaderNotFound:
		return "header not found"
	case StatusKeyMismatch:
		return "key mismatch"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Revealed is the result of Reveal.
type Revealed struct {
	Status Status
	Meta   *Metadata

	// Variant is set when the header was only found by probing alternate conventions.
	Variant *Variant
	Probe   *ProbeResult

	// MagicOffset is the byte offset of a magic found when no header was recognized, or -1.
	// Zero means the header was cut short; anything larger points at a misaligned stream.
	MagicOffset int

	keyHint uint32
}

// Err maps the status to ErrHeaderNotFound or ErrKeyMismatch.
func (r *Revealed) Err() error {
	switch r.Status {
	case StatusHeaderNotFound:
		switch {
		case r.MagicOffset == 0:
			return fmt.Errorf("%w: magic at byte offset 0 but the header is truncated (bitstream too short)", ErrHeaderNotFound)
		case r.MagicOffset > 0:
			return fmt.Errorf("%w: magic at byte offset %d (bit packing/order mismatch)", ErrHeaderNotFound, r.MagicOffset)
		}
		return ErrHeaderNotFound
	case StatusKeyMismatch:
		return fmt.Errorf("%w: header hint %d, key hint %d", ErrKeyMismatch, r.Meta.KeyHint, r.keyHint)
	}
	return nil
}

// Conceal frames data with its MIME label and the key hint, then embeds it.
func Conceal(c Carrier, data []byte, mime string, opts Options) (Carrier, error) {
	blob := Pack(data, mime, KeyHint(opts.Key))
	log.Debug().
		Int("data", len(data)).
		Int("container", len(blob)).
		Str("mime", mime).
		Msg("Packed payload")
	return Embed(c, blob, opts)
}

// Reveal extracts and parses a payload. A missing header or a key hint mismatch is
// reported through Status (and Err); the returned error is reserved for invalid
// parameters such as a bad region or bits-per-cell value.
func Reveal(c Carrier, opts Options) (*Revealed, error) {
	blob, err := Extract(c, opts)
	if err != nil {
		return nil, err
	}

	res := &Revealed{MagicOffset: -1}
	res.Meta, _ = TryUnpack(blob)

	if res.Meta == nil && opts.Probe {
		if _, isImage := c.(*Image); isImage {
			probe, err := Probe(c, opts)
			if err != nil {
				return nil, err
			}
			res.Probe = probe
			if probe.Match != nil {
				res.Meta = probe.Match.Meta
				variant := probe.Match.Variant
				res.Variant = &variant
				log.Info().Stringer("variant", variant).Msg("Recovered using alternate variant")
			}
		}
	}

	res.finish(blob, opts.Key)
	return res, nil
}

func (r *Revealed) finish(blob []byte, key uint64) {
	r.keyHint = KeyHint(key)
	switch {
	case r.Meta == nil:
		r.Status = StatusHeaderNotFound
		r.MagicOffset = FindMagic(blob, magicScanWindow)
	case r.Meta.KeyHint != r.keyHint:
		r.Status = StatusKeyMismatch
	default:
		r.Status = StatusOK
	}
}

// ConcealLegacyVideo frames data and embeds it with the legacy first-frame video scheme.
func ConcealLegacyVideo(v *Video, data []byte, mime string, key uint64) (*Video, error) {
	return EmbedLegacyVideo(v, Pack(data, mime, KeyHint(key)))
}

// RevealLegacyVideo extracts and parses a payload written by ConcealLegacyVideo.
func RevealLegacyVideo(v *Video, key uint64, maxBits int) (*Revealed, error) {
	if v == nil || v.Frames == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrUnsupported)
	}
	blob := ExtractLegacyVideo(v, maxBits)
	res := &Revealed{MagicOffset: -1}
	res.Meta, _ = TryUnpack(blob)
	res.finish(blob, key)
	return res, nil
}

// VerifyRoundTrip reveals stego with opts and checks that data comes back unchanged.
func VerifyRoundTrip(stego Carrier, data []byte, opts Options) error {
	opts.Probe = false
	opts.Progress = nil
	res, err := Reveal(stego, opts)
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return err
	}
	if !res.Meta.Complete || !bytes.Equal(res.Meta.Data, data) {
		return fmt.Errorf("round trip mismatch: embedded %d bytes, recovered %d", len(data), res.Meta.Length)
	}
	return nil
}
