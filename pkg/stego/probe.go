package stego

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Variant is one bit-order / channel-order convention.
type Variant struct {
	BitOrder     BitOrder
	ChannelOrder ChannelOrder
}

func (v Variant) String() string {
	return fmt.Sprintf("%s/%s", v.BitOrder, v.ChannelOrder)
}

// ProbeVariants is the fixed order in which Probe tries conventions.
var ProbeVariants = []Variant{
	{MSBFirst, RGB},
	{LSBFirst, RGB},
	{MSBFirst, BGR},
	{LSBFirst, BGR},
}

// Attempt is the outcome of decoding with one variant. Meta is nil when no header was
// recognized; Err is set when extraction itself failed.
type Attempt struct {
	Variant Variant
	Meta    *Metadata
	Err     error
}

// ProbeResult lists the attempts made. Match points at the successful attempt, if any.
type ProbeResult struct {
	Attempts []Attempt
	Match    *Attempt
}

// Probe retries extraction of an image with every variant in ProbeVariants and stops at
// the first one whose bitstream starts with a container header. Only opts.BitOrder and
// opts.ChannelOrder are overridden.
func Probe(c Carrier, opts Options) (*ProbeResult, error) {
	if _, ok := c.(*Image); !ok {
		return nil, fmt.Errorf("%w: probing is only defined for images, got %T", ErrUnsupported, c)
	}

	res := &ProbeResult{}
	for _, variant := range ProbeVariants {
		o := opts
		o.BitOrder = variant.BitOrder
		o.ChannelOrder = variant.ChannelOrder
		o.Progress = nil

		attempt := Attempt{Variant: variant}
		blob, err := Extract(c, o)
		if err != nil {
			attempt.Err = err
		} else {
			attempt.Meta, _ = TryUnpack(blob)
		}
		res.Attempts = append(res.Attempts, attempt)

		if attempt.Meta != nil {
			res.Match = &res.Attempts[len(res.Attempts)-1]
			log.Debug().Stringer("variant", variant).Msg("Probe recognized header")
			return res, nil
		}
		log.Debug().Stringer("variant", variant).Err(attempt.Err).Msg("Probe variant failed")
	}
	return res, nil
}
