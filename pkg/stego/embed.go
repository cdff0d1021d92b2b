package stego

import (
	"github.com/rs/zerolog/log"
)

// Progress receives the number of cells processed since the last call. A
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// Options are the parameters encoder and decoder must agree on, plus decode-side knobs.
type Options struct {
	LSB          int
	Key          uint64
	Region       Region
	BitOrder     BitOrder
	ChannelOrder ChannelOrder

	// MaxBits caps how many bits Extract reads. Zero reads the full capacity.
	MaxBits int

	// Probe lets Reveal retry the alternate bit/channel orders on images.
	Probe bool

	Progress Progress
}

func (o Options) progress(n int) {
	if o.Progress != nil {
		_ = o.Progress.Add(n)
	}
}

// chunk packs up to lsb bits starting at bits[from] into a cell value. Missing bits past
// the end of the payload are zero.
func chunk(bits []uint8, from, lsb int, order BitOrder) uint16 {
	var v uint16
	for k := 0; k < lsb; k++ {
		var bit uint16
		if from+k < len(bits) {
			bit = uint16(bits[from+k] & 1)
		}
		if order == LSBFirst {
			v |= bit << k
		} else {
			v = v<<1 | bit
		}
	}
	return v
}

// Embed writes payload into a copy of c and returns the copy. It fails with a
// *CapacityError before touching any cell when the payload does not fit.
func Embed(c Carrier, payload []byte, opts Options) (Carrier, error) {
	if err := checkLSB(opts.LSB); err != nil {
		return nil, err
	}

	order, err := Schedule(c, opts.Key, opts.Region, opts.ChannelOrder)
	if err != nil {
		return nil, err
	}

	bits := BytesToBits(payload, opts.BitOrder)
	chunks := (len(bits) + opts.LSB - 1) / opts.LSB

	log.Debug().
		Int("cells", len(order)).
		Int("lsb", opts.LSB).
		Int("required", len(bits)).
		Int("available", len(order)*opts.LSB).
		Msg("Embedding payload")

	if chunks > len(order) {
		return nil, &CapacityError{Required: len(bits), Available: len(order) * opts.LSB}
	}

	out := c.Clone()
	for k, cell := range order[:chunks] {
		out.WriteBits(cell, opts.LSB, chunk(bits, k*opts.LSB, opts.LSB, opts.BitOrder))
		opts.progress(1)
	}
	return out, nil
}

// Extract reads the low bits of c in embedding order and packs them into bytes. It reads
// opts.MaxBits bits, or every eligible bit when MaxBits is zero; the payload length is not
// known here, so callers rely on the container header to trim the result.
func Extract(c Carrier, opts Options) ([]byte, error) {
	if err := checkLSB(opts.LSB); err != nil {
		return nil, err
	}

	order, err := Schedule(c, opts.Key, opts.Region, opts.ChannelOrder)
	if err != nil {
		return nil, err
	}

	total := len(order) * opts.LSB
	if opts.MaxBits > 0 && opts.MaxBits < total {
		total = opts.MaxBits
	}

	bits := make([]uint8, 0, total)
	for _, cell := range order {
		if len(bits) >= total {
			break
		}
		v := c.ReadBits(cell, opts.LSB)
		for k := 0; k < opts.LSB && len(bits) < total; k++ {
			index := opts.LSB - 1 - k
			if opts.BitOrder == LSBFirst {
				index = k
			}
			bits = append(bits, uint8(getBit(int(v), index)))
		}
		opts.progress(1)
	}

	log.Debug().Int("bits", len(bits)).Int("lsb", opts.LSB).Msg("Extracted bitstream")
	return BitsToBytes(bits, opts.BitOrder), nil
}
