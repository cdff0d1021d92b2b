package stego

// splitMix64 is the generator behind Permutation. Its output for a given seed is fixed, so
// encoders and decoders built independently visit cells in the same order.
type splitMix64 struct {
	state uint64
}

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Permutation returns a keyed Fisher-Yates shuffle of [0, n). Starting from the identity,
// for i from n-1 down to 1 it swaps positions i and j = next() mod (i+1), where next is
// SplitMix64 seeded with key.
func Permutation(n int, key uint64) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	shuffle(p, key)
	return p
}

func shuffle(p []int, key uint64) {
	r := &splitMix64{state: key}
	for i := len(p) - 1; i > 0; i-- {
		j := int(r.next() % uint64(i+1))
		p[i], p[j] = p[j], p[i]
	}
}

// Schedule returns the embedding order for c: the eligible cells of region, permuted by
// key. Element k is the cell that receives the k-th chunk of payload bits.
func Schedule(c Carrier, key uint64, region Region, order ChannelOrder) ([]int, error) {
	cells, err := c.Eligible(region, order)
	if err != nil {
		return nil, err
	}
	// Shuffling the eligible list in place is the same as indexing it with Permutation.
	shuffle(cells, key)
	return cells, nil
}
