package stego

import "fmt"

// BitOrder selects whether a byte's bits are emitted high-bit-first or low-bit-first.
type BitOrder int

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

func (o BitOrder) String() string {
	if o == LSBFirst {
		return "lsb-first"
	}
	return "msb-first"
}

// ParseBitOrder accepts "msb", "msb-first", "lsb" or "lsb-first".
func ParseBitOrder(s string) (BitOrder, error) {
	switch s {
	case "", "msb", "msb-first":
		return MSBFirst, nil
	case "lsb", "lsb-first":
		return LSBFirst, nil
	}
	return MSBFirst, fmt.Errorf("unknown bit order %q (want msb-first or lsb-first)", s)
}

// BytesToBits expands data into one 0/1 value per bit.
func BytesToBits(data []byte, order BitOrder) []uint8 {
	bits := make([]uint8, 0, len(data)*8)
	for _, b := range data {
		for i := 0; i < 8; i++ {
			index := 7 - i
			if order == LSBFirst {
				index = i
			}
			bits = append(bits, uint8(getBitUint8(b, index)))
		}
	}
	return bits
}

// BitsToBytes packs bits back into bytes. A short final byte is padded with zero bits at
// the end of the sequence, which is the low end for MSBFirst and the high end for LSBFirst.
func BitsToBytes(bits []uint8, order BitOrder) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit&1 == 0 {
			continue
		}
		index := 7 - i%8
		if order == LSBFirst {
			index = i % 8
		}
		out[i/8] = setBitUint8(out[i/8], index)
	}
	return out
}

func getBit(num int, index int) int {
	mask := 1 << index
	if num&mask == 0 {
		return 0
	}
	return 1
}

func getBitUint8(num uint8, index int) int {
	mask := uint8(1 << index)
	if num&mask == 0 {
		return 0
	}
	return 1
}

func setBitUint8(num uint8, index int) uint8 {
	mask := uint8(1 << index)
	return num | mask
}

// lowMask returns a mask covering the n low bits of a cell.
func lowMask(n int) uint16 {
	return uint16(1)<<n - 1
}
