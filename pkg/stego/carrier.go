package stego

import (
	"fmt"
	"strconv"
	"strings"
)

// Carrier is a fixed-size array of integer cells whose low bits can be rewritten.
// Medium adapters implement cell access and the enumeration of eligible cells; the
// scheduler and the embed/extract algorithm are shared.
type Carrier interface {
	// Len is the number of cells.
	Len() int
	// CellBits is the bit width of one cell.
	CellBits() int
	// ReadBits returns the n low bits of cell i.
	ReadBits(i, n int) uint16
	// WriteBits replaces the n low bits of cell i with the low n bits of v.
	WriteBits(i, n int, v uint16)
	// Eligible lists the cells inside region (nil = whole carrier) in canonical order.
	Eligible(region Region, order ChannelOrder) ([]int, error)
	// Clone returns a deep copy.
	Clone() Carrier
}

// ChannelOrder is the order in which colour channel blocks are laid out before shuffling.
type ChannelOrder int

const (
	RGB ChannelOrder = iota
	BGR
)

func (o ChannelOrder) String() string {
	if o == BGR {
		return "BGR"
	}
	return "RGB"
}

func (o ChannelOrder) channels() []int {
	if o == BGR {
		return []int{2, 1, 0}
	}
	return []int{0, 1, 2}
}

// ParseChannelOrder accepts "RGB" or "BGR" in any case.
func ParseChannelOrder(s string) (ChannelOrder, error) {
	switch strings.ToUpper(s) {
	case "", "RGB":
		return RGB, nil
	case "BGR":
		return BGR, nil
	}
	return RGB, fmt.Errorf("unknown channel order %q (want RGB or BGR)", s)
}

// Region restricts embedding to part of a carrier. A nil Region means the whole carrier.
type Region interface {
	fmt.Stringer
	region()
}

// Rect is a rectangular pixel area of an image or of every video frame.
type Rect struct {
	Y0, X0        int
	Height, Width int
}

func (r Rect) region() {}

func (r Rect) String() string {
	return fmt.Sprintf("rect(y0=%d,x0=%d,h=%d,w=%d)", r.Y0, r.X0, r.Height, r.Width)
}

func (r Rect) check(height, width int) error {
	if r.Y0 < 0 || r.X0 < 0 || r.Height < 0 || r.Width < 0 ||
		r.Y0 > height || r.X0 > width || r.Height > height-r.Y0 || r.Width > width-r.X0 {
		return &BoundsError{Region: r, Shape: fmt.Sprintf("%dx%d", height, width)}
	}
	return nil
}

// positions lists pixel indices inside the rectangle in row-major order.
func (r Rect) positions(width int) []int {
	pos := make([]int, 0, r.Height*r.Width)
	for y := r.Y0; y < r.Y0+r.Height; y++ {
		for x := r.X0; x < r.X0+r.Width; x++ {
			pos = append(pos, y*width+x)
		}
	}
	return pos
}

// Span is a contiguous range of flattened audio samples.
type Span struct {
	Start, Length int
}

func (s Span) region() {}

func (s Span) String() string {
	return fmt.Sprintf("span(start=%d,len=%d)", s.Start, s.Length)
}

// ParseRegion parses "y0,x0,h,w" into a Rect and "start,len" into a Span. An empty string
// yields a nil Region.
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid region %q: %v", s, err)
		}
		nums[i] = n
	}
	switch len(nums) {
	case 2:
		return Span{Start: nums[0], Length: nums[1]}, nil
	case 4:
		return Rect{Y0: nums[0], X0: nums[1], Height: nums[2], Width: nums[3]}, nil
	}
	return nil, fmt.Errorf("invalid region %q: want y0,x0,h,w or start,len", s)
}

// expandChannels lays out every position once per channel, one contiguous block per
// channel in the given order.
func expandChannels(pos []int, order ChannelOrder) []int {
	cells := make([]int, 0, len(pos)*3)
	for _, c := range order.channels() {
		for _, p := range pos {
			cells = append(cells, p*3+c)
		}
	}
	return cells
}

func unsupportedRegion(region Region, medium string) error {
	return fmt.Errorf("%w: %T region on %s", ErrUnsupported, region, medium)
}
