package stego

import "fmt"

// Image is an H×W×3 8-bit RGB carrier stored row-major with interleaved channels.
type Image struct {
	Height int
	Width  int
	Pix    []uint8
}

// NewImage wraps pix as an image carrier. It rejects shapes that are not H×W×3.
func NewImage(height, width int, pix []uint8) (*Image, error) {
	if height <= 0 || width <= 0 || len(pix) != height*width*3 {
		return nil, fmt.Errorf("%w: image %dx%d with %d samples (want H*W*3)", ErrUnsupported, height, width, len(pix))
	}
	return &Image{Height: height, Width: width, Pix: pix}, nil
}

func (img *Image) Len() int      { return len(img.Pix) }
func (img *Image) CellBits() int { return 8 }

func (img *Image) ReadBits(i, n int) uint16 {
	return uint16(img.Pix[i]) & lowMask(n)
}

func (img *Image) WriteBits(i, n int, v uint16) {
	mask := uint8(lowMask(n))
	img.Pix[i] = img.Pix[i]&^mask | uint8(v)&mask
}

func (img *Image) Eligible(region Region, order ChannelOrder) ([]int, error) {
	var pos []int
	switch r := region.(type) {
	case nil:
		pos = Rect{Height: img.Height, Width: img.Width}.positions(img.Width)
	case Rect:
		if err := r.check(img.Height, img.Width); err != nil {
			return nil, err
		}
		pos = r.positions(img.Width)
	default:
		return nil, unsupportedRegion(region, "image")
	}
	return expandChannels(pos, order), nil
}

func (img *Image) Clone() Carrier {
	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{Height: img.Height, Width: img.Width, Pix: pix}
}

// At returns the three channel samples of pixel (x, y).
func (img *Image) At(x, y int) []uint8 {
	offset := (y*img.Width + x) * 3
	return img.Pix[offset : offset+3]
}
