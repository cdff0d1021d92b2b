package media

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/andresmejia3/stg/pkg/stego"
)

func imageFormat(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tif", ".tiff":
		return "tiff"
	}
	return strings.TrimPrefix(ext, ".")
}

func loadImage(path string) (*stego.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return FromImage(img)
}

// FromImage converts any decoded image to an RGB carrier. Alpha is dropped.
func FromImage(img image.Image) (*stego.Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, 0, width*height*3)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix = append(pix, c.R, c.G, c.B)
		}
	}
	return stego.NewImage(height, width, pix)
}

// ToImage converts an RGB carrier to an opaque NRGBA image.
func ToImage(img *stego.Image) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		copy(out.Pix[i*4:i*4+3], img.Pix[i*3:i*3+3])
		out.Pix[i*4+3] = 0xff
	}
	return out
}

func saveImage(path string, img *stego.Image) error {
	return WriteImage(path, ToImage(img))
}

// WriteImage encodes img to path as PNG, BMP or TIFF depending on the extension.
func WriteImage(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".bmp", ".tif", ".tiff":
	default:
		return fmt.Errorf("%w: image output %q (want .png, .bmp or .tiff)", stego.ErrUnsupported, path)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch ext {
	case ".bmp":
		err = bmp.Encode(file, img)
	case ".tif", ".tiff":
		err = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return err
	}
	return file.Close()
}
