package stego

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// AnalysisResult holds metrics about the comparison between a cover and its stego.
type AnalysisResult struct {
	MSE          float64 // Mean Squared Error per cell
	PSNR         float64 // Peak Signal-to-Noise Ratio (dB), +Inf when identical
	ChangedCells int
	Cells        int
}

// Analyze compares two carriers of the same medium and shape.
func Analyze(cover, stego Carrier, progress Progress) (*AnalysisResult, error) {
	if cover.Len() != stego.Len() || cover.CellBits() != stego.CellBits() {
		return nil, fmt.Errorf("carrier shapes do not match: %d vs %d cells", cover.Len(), stego.Len())
	}

	bits := cover.CellBits()
	var sumSquaredError float64
	changed := 0

	for i := 0; i < cover.Len(); i++ {
		// Whole-cell values; signed audio is compared on its unsigned pattern, which gives
		// the same difference for a low-bit change.
		v1 := float64(cover.ReadBits(i, bits))
		v2 := float64(stego.ReadBits(i, bits))
		diff := v1 - v2
		if diff != 0 {
			changed++
			sumSquaredError += diff * diff
		}
		if progress != nil {
			_ = progress.Add(1)
		}
	}

	res := &AnalysisResult{ChangedCells: changed, Cells: cover.Len()}
	if cover.Len() == 0 {
		return res, nil
	}
	res.MSE = sumSquaredError / float64(cover.Len())
	peak := math.Exp2(float64(bits)) - 1
	if res.MSE == 0 {
		res.PSNR = math.Inf(1)
	} else {
		res.PSNR = 10 * math.Log10(peak*peak/res.MSE)
	}
	return res, nil
}

// DifferenceMap renders the summed absolute channel difference of each pixel, amplified
// 32 times and clipped, as a grayscale image. Black means unchanged.
func DifferenceMap(cover, stego *Image) (*image.Gray, error) {
	if cover.Height != stego.Height || cover.Width != stego.Width {
		return nil, fmt.Errorf("image dimensions do not match: %dx%d vs %dx%d", cover.Height, cover.Width, stego.Height, stego.Width)
	}

	out := image.NewGray(image.Rect(0, 0, cover.Width, cover.Height))
	for y := 0; y < cover.Height; y++ {
		for x := 0; x < cover.Width; x++ {
			p1, p2 := cover.At(x, y), stego.At(x, y)
			var diffSum float64
			for c := 0; c < 3; c++ {
				diffSum += math.Abs(float64(p1[c]) - float64(p2[c]))
			}
			out.SetGray(x, y, color.Gray{Y: uint8(math.Min(255, diffSum*32))})
		}
	}
	return out, nil
}
