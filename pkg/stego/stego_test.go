package stego

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func patternImage(t *testing.T, h, w int) *Image {
	t.Helper()
	pix := make([]uint8, h*w*3)
	// Fill with some pattern so it's not just zeroes
	for i := range pix {
		pix[i] = uint8(i*37 + 11)
	}
	img, err := NewImage(h, w, pix)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return img
}

func TestEmbedGolden(t *testing.T) {
	img, _ := NewImage(4, 4, make([]uint8, 4*4*3))

	// Schedule(key=42, RGB) starts 22, 0, 31, 41 (see TestScheduleGolden).
	tests := []struct {
		name string
		lsb  int
		want map[int]uint8
	}{
		{"one bit per cell", 1, map[int]uint8{22: 1, 31: 1}},
		{"two bits per cell", 2, map[int]uint8{22: 2, 0: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Embed(img, []byte{0xA0}, Options{LSB: tt.lsb, Key: 42})
			if err != nil {
				t.Fatalf("Embed failed: %v", err)
			}
			for i, v := range out.(*Image).Pix {
				if v != tt.want[i] {
					t.Errorf("Pix[%d] = %d; want %d", i, v, tt.want[i])
				}
			}
		})
	}
}

func TestConcealRevealImage(t *testing.T) {
	cover := patternImage(t, 8, 8)

	for _, lsb := range []int{1, 2, 3, 8} {
		for _, order := range []BitOrder{MSBFirst, LSBFirst} {
			opts := Options{LSB: lsb, Key: 42, BitOrder: order}
			data := []byte("hi")
			if lsb == 1 {
				data = nil // 192 bits hold the header and MIME only
			}

			stego, err := Conceal(cover, data, "text/plain", opts)
			if err != nil {
				t.Fatalf("lsb=%d %v: Conceal failed: %v", lsb, order, err)
			}

			res, err := Reveal(stego, opts)
			if err != nil {
				t.Fatalf("lsb=%d %v: Reveal failed: %v", lsb, order, err)
			}
			if res.Status != StatusOK {
				t.Fatalf("lsb=%d %v: status = %v", lsb, order, res.Status)
			}
			if !bytes.Equal(res.Meta.Data, data) || res.Meta.MIME != "text/plain" {
				t.Errorf("lsb=%d %v: got %q (%s)", lsb, order, res.Meta.Data, res.Meta.MIME)
			}
			if err := VerifyRoundTrip(stego, data, opts); err != nil {
				t.Errorf("lsb=%d %v: VerifyRoundTrip: %v", lsb, order, err)
			}
		}
	}
}

func TestConcealDoesNotMutateCover(t *testing.T) {
	cover := patternImage(t, 8, 8)
	before := append([]uint8(nil), cover.Pix...)

	if _, err := Conceal(cover, []byte("hi"), "text/plain", Options{LSB: 2, Key: 42}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(cover.Pix, before) {
		t.Error("Conceal modified the cover")
	}
}

func TestCapacityError(t *testing.T) {
	cover, _ := NewImage(4, 4, make([]uint8, 4*4*3))

	// 25-byte container (200 bits) against 4*4*3*2 = 96 bits.
	_, err := Conceal(cover, []byte("hi"), "text/plain", Options{LSB: 2, Key: 42})
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *CapacityError, got %T", err)
	}
	if capErr.Required != 200 || capErr.Available != 96 {
		t.Errorf("CapacityError = %+v; want required 200, available 96", capErr)
	}
	for i, v := range cover.Pix {
		if v != 0 {
			t.Fatalf("cover modified at %d", i)
		}
	}
}

func TestRegionOnlyTouchesRegion(t *testing.T) {
	cover := patternImage(t, 8, 8)
	region := Rect{Y0: 0, X0: 0, Height: 2, Width: 2}
	opts := Options{LSB: 2, Key: 7, Region: region}

	// 12 cells * 2 bits = 24 bits, exactly three bytes.
	payload := []byte{0xFF, 0x00, 0x5A}
	out, err := Embed(cover, payload, opts)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	stego := out.(*Image)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if y < 2 && x < 2 {
				continue
			}
			if !bytes.Equal(cover.At(x, y), stego.At(x, y)) {
				t.Errorf("pixel (%d,%d) outside region changed", x, y)
			}
		}
	}

	got, err := Extract(stego, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Extract() = %x; want %x", got, payload)
	}

	if _, err := Embed(cover, []byte{1, 2, 3, 4}, opts); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity for 32 bits in a 24-bit region, got %v", err)
	}
}

func TestRegionConcealReveal(t *testing.T) {
	cover := patternImage(t, 8, 8)
	opts := Options{LSB: 3, Key: 99, Region: Rect{Y0: 4, X0: 4, Height: 4, Width: 4}}

	stego, err := Conceal(cover, []byte("A"), "", opts)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Reveal(stego, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusOK || string(res.Meta.Data) != "A" {
		t.Errorf("Reveal() = %v %+v", res.Status, res.Meta)
	}

	// Without the region the schedule differs.
	opts.Region = nil
	res, err = Reveal(stego, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status == StatusOK {
		t.Error("Reveal without region should not succeed")
	}
}

func TestRegionErrors(t *testing.T) {
	img := patternImage(t, 8, 8)
	opts := Options{LSB: 1, Key: 1}

	opts.Region = Rect{Y0: 6, X0: 0, Height: 4, Width: 2}
	if _, err := Embed(img, []byte("x"), opts); !errors.Is(err, ErrBounds) {
		t.Errorf("expected ErrBounds, got %v", err)
	}

	opts.Region = Rect{Y0: -1, X0: 0, Height: 1, Width: 1}
	if _, err := Extract(img, opts); !errors.Is(err, ErrBounds) {
		t.Errorf("expected ErrBounds for negative origin, got %v", err)
	}

	// Sizes whose sum with the origin would wrap around.
	for _, r := range []Rect{
		{Y0: 1, X0: 0, Height: math.MaxInt, Width: 1},
		{Y0: 0, X0: 1, Height: 1, Width: math.MaxInt},
		{Y0: math.MaxInt, X0: 0, Height: 1, Width: 1},
	} {
		opts.Region = r
		if _, err := Embed(img, []byte("x"), opts); !errors.Is(err, ErrBounds) {
			t.Errorf("Embed(%v) error = %v; want ErrBounds", r, err)
		}
		if _, err := Extract(img, opts); !errors.Is(err, ErrBounds) {
			t.Errorf("Extract(%v) error = %v; want ErrBounds", r, err)
		}
	}

	opts.Region = Span{Start: 0, Length: 4}
	if _, err := Embed(img, []byte("x"), opts); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for span on image, got %v", err)
	}
}

func TestInvalidLSB(t *testing.T) {
	img := patternImage(t, 4, 4)
	for _, lsb := range []int{0, 9, -1} {
		if _, err := Embed(img, []byte("x"), Options{LSB: lsb}); !errors.Is(err, ErrInvalidLSB) {
			t.Errorf("Embed(lsb=%d) error = %v; want ErrInvalidLSB", lsb, err)
		}
		if _, err := Extract(img, Options{LSB: lsb}); !errors.Is(err, ErrInvalidLSB) {
			t.Errorf("Extract(lsb=%d) error = %v; want ErrInvalidLSB", lsb, err)
		}
	}
}

func TestWrongKey(t *testing.T) {
	cover := patternImage(t, 16, 16)
	stego, err := Conceal(cover, []byte("secret"), "text/plain", Options{LSB: 2, Key: 1234})
	if err != nil {
		t.Fatal(err)
	}

	res, err := Reveal(stego, Options{LSB: 2, Key: 1234})
	if err != nil || res.Status != StatusOK {
		t.Fatalf("Reveal with the right key = %v, %v", res, err)
	}
	if res.Meta.KeyHint != 1234 {
		t.Errorf("KeyHint = %d; want 1234", res.Meta.KeyHint)
	}

	res, err = Reveal(stego, Options{LSB: 2, Key: 5678})
	if err != nil {
		t.Fatal(err)
	}
	switch res.Status {
	case StatusHeaderNotFound:
		if !errors.Is(res.Err(), ErrHeaderNotFound) {
			t.Errorf("Err() = %v", res.Err())
		}
	case StatusKeyMismatch:
		if !errors.Is(res.Err(), ErrKeyMismatch) {
			t.Errorf("Err() = %v", res.Err())
		}
	default:
		t.Fatalf("Reveal with the wrong key reported %v", res.Status)
	}
}

func TestKeyMismatchStatus(t *testing.T) {
	// The same schedule (key) with a header written under a different hint.
	cover := patternImage(t, 8, 8)
	blob := Pack([]byte("x"), "", KeyHint(5))
	stego, err := Embed(cover, blob, Options{LSB: 2, Key: 9})
	if err != nil {
		t.Fatal(err)
	}

	res, err := Reveal(stego, Options{LSB: 2, Key: 9})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusKeyMismatch {
		t.Fatalf("Status = %v; want key mismatch", res.Status)
	}
	if !errors.Is(res.Err(), ErrKeyMismatch) || !strings.Contains(res.Err().Error(), "header hint 5") {
		t.Errorf("Err() = %v", res.Err())
	}
}

func TestRevealBlankCarrier(t *testing.T) {
	img, _ := NewImage(8, 8, make([]uint8, 8*8*3))
	res, err := Reveal(img, Options{LSB: 1, Key: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusHeaderNotFound || res.Meta != nil || res.MagicOffset != -1 {
		t.Errorf("Reveal() = %+v; want header not found", res)
	}
	if !errors.Is(res.Err(), ErrHeaderNotFound) {
		t.Errorf("Err() = %v", res.Err())
	}
}

func TestRevealReportsMisalignedMagic(t *testing.T) {
	cover := patternImage(t, 16, 16)
	blob := append([]byte{0, 0, 0}, Pack([]byte("x"), "", KeyHint(8))...)
	stego, err := Embed(cover, blob, Options{LSB: 1, Key: 8})
	if err != nil {
		t.Fatal(err)
	}

	res, err := Reveal(stego, Options{LSB: 1, Key: 8})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusHeaderNotFound || res.MagicOffset != 3 {
		t.Fatalf("Reveal() status %v offset %d; want header not found at offset 3", res.Status, res.MagicOffset)
	}
	if !strings.Contains(res.Err().Error(), "offset 3") {
		t.Errorf("Err() = %v", res.Err())
	}
}

func TestRevealMaxBits(t *testing.T) {
	cover := patternImage(t, 16, 16)
	opts := Options{LSB: 2, Key: 5}
	stego, err := Conceal(cover, []byte("0123456789"), "", opts)
	if err != nil {
		t.Fatal(err)
	}

	opts.MaxBits = (HeaderLen + 4) * 8
	res, err := Reveal(stego, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusOK || res.Meta.Complete || string(res.Meta.Data) != "0123" {
		t.Errorf("Reveal(MaxBits) = %v %+v; want partial \"0123\"", res.Status, res.Meta)
	}
	if err := VerifyRoundTrip(stego, []byte("0123456789"), opts); err == nil {
		t.Error("VerifyRoundTrip should reject a partial payload")
	}
}

func TestRevealTruncatedHeader(t *testing.T) {
	cover := patternImage(t, 16, 16)
	opts := Options{LSB: 1, Key: 5}
	stego, err := Conceal(cover, []byte("payload"), "text/plain", opts)
	if err != nil {
		t.Fatal(err)
	}

	// Enough bits for the fixed header but not for the MIME label.
	opts.MaxBits = (HeaderLen + 4) * 8
	res, err := Reveal(stego, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusHeaderNotFound || res.MagicOffset != 0 {
		t.Fatalf("Reveal() status %v offset %d; want header not found at offset 0", res.Status, res.MagicOffset)
	}
	if !errors.Is(res.Err(), ErrHeaderNotFound) || !strings.Contains(res.Err().Error(), "truncated") {
		t.Errorf("Err() = %v", res.Err())
	}
}

func TestAudioNegativeSamples(t *testing.T) {
	samples := make([]int16, 400)
	for i := range samples {
		samples[i] = int16(-32768 + i*163)
	}
	samples[0], samples[1], samples[2] = -1, -32768, 32767
	cover, err := NewAudio(2, samples)
	if err != nil {
		t.Fatal(err)
	}
	if cover.Frames() != 200 {
		t.Errorf("Frames() = %d; want 200", cover.Frames())
	}

	opts := Options{LSB: 2, Key: 42}
	out, err := Conceal(cover, []byte("hi"), "text/plain", opts)
	if err != nil {
		t.Fatalf("Conceal failed: %v", err)
	}
	stego := out.(*Audio)

	for i := range samples {
		if diff := uint16(cover.Samples[i]) ^ uint16(stego.Samples[i]); diff&^3 != 0 {
			t.Fatalf("sample %d: %d -> %d changed more than the low bits", i, cover.Samples[i], stego.Samples[i])
		}
	}

	res, err := Reveal(stego, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusOK || string(res.Meta.Data) != "hi" {
		t.Errorf("Reveal() = %v %+v", res.Status, res.Meta)
	}
}

func TestAudioSpan(t *testing.T) {
	samples := make([]int16, 1000)
	for i := range samples {
		samples[i] = int16(i - 500)
	}
	cover, _ := NewAudio(1, samples)
	opts := Options{LSB: 4, Key: 11, Region: Span{Start: 200, Length: 100}}

	out, err := Conceal(cover, []byte("abc"), "", opts)
	if err != nil {
		t.Fatal(err)
	}
	stego := out.(*Audio)
	for i := range samples {
		if (i < 200 || i >= 300) && stego.Samples[i] != samples[i] {
			t.Fatalf("sample %d outside span changed", i)
		}
	}

	res, err := Reveal(stego, opts)
	if err != nil || res.Status != StatusOK || string(res.Meta.Data) != "abc" {
		t.Errorf("Reveal() = %+v, %v", res, err)
	}

	opts.Region = Span{Start: 950, Length: 100}
	if _, err := Reveal(stego, opts); !errors.Is(err, ErrBounds) {
		t.Errorf("expected ErrBounds, got %v", err)
	}

	for _, span := range []Span{{Start: 1, Length: math.MaxInt}, {Start: math.MaxInt, Length: 1}} {
		opts.Region = span
		if _, err := Extract(stego, opts); !errors.Is(err, ErrBounds) {
			t.Errorf("Extract(%v) error = %v; want ErrBounds", span, err)
		}
		if _, err := RegionCapacityBits(stego, span, 1); !errors.Is(err, ErrBounds) {
			t.Errorf("RegionCapacityBits(%v) error = %v; want ErrBounds", span, err)
		}
	}

	opts.Region = Rect{Height: 1, Width: 1}
	if _, err := Reveal(stego, opts); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for rect on audio, got %v", err)
	}
}

func TestVideoGeneralScheme(t *testing.T) {
	const frames, h, w = 3, 8, 8
	pix := make([]uint8, frames*h*w*3)
	for i := range pix {
		pix[i] = uint8(i * 7)
	}
	cover, err := NewVideo(frames, h, w, pix)
	if err != nil {
		t.Fatal(err)
	}

	region := Rect{Y0: 2, X0: 2, Height: 4, Width: 4}
	opts := Options{LSB: 1, Key: 21, Region: region}
	out, err := Conceal(cover, []byte("hey"), "", opts)
	if err != nil {
		t.Fatalf("Conceal failed: %v", err)
	}
	stego := out.(*Video)

	touched := make([]bool, frames)
	for f := 0; f < frames; f++ {
		a, b := cover.Frame(f), stego.Frame(f)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				inside := y >= 2 && y < 6 && x >= 2 && x < 6
				same := bytes.Equal(a.At(x, y), b.At(x, y))
				if !inside && !same {
					t.Fatalf("frame %d pixel (%d,%d) outside region changed", f, x, y)
				}
				if !same {
					touched[f] = true
				}
			}
		}
	}
	for f, ok := range touched {
		if !ok {
			t.Errorf("frame %d carries no payload bits", f)
		}
	}

	res, err := Reveal(stego, opts)
	if err != nil || res.Status != StatusOK || string(res.Meta.Data) != "hey" {
		t.Errorf("Reveal() = %+v, %v", res, err)
	}
}

func TestNewCarrierValidation(t *testing.T) {
	if _, err := NewImage(2, 2, make([]uint8, 11)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("NewImage with wrong length: %v", err)
	}
	if _, err := NewAudio(2, make([]int16, 3)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("NewAudio with odd stereo length: %v", err)
	}
	if _, err := NewVideo(0, 2, 2, nil); !errors.Is(err, ErrUnsupported) {
		t.Errorf("NewVideo with no frames: %v", err)
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in      string
		want    Region
		wantErr bool
	}{
		{"", nil, false},
		{"0,0,2,2", Rect{Y0: 0, X0: 0, Height: 2, Width: 2}, false},
		{" 10, 20 ", Span{Start: 10, Length: 20}, false},
		{"1,2,3", nil, true},
		{"3abc,1", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseRegion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRegion(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRegion(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
