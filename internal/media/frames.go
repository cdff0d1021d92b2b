package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andresmejia3/stg/pkg/stego"
)

// loadFrames reads every PNG in dir, in name order, as one video.
func loadFrames(dir string) (*stego.Video, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no PNG frames in %s", stego.ErrUnsupported, dir)
	}
	sort.Strings(names)

	var height, width int
	var pix []uint8
	for i, name := range names {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", name, err)
		}
		if i == 0 {
			height, width = img.Height, img.Width
			pix = make([]uint8, 0, len(names)*height*width*3)
		} else if img.Height != height || img.Width != width {
			return nil, fmt.Errorf("%w: frame %s is %dx%d, first frame is %dx%d",
				stego.ErrUnsupported, name, img.Width, img.Height, width, height)
		}
		pix = append(pix, img.Pix...)
	}
	return stego.NewVideo(len(names), height, width, pix)
}

func saveFrames(dir string, v *stego.Video) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for f := 0; f < v.Frames; f++ {
		path := filepath.Join(dir, fmt.Sprintf("frame_%05d.png", f))
		if err := saveImage(path, v.Frame(f)); err != nil {
			return fmt.Errorf("frame %d: %w", f, err)
		}
	}
	return nil
}
