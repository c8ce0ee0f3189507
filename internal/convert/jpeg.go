package convert

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"

	"github.com/mrsinham/dicomwindow/internal/window"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 95

// Shape applies the optional resize and annotation to a composite. With
// neither requested the composite itself is returned.
func Shape(c *window.Composite, resize int, annotate bool, specs [3]window.Spec) image.Image {
	if resize <= 0 && !annotate {
		return c
	}

	var img *image.RGBA
	if resize > 0 && (resize != c.Cols || resize != c.Rows) {
		img = image.NewRGBA(image.Rect(0, 0, resize, resize))
		draw.CatmullRom.Scale(img, img.Bounds(), c, c.Bounds(), draw.Src, nil)
	} else {
		img = c.RGBA()
	}

	if annotate {
		drawLabels(img, specs)
	}
	return img
}

// drawLabels writes one line per channel in the top-left corner, each in
// the colour of the channel it describes.
func drawLabels(img *image.RGBA, specs [3]window.Spec) {
	face := basicfont.Face7x13
	colors := [3]color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
	}
	for ch, s := range specs {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(colors[ch]),
			Face: face,
			Dot:  fixed.P(4, 13*(ch+1)),
		}
		d.DrawString(s.String())
	}
}

// WriteJPEG encodes img to path.
func WriteJPEG(path string, img image.Image, quality int) error {
	if quality <= 0 {
		quality = DefaultQuality
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
