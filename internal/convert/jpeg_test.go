package convert

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/mrsinham/dicomwindow/internal/window"
)

func TestShape_PassThrough(t *testing.T) {
	c := window.NewComposite(4, 4)
	if img := Shape(c, 0, false, window.DefaultSpecs()); img != image.Image(c) {
		t.Error("Shape without options should return the composite itself")
	}
}

func TestShape_Resize(t *testing.T) {
	c := window.NewComposite(8, 16)
	img := Shape(c, 32, false, window.DefaultSpecs())
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("Resized bounds = %v, want 32x32", img.Bounds())
	}
}

func TestShape_AnnotateDrawsLabels(t *testing.T) {
	c := window.NewComposite(64, 256)
	img := Shape(c, 0, true, window.DefaultSpecs()).(*image.RGBA)

	red := false
	for x := 0; x < 256 && !red; x++ {
		for y := 0; y < 16; y++ {
			if p := img.RGBAAt(x, y); p.R > 0 && p.G == 0 && p.B == 0 {
				red = true
				break
			}
		}
	}
	if !red {
		t.Error("First label should be drawn in the channel 0 colour")
	}
}

func TestWriteJPEG_BadPath(t *testing.T) {
	err := WriteJPEG(filepath.Join(t.TempDir(), "missing", "x.jpg"), window.NewComposite(2, 2), 0)
	if err == nil {
		t.Error("WriteJPEG into a missing directory should return error")
	}
}
