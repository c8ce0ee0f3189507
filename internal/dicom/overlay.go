package dicom

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textMask renders text with basicfont and scales it so it spans about 30%
// of targetWidth. The returned mask is non-zero where glyphs are.
func textMask(text string, targetWidth int) *image.Alpha {
	face := basicfont.Face7x13
	baseWidth := font.MeasureString(face, text).Ceil()
	baseHeight := 13
	if baseWidth == 0 {
		return image.NewAlpha(image.Rect(0, 0, 0, 0))
	}

	base := image.NewAlpha(image.Rect(0, 0, baseWidth, baseHeight))
	d := &font.Drawer{
		Dst:  base,
		Src:  image.NewUniform(color.Alpha{A: 255}),
		Face: face,
		Dot:  fixed.Point26_6{Y: fixed.I(11)},
	}
	d.DrawString(text)

	scale := float64(targetWidth) * 0.3 / float64(baseWidth)
	if scale < 2.0 {
		scale = 2.0
	}
	scaled := image.NewAlpha(image.Rect(0, 0, int(float64(baseWidth)*scale), int(float64(baseHeight)*scale)))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), base, base.Bounds(), draw.Over, nil)
	return scaled
}

// burnText writes text into a row-major uint16 frame, horizontally centred
// near the bottom edge. Glyph pixels take fg and a circular outline takes bg.
func burnText(pix []uint16, width, height int, text string, fg, bg uint16) {
	mask := textMask(text, width)
	mw, mh := mask.Bounds().Dx(), mask.Bounds().Dy()
	if mw == 0 || mh == 0 {
		return
	}

	posX := (width - mw) / 2
	posY := height - mh - height/20

	set := func(x, y int, v uint16) {
		if x >= 0 && x < width && y >= 0 && y < height {
			pix[y*width+x] = v
		}
	}

	outline := max(2, mh/10)
	for sy := 0; sy < mh; sy++ {
		for sx := 0; sx < mw; sx++ {
			if mask.AlphaAt(sx, sy).A == 0 {
				continue
			}
			for dy := -outline; dy <= outline; dy++ {
				for dx := -outline; dx <= outline; dx++ {
					if dx*dx+dy*dy <= outline*outline {
						set(posX+sx+dx, posY+sy+dy, bg)
					}
				}
			}
		}
	}

	for sy := 0; sy < mh; sy++ {
		for sx := 0; sx < mw; sx++ {
			if mask.AlphaAt(sx, sy).A > 127 {
				set(posX+sx, posY+sy, fg)
			}
		}
	}
}
