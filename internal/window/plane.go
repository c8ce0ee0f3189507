// Package window implements the pixel transformation pipeline: rescale
// calibration, width/level windowing and 3-channel compositing.
package window

import (
	"fmt"
	"image"
	"image/color"
)

// Plane is a row-major 2D grid of float64 intensity values.
type Plane struct {
	Rows int
	Cols int
	Data []float64
}

// NewPlane wraps data as a rows x cols plane. The slice is used as-is.
func NewPlane(rows, cols int, data []float64) (*Plane, error) {
	p := &Plane{Rows: rows, Cols: cols, Data: data}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate reports whether p has positive dimensions matching its data.
func (p *Plane) Validate() error {
	if p == nil {
		return fmt.Errorf("nil plane")
	}
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("invalid plane dimensions %dx%d", p.Rows, p.Cols)
	}
	if len(p.Data) != p.Rows*p.Cols {
		return fmt.Errorf("plane data has %d values, want %d (%dx%d)", len(p.Data), p.Rows*p.Cols, p.Rows, p.Cols)
	}
	return nil
}

// At returns the value at column x, row y.
func (p *Plane) At(x, y int) float64 {
	return p.Data[y*p.Cols+x]
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	data := make([]float64, len(p.Data))
	copy(data, p.Data)
	return &Plane{Rows: p.Rows, Cols: p.Cols, Data: data}
}

// Composite is a Rows x Cols x 3 interleaved 8-bit buffer. It implements
// image.Image so it can be handed to an encoder directly.
type Composite struct {
	Rows int
	Cols int
	Pix  []uint8
}

// NewComposite allocates a zeroed composite buffer.
func NewComposite(rows, cols int) *Composite {
	return &Composite{Rows: rows, Cols: cols, Pix: make([]uint8, rows*cols*3)}
}

// Channel returns channel c (0, 1 or 2) as a standalone gray plane.
func (c *Composite) Channel(ch int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, c.Cols, c.Rows))
	for i := 0; i < c.Rows*c.Cols; i++ {
		g.Pix[i] = c.Pix[i*3+ch]
	}
	return g
}

// ColorModel implements image.Image.
func (c *Composite) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (c *Composite) Bounds() image.Rectangle { return image.Rect(0, 0, c.Cols, c.Rows) }

// At implements image.Image.
func (c *Composite) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= c.Cols || y >= c.Rows {
		return color.RGBA{}
	}
	i := (y*c.Cols + x) * 3
	return color.RGBA{R: c.Pix[i], G: c.Pix[i+1], B: c.Pix[i+2], A: 255}
}

// RGBA copies the composite into an opaque *image.RGBA.
func (c *Composite) RGBA() *image.RGBA {
	img := image.NewRGBA(c.Bounds())
	for i := 0; i < c.Rows*c.Cols; i++ {
		img.Pix[i*4] = c.Pix[i*3]
		img.Pix[i*4+1] = c.Pix[i*3+1]
		img.Pix[i*4+2] = c.Pix[i*3+2]
		img.Pix[i*4+3] = 255
	}
	return img
}
