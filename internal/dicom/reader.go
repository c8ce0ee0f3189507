// Package dicom reads CT slices for windowing and writes synthetic CT
// slices for exercising the converter.
package dicom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrsinham/dicomwindow/internal/window"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrNoPixelData is returned for files without a PixelData element.
var ErrNoPixelData = errors.New("no pixel data")

// ErrEncapsulated is returned for compressed (encapsulated) pixel data.
var ErrEncapsulated = errors.New("encapsulated pixel data is not supported")

// Slice is a single decoded image with its rescale parameters.
type Slice struct {
	Path        string
	Pixels      *window.Plane
	Calibration window.Calibration
	Frames      int // number of frames in the file; only the first is decoded
}

// ReadSlice parses the DICOM file at path and decodes the first frame.
func ReadSlice(path string) (*Slice, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return SliceFromDataset(path, ds)
}

// SliceFromDataset extracts pixels and calibration from an already parsed
// dataset.
func SliceFromDataset(path string, ds dicom.Dataset) (*Slice, error) {
	pixelElem, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, ErrNoPixelData
	}
	info, ok := pixelElem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok || len(info.Frames) == 0 {
		return nil, ErrNoPixelData
	}
	if info.IsEncapsulated || info.Frames[0].Encapsulated {
		return nil, ErrEncapsulated
	}

	native := info.Frames[0].NativeData
	if native == nil {
		return nil, ErrNoPixelData
	}
	rows, cols := native.Rows(), native.Cols()

	signed := intValue(ds, tag.PixelRepresentation, 0) == 1
	bitsStored := intValue(ds, tag.BitsStored, 16)

	data := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			px, err := native.GetPixel(x, y)
			if err != nil {
				return nil, fmt.Errorf("read pixel (%d,%d): %w", x, y, err)
			}
			v := px[0]
			if signed {
				v = signExtend(v, bitsStored)
			}
			data[y*cols+x] = float64(v)
		}
	}

	plane, err := window.NewPlane(rows, cols, data)
	if err != nil {
		return nil, err
	}

	return &Slice{
		Path:   path,
		Pixels: plane,
		Calibration: window.ParseCalibration(
			stringValue(ds, tag.RescaleSlope),
			stringValue(ds, tag.RescaleIntercept),
		),
		Frames: len(info.Frames),
	}, nil
}

// signExtend reinterprets the low bits of a stored word as a two's
// complement number. Bits above BitsStored (sign fill, padding, overlays)
// are discarded first.
func signExtend(v, bits int) int {
	if bits <= 0 || bits >= 32 {
		return v
	}
	v &= 1<<bits - 1
	if v&(1<<(bits-1)) != 0 {
		return v - 1<<bits
	}
	return v
}

// stringValue returns the first string value of t, or "" if absent.
func stringValue(ds dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return ""
	}
	switch v := elem.Value.GetValue().(type) {
	case []string:
		if len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
	case []float64:
		if len(v) > 0 {
			return fmt.Sprintf("%g", v[0])
		}
	}
	return ""
}

// intValue returns the first integer value of t, or def if absent.
func intValue(ds dicom.Dataset, t tag.Tag, def int) int {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return def
	}
	if v, ok := elem.Value.GetValue().([]int); ok && len(v) > 0 {
		return v[0]
	}
	return def
}
