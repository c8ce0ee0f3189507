package dicom

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrsinham/dicomwindow/internal/window"
)

// generateOne writes a single 64x64 sample with the given edge case.
func generateOne(t *testing.T, edge EdgeCase) string {
	t.Helper()
	opts := SampleOptions{
		NumImages: 1,
		Width:     64,
		Height:    64,
		OutputDir: t.TempDir(),
		Seed:      42,
		Quiet:     true,
	}
	if edge != NoEdgeCase {
		opts.EdgeCases = EdgeCaseConfig{Percentage: 100, Types: []EdgeCase{edge}}
	}
	files, err := GenerateSamples(opts)
	if err != nil {
		t.Fatalf("GenerateSamples failed: %v", err)
	}
	if files[0].EdgeCase != edge {
		t.Fatalf("Expected edge case %q, got %q", edge, files[0].EdgeCase)
	}
	return files[0].Path
}

func TestReadSlice_CT(t *testing.T) {
	path := generateOne(t, NoEdgeCase)

	s, err := ReadSlice(path)
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}

	if s.Pixels.Rows != 64 || s.Pixels.Cols != 64 {
		t.Errorf("Expected 64x64 pixels, got %dx%d", s.Pixels.Rows, s.Pixels.Cols)
	}
	if s.Frames != 1 {
		t.Errorf("Expected 1 frame, got %d", s.Frames)
	}
	want := window.Calibration{Slope: 1, Intercept: -1024, Source: window.FromFile}
	if s.Calibration != want {
		t.Errorf("Calibration = %+v, want %+v", s.Calibration, want)
	}

	// Corner is air: about -1000 HU, stored around 24
	corner := s.Pixels.At(0, 0)
	if corner < 14 || corner > 34 {
		t.Errorf("Corner stored value = %v, want 14-34", corner)
	}
	// Centre is a ventricle: about 5 HU, stored around 1029
	centre := s.Pixels.At(32, 32)
	if centre < 1019 || centre > 1039 {
		t.Errorf("Centre stored value = %v, want 1019-1039", centre)
	}
}

func TestReadSlice_MissingRescaleDefaults(t *testing.T) {
	s, err := ReadSlice(generateOne(t, MissingRescale))
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}
	if s.Calibration != window.Identity {
		t.Errorf("Calibration = %+v, want identity", s.Calibration)
	}
}

func TestReadSlice_MalformedRescaleDefaults(t *testing.T) {
	s, err := ReadSlice(generateOne(t, MalformedRescale))
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}
	if s.Calibration.Source != window.Defaulted {
		t.Errorf("Calibration source = %v, want defaulted", s.Calibration.Source)
	}
	if !s.Calibration.IsIdentity() {
		t.Errorf("Calibration = %+v, want identity", s.Calibration)
	}
}

func TestReadSlice_FlatPixels(t *testing.T) {
	s, err := ReadSlice(generateOne(t, FlatPixels))
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}
	for i, v := range s.Pixels.Data {
		if v != 1074 {
			t.Fatalf("Data[%d] = %v, want constant 1074", i, v)
		}
	}
}

func TestReadSlice_Truncated(t *testing.T) {
	if _, err := ReadSlice(generateOne(t, TruncatedPixels)); err == nil {
		t.Error("ReadSlice of truncated file should return error")
	}
}

func TestReadSlice_NotDICOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not a dicom file"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := ReadSlice(path); err == nil {
		t.Error("ReadSlice of a text file should return error")
	}
}

func TestReadSlice_MissingFile(t *testing.T) {
	_, err := ReadSlice(filepath.Join(t.TempDir(), "absent.dcm"))
	if err == nil {
		t.Fatal("ReadSlice of a missing file should return error")
	}
	if errors.Is(err, ErrNoPixelData) {
		t.Error("Missing file should not be reported as missing pixel data")
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		v, bits, want int
	}{
		{0, 16, 0},
		{1024, 16, 1024},
		{0xFFFF, 16, -1},
		{0xFC00, 16, -1024},
		{0x0800, 12, -2048},
		{0x07FF, 12, 2047},
		{-5, 16, -5},
		{0xFC18, 12, -1000}, // -1000 sign-filled to 16 bits
		{0xF064, 12, 100},   // 100 with bits set above BitsStored
		{0xF800, 12, -2048},
		{0xFFFF, 12, -1},
		{-1000, 12, -1000},
	}
	for _, tt := range tests {
		if got := signExtend(tt.v, tt.bits); got != tt.want {
			t.Errorf("signExtend(%#x, %d) = %d, want %d", tt.v, tt.bits, got, tt.want)
		}
	}
}

func TestReadSlice_SignedPixels(t *testing.T) {
	files, err := GenerateSamples(SampleOptions{
		NumImages: 1,
		Width:     64,
		Height:    64,
		OutputDir: t.TempDir(),
		Seed:      42,
		Signed:    true,
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("GenerateSamples failed: %v", err)
	}

	s, err := ReadSlice(files[0].Path)
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}
	want := window.Calibration{Slope: 1, Intercept: 0, Source: window.FromFile}
	if s.Calibration != want {
		t.Errorf("Calibration = %+v, want %+v", s.Calibration, want)
	}

	// Air is negative HU stored directly: about -1000
	corner := s.Pixels.At(0, 0)
	if corner < -1010 || corner > -990 {
		t.Errorf("Corner stored value = %v, want -1010 to -990", corner)
	}
	centre := s.Pixels.At(32, 32)
	if centre < -5 || centre > 15 {
		t.Errorf("Centre stored value = %v, want -5 to 15", centre)
	}
	// Glyph fill decodes to the top of the signed range
	if maxVal := floatsMax(s.Pixels.Data); maxVal != 2047 {
		t.Errorf("Maximum stored value = %v, want 2047", maxVal)
	}
}

func TestReadSlice_SignedMatchesUnsignedHU(t *testing.T) {
	gen := func(signed bool) *Slice {
		files, err := GenerateSamples(SampleOptions{
			NumImages: 1,
			Width:     48,
			Height:    48,
			OutputDir: t.TempDir(),
			Seed:      9,
			Signed:    signed,
			Quiet:     true,
		})
		if err != nil {
			t.Fatalf("GenerateSamples failed: %v", err)
		}
		s, err := ReadSlice(files[0].Path)
		if err != nil {
			t.Fatalf("ReadSlice failed: %v", err)
		}
		return s
	}
	unsigned, signed := gen(false), gen(true)

	hu := window.Calibrate(unsigned.Pixels, unsigned.Calibration)
	shu := window.Calibrate(signed.Pixels, signed.Calibration)
	// Same phantom and noise; encodings differ only in truncation direction
	for _, xy := range [][2]int{{24, 24}, {10, 24}, {24, 10}, {2, 2}} {
		a, b := hu.At(xy[0], xy[1]), shu.At(xy[0], xy[1])
		if math.Abs(a-b) > 1 {
			t.Errorf("HU at (%d,%d): unsigned %v, signed %v", xy[0], xy[1], a, b)
		}
	}
}

func floatsMax(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = max(m, x)
	}
	return m
}

func TestReadSlice_MultiFrame(t *testing.T) {
	files, err := GenerateSamples(SampleOptions{
		NumImages: 1,
		Width:     32,
		Height:    32,
		OutputDir: t.TempDir(),
		Seed:      5,
		Frames:    2,
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("GenerateSamples failed: %v", err)
	}
	s, err := ReadSlice(files[0].Path)
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}
	if s.Frames != 2 {
		t.Errorf("Expected 2 frames, got %d", s.Frames)
	}
	if s.Pixels.Rows != 32 || s.Pixels.Cols != 32 {
		t.Errorf("Expected 32x32 pixels, got %dx%d", s.Pixels.Rows, s.Pixels.Cols)
	}
}
