package window

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func mustPlane(t *testing.T, rows, cols int, data []float64) *Plane {
	t.Helper()
	p, err := NewPlane(rows, cols, data)
	if err != nil {
		t.Fatalf("NewPlane failed: %v", err)
	}
	return p
}

func TestSpec_Bounds(t *testing.T) {
	lower, upper := Spec{Width: 80, Level: 40}.Bounds()
	if lower != 0 || upper != 80 {
		t.Errorf("Bounds() = (%v, %v), want (0, 80)", lower, upper)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		spec Spec
		want []uint8
	}{
		{
			name: "inside window stretches to full range",
			data: []float64{0, 64, 128, 256},
			spec: Spec{Width: 1000, Level: 0},
			want: []uint8{0, 63, 127, 255},
		},
		{
			name: "clipped both sides",
			data: []float64{-1000, 0, 40, 80, 1000},
			spec: Spec{Width: 80, Level: 40},
			want: []uint8{0, 0, 127, 255, 255},
		},
		{
			name: "minimum above lower bound",
			data: []float64{20, 60},
			spec: Spec{Width: 80, Level: 40},
			want: []uint8{0, 255},
		},
		{
			name: "negative level",
			data: []float64{-1350, -600, 150, 500},
			spec: Spec{Width: 1500, Level: -600},
			want: []uint8{0, 127, 255, 255},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPlane(t, 1, len(tt.data), tt.data)
			g, err := Apply(p, tt.spec, DegenerateZero)
			if err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}
			for i, want := range tt.want {
				if g.Pix[i] != want {
					t.Errorf("Pix[%d] = %d, want %d", i, g.Pix[i], want)
				}
			}
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	p := mustPlane(t, 1, 3, []float64{-500, 40, 500})
	if _, err := Apply(p, Spec{Width: 80, Level: 40}, DegenerateZero); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if p.Data[0] != -500 || p.Data[2] != 500 {
		t.Errorf("Input was modified: %v", p.Data)
	}
}

func TestApply_ExtremesMapToFullRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	data := make([]float64, 64*64)
	for i := range data {
		data[i] = 100 + rng.Float64()*50
	}
	p := mustPlane(t, 64, 64, data)

	g, err := Apply(p, Spec{Width: 400, Level: 100}, DegenerateZero)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	minIdx, maxIdx := 0, 0
	for i, v := range data {
		if v < data[minIdx] {
			minIdx = i
		}
		if v > data[maxIdx] {
			maxIdx = i
		}
	}
	if g.Pix[minIdx] != 0 {
		t.Errorf("Minimum input should map to 0, got %d", g.Pix[minIdx])
	}
	if g.Pix[maxIdx] != 255 {
		t.Errorf("Maximum input should map to 255, got %d", g.Pix[maxIdx])
	}
}

func TestApply_Degenerate(t *testing.T) {
	constant := make([]float64, 16)
	for i := range constant {
		constant[i] = 50
	}
	p := mustPlane(t, 4, 4, constant)
	spec := Spec{Name: "flat", Width: 100, Level: 50}

	t.Run("zero", func(t *testing.T) {
		g, err := Apply(p, spec, DegenerateZero)
		if err != nil {
			t.Fatalf("Apply returned error: %v", err)
		}
		for i, v := range g.Pix {
			if v != 0 {
				t.Fatalf("Pix[%d] = %d, want 0", i, v)
			}
		}
	})

	t.Run("mid", func(t *testing.T) {
		g, err := Apply(p, spec, DegenerateMid)
		if err != nil {
			t.Fatalf("Apply returned error: %v", err)
		}
		for i, v := range g.Pix {
			if v != 127 {
				t.Fatalf("Pix[%d] = %d, want 127", i, v)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		_, err := Apply(p, spec, DegenerateError)
		if !errors.Is(err, ErrDegenerateWindow) {
			t.Fatalf("Expected ErrDegenerateWindow, got %v", err)
		}
		var dwe *DegenerateWindowError
		if !errors.As(err, &dwe) {
			t.Fatalf("Expected *DegenerateWindowError, got %T", err)
		}
		if dwe.Value != 50 {
			t.Errorf("DegenerateWindowError.Value = %v, want 50", dwe.Value)
		}
	})

	t.Run("everything clipped", func(t *testing.T) {
		air := mustPlane(t, 1, 3, []float64{-1024, -1000, -900})
		g, err := Apply(air, Spec{Width: 80, Level: 40}, DegenerateZero)
		if err != nil {
			t.Fatalf("Apply returned error: %v", err)
		}
		for i, v := range g.Pix {
			if v != 0 {
				t.Errorf("Pix[%d] = %d, want 0", i, v)
			}
		}
	})

	t.Run("zero width", func(t *testing.T) {
		varied := mustPlane(t, 1, 3, []float64{0, 40, 80})
		_, err := Apply(varied, Spec{Width: 0, Level: 40}, DegenerateError)
		if !errors.Is(err, ErrDegenerateWindow) {
			t.Errorf("Zero width should be degenerate, got %v", err)
		}
	})
}

// A CT slice calibrated with intercept -1024 and read through a brain window.
func TestApply_CTBrainWindow(t *testing.T) {
	const size = 512
	raw := make([]float64, size*size)
	for i := range raw {
		raw[i] = float64(i % 2048)
	}
	p := mustPlane(t, size, size, raw)

	hu := Calibrate(p, ParseCalibration("1", "-1024"))
	g, err := Apply(hu, Spec{Width: 80, Level: 40}, DegenerateZero)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if g.Bounds().Dx() != size || g.Bounds().Dy() != size {
		t.Fatalf("Expected %dx%d plane, got %v", size, size, g.Bounds())
	}

	// raw 1064 -> 40 HU, the window level
	v := g.Pix[1064]
	if v < 127 || v > 128 {
		t.Errorf("Level value should map to 127-128, got %d", v)
	}
	if g.Pix[0] != 0 {
		t.Errorf("Air should map to 0, got %d", g.Pix[0])
	}
	if g.Pix[2047] != 255 {
		t.Errorf("Dense values should map to 255, got %d", g.Pix[2047])
	}
}

func TestParseDegeneratePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    DegeneratePolicy
		wantErr bool
	}{
		{"", DegenerateZero, false},
		{"zero", DegenerateZero, false},
		{"MID", DegenerateMid, false},
		{" error ", DegenerateError, false},
		{"nan", DegenerateZero, true},
	}

	for _, tt := range tests {
		got, err := ParseDegeneratePolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDegeneratePolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDegeneratePolicy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestApply_InvalidPlane(t *testing.T) {
	brain := Spec{Width: 80, Level: 40}
	planes := map[string]*Plane{
		"nil":        nil,
		"zero value": {},
		"data short": {Rows: 2, Cols: 2, Data: []float64{1, 2, 3}},
		"no rows":    {Rows: 0, Cols: 4, Data: nil},
	}
	for name, p := range planes {
		t.Run(name, func(t *testing.T) {
			if _, err := Apply(p, brain, DegenerateZero); err == nil {
				t.Error("Expected error for invalid plane, got nil")
			}
			if _, err := Compose(p, DefaultSpecs(), DegenerateZero); err == nil {
				t.Error("Expected Compose error for invalid plane, got nil")
			}
		})
	}
}
