package window

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Spec is a window width/level pair.
type Spec struct {
	Name  string
	Width float64
	Level float64
}

// Bounds returns the visible range [lower, upper].
func (s Spec) Bounds() (lower, upper float64) {
	return s.Level - s.Width/2, s.Level + s.Width/2
}

// String returns "name (W/L)" or "W/L" when unnamed.
func (s Spec) String() string {
	wl := fmt.Sprintf("%g/%g", s.Width, s.Level)
	if s.Name == "" {
		return wl
	}
	return fmt.Sprintf("%s (%s)", s.Name, wl)
}

// DegeneratePolicy decides the output when the clipped data has no range.
type DegeneratePolicy string

const (
	DegenerateZero  DegeneratePolicy = "zero"  // every pixel 0
	DegenerateMid   DegeneratePolicy = "mid"   // every pixel 127
	DegenerateError DegeneratePolicy = "error" // return *DegenerateWindowError
)

// AllDegeneratePolicies returns the supported policies.
func AllDegeneratePolicies() []DegeneratePolicy {
	return []DegeneratePolicy{DegenerateZero, DegenerateMid, DegenerateError}
}

// ParseDegeneratePolicy parses a policy name. Empty selects DegenerateZero.
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	switch DegeneratePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DegenerateZero:
		return DegenerateZero, nil
	case DegenerateMid:
		return DegenerateMid, nil
	case DegenerateError:
		return DegenerateError, nil
	default:
		return DegenerateZero, fmt.Errorf("invalid degenerate policy %q (valid: %v)", s, AllDegeneratePolicies())
	}
}

// ErrDegenerateWindow is matched by every *DegenerateWindowError.
var ErrDegenerateWindow = errors.New("degenerate window")

// DegenerateWindowError reports a window whose clipped input is constant.
type DegenerateWindowError struct {
	Spec  Spec
	Value float64 // the constant clipped value
}

func (e *DegenerateWindowError) Error() string {
	return fmt.Sprintf("degenerate window %s: clipped data is constant at %g", e.Spec, e.Value)
}

// Is makes errors.Is(err, ErrDegenerateWindow) succeed.
func (e *DegenerateWindowError) Is(target error) bool {
	return target == ErrDegenerateWindow
}

// Apply maps p through the window s into an 8-bit plane.
//
// Values are clipped to the window bounds, shifted so the clipped minimum is
// 0, divided by the shifted maximum and scaled to 255 with truncation. The
// normalisation uses the actual clipped extrema, so data narrower than the
// window is stretched to the full range.
func Apply(p *Plane, s Spec, policy DegeneratePolicy) (*image.Gray, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	lower, upper := s.Bounds()

	ar := make([]float64, len(p.Data))
	for i, v := range p.Data {
		if v < lower {
			v = lower
		}
		if v > upper {
			v = upper
		}
		ar[i] = v
	}

	out := image.NewGray(image.Rect(0, 0, p.Cols, p.Rows))

	minVal := floats.Min(ar)
	floats.AddConst(-minVal, ar)
	maxVal := floats.Max(ar)
	if maxVal == 0 {
		switch policy {
		case DegenerateError:
			return nil, &DegenerateWindowError{Spec: s, Value: minVal}
		case DegenerateMid:
			for i := range out.Pix {
				out.Pix[i] = 127
			}
		}
		return out, nil
	}

	for i, v := range ar {
		out.Pix[i] = uint8(v / maxVal * 255.0)
	}
	return out, nil
}
