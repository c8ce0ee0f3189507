package window

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// CalibrationSource records where calibration parameters came from.
type CalibrationSource int

const (
	// FromFile means both rescale values were present and parsed.
	FromFile CalibrationSource = iota
	// Defaulted means at least one value was missing or malformed and the
	// identity parameters were substituted.
	Defaulted
)

// String returns a short label for reports.
func (s CalibrationSource) String() string {
	if s == Defaulted {
		return "defaulted"
	}
	return "file"
}

// Calibration holds the linear rescale parameters of a file.
type Calibration struct {
	Slope     float64
	Intercept float64
	Source    CalibrationSource
}

// Identity is the calibration substituted when rescale tags are unusable.
var Identity = Calibration{Slope: 1, Intercept: 0, Source: Defaulted}

// IsIdentity reports whether applying c leaves values unchanged.
func (c Calibration) IsIdentity() bool {
	return c.Slope == 1 && c.Intercept == 0
}

// ParseCalibration parses RescaleSlope and RescaleIntercept Decimal String
// values. An empty or unparseable value for either falls back to Identity.
func ParseCalibration(slope, intercept string) Calibration {
	s, ok := parseDS(slope)
	if !ok {
		return Identity
	}
	i, ok := parseDS(intercept)
	if !ok {
		return Identity
	}
	return Calibration{Slope: s, Intercept: i, Source: FromFile}
}

// parseDS parses a DICOM Decimal String, tolerating space and NUL padding.
func parseDS(v string) (float64, bool) {
	v = strings.Trim(v, " \x00")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Calibrate returns raw*slope + intercept as a new plane. When c is the
// identity the result is an unmodified copy.
func Calibrate(raw *Plane, c Calibration) *Plane {
	out := raw.Clone()
	if !c.IsIdentity() {
		floats.Scale(c.Slope, out.Data)
		floats.AddConst(c.Intercept, out.Data)
	}
	return out
}
