package geometry

import (
	"fmt"
	"sort"
)

// Unit tags accepted on raw input. Everything is normalized to millimetres
// internally so point-load placement does not accumulate meter-scale
// floating point drift.
const (
	UnitMM = "mm"
	UnitM  = "m"
)

// Raw is the beam description as it arrives from the caller (persistence
// layer or request body). Either Span or at least two Supports must be
// given; positions are absolute along the beam, measured from the left
// support inside face.
type Raw struct {
	Unit               string    `json:"unit"` // "mm" or "m", defaults to mm
	Span               float64   `json:"span"`
	Supports           []float64 `json:"supports"`
	PointLoadPositions []float64 `json:"point_load_positions"`
}

// Beam is the normalized single-span geometry. All values in millimetres,
// left support at origin.
type Beam struct {
	SpanMM             float64
	SupportLeftMM      float64
	SupportRightMM     float64
	PointLoadPositions []float64
}

// InvalidGeometryError reports malformed span/support input. Field names
// the offending input so the caller can surface it against the right form
// field.
type InvalidGeometryError struct {
	Field  string
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s: %s", e.Field, e.Reason)
}

// Normalize converts a raw beam description into millimetre geometry with
// the left support at zero. Pure transform, no side effects.
func Normalize(raw Raw) (Beam, error) {
	scale, err := unitScale(raw.Unit)
	if err != nil {
		return Beam{}, err
	}

	var left, right float64
	switch {
	case len(raw.Supports) > 0:
		if len(raw.Supports) < 2 {
			return Beam{}, &InvalidGeometryError{Field: "supports", Reason: "a simply supported span needs two supports"}
		}
		supports := append([]float64(nil), raw.Supports...)
		// Input order is not trusted, position decides left and right.
		sort.Float64s(supports)
		left = supports[0] * scale
		right = supports[len(supports)-1] * scale
		if right == left {
			return Beam{}, &InvalidGeometryError{Field: "supports", Reason: "supports must be distinct positions"}
		}
	default:
		left = 0
		right = raw.Span * scale
	}

	span := right - left
	if span <= 0 {
		return Beam{}, &InvalidGeometryError{Field: "span", Reason: "span must be positive"}
	}

	positions := make([]float64, 0, len(raw.PointLoadPositions))
	for i, p := range raw.PointLoadPositions {
		pos := p*scale - left
		if pos < 0 || pos > span {
			return Beam{}, &InvalidGeometryError{
				Field:  fmt.Sprintf("point_load_positions[%d]", i),
				Reason: "position lies outside the span",
			}
		}
		positions = append(positions, pos)
	}

	return Beam{
		SpanMM:             span,
		SupportLeftMM:      0,
		SupportRightMM:     span,
		PointLoadPositions: positions,
	}, nil
}

func unitScale(unit string) (float64, error) {
	switch unit {
	case UnitMM, "":
		return 1, nil
	case UnitM:
		return 1000, nil
	default:
		return 0, &InvalidGeometryError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q", unit)}
	}
}
