package loads

import (
	"fmt"
	"math"

	"Lintel/internal/calc/geometry"
)

// SupportExclusionMM is the zone next to each support inside which a point
// load transfers negligible moment and the simplified beam model is not
// reliable. Loads landing there are kept for display but dropped from the
// demand sums. Domain constant, not configurable per call.
const SupportExclusionMM = 100.0

// Input carries the area loads and tributary spacing for one member.
// Loads in kPa, spacing in metres. PointLoadsKN pairs index-for-index with
// the normalized point-load positions on the beam.
type Input struct {
	DeadLoadKPa  float64 `json:"dead_load_kpa"`
	LiveLoadKPa  float64 `json:"live_load_kpa"`
	SDLKPa       float64 `json:"sdl_kpa"`
	SpacingM     float64 `json:"spacing_m"`
	PointLoadsKN []float64
}

// PointLoad is one concentrated load. DistanceMM is measured from the left
// support inside face; the conversion from absolute beam position happens
// here, not in the solver.
type PointLoad struct {
	MagnitudeKN             float64 `json:"magnitude_kn"`
	DistanceMM              float64 `json:"distance_mm"`
	ExcludedFromCalculation bool    `json:"excluded_from_calculation"`
}

// Case is the canonical load case for one span. UDL is always derived from
// its components at aggregation time, never carried separately.
type Case struct {
	DeadLoadKPa float64
	LiveLoadKPa float64
	SDLKPa      float64
	SpacingM    float64
	UDLKNM      float64
	PointLoads  []PointLoad
}

// InvalidLoadError reports negative load components or non-positive
// spacing.
type InvalidLoadError struct {
	Field  string
	Reason string
}

func (e *InvalidLoadError) Error() string {
	return fmt.Sprintf("invalid load: %s: %s", e.Field, e.Reason)
}

// Aggregate combines the area loads into a line load scaled by member
// spacing and re-expresses the beam's point loads as distances from the
// left support. Point-load magnitudes pair index-for-index with the
// normalized positions on beam.
func Aggregate(in Input, beam geometry.Beam) (Case, error) {
	if in.SpacingM <= 0 {
		return Case{}, &InvalidLoadError{Field: "spacing_m", Reason: "spacing must be positive"}
	}
	if in.DeadLoadKPa < 0 {
		return Case{}, &InvalidLoadError{Field: "dead_load_kpa", Reason: "load component must not be negative"}
	}
	if in.LiveLoadKPa < 0 {
		return Case{}, &InvalidLoadError{Field: "live_load_kpa", Reason: "load component must not be negative"}
	}
	if in.SDLKPa < 0 {
		return Case{}, &InvalidLoadError{Field: "sdl_kpa", Reason: "load component must not be negative"}
	}

	if len(in.PointLoadsKN) != len(beam.PointLoadPositions) {
		return Case{}, &InvalidLoadError{
			Field:  "point_loads",
			Reason: "every point load needs both a magnitude and a position",
		}
	}
	points := make([]PointLoad, 0, len(beam.PointLoadPositions))
	for i, dist := range beam.PointLoadPositions {
		magnitude := in.PointLoadsKN[i]
		if magnitude < 0 {
			return Case{}, &InvalidLoadError{
				Field:  fmt.Sprintf("point_loads[%d]", i),
				Reason: "magnitude must not be negative",
			}
		}
		nearest := math.Min(dist, beam.SpanMM-dist)
		points = append(points, PointLoad{
			MagnitudeKN:             magnitude,
			DistanceMM:              dist,
			ExcludedFromCalculation: nearest < SupportExclusionMM,
		})
	}

	return Case{
		DeadLoadKPa: in.DeadLoadKPa,
		LiveLoadKPa: in.LiveLoadKPa,
		SDLKPa:      in.SDLKPa,
		SpacingM:    in.SpacingM,
		UDLKNM:      (in.DeadLoadKPa + in.LiveLoadKPa + in.SDLKPa) * in.SpacingM,
		PointLoads:  points,
	}, nil
}
