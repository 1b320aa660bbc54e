// Package beamcheck drives the demand/capacity pipeline for one simply
// supported member against one candidate product: normalize geometry,
// aggregate loads, solve demands, fetch capacities, compute utilizations,
// classify the verdict.
package beamcheck

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"Lintel/internal/calc/factors"
	"Lintel/internal/calc/geometry"
	"Lintel/internal/calc/loads"
	"Lintel/internal/calc/mechanics"
	"Lintel/internal/catalog"
)

// DefaultCautionThreshold marks a passing utilization as WARNING when the
// margin is this thin. Configurable per call; the exact production value
// is still with the certifying engineer.
const DefaultCautionThreshold = 0.95

// Status is the overall verdict for one (beam, product) pair.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
)

// Controlling factor names.
const (
	FactorBending    = "bending"
	FactorShear      = "shear"
	FactorDeflection = "deflection"
)

// PointLoad is one concentrated load on the beam as supplied by the
// caller. Position follows the Unit tag of the input.
type PointLoad struct {
	MagnitudeKN float64 `json:"magnitude_kn"`
	Position    float64 `json:"position"`
}

// Input is the beam description handed over by the persistence layer or
// the stateless tools endpoint.
type Input struct {
	Unit       string    `json:"unit"` // "mm" or "m", default mm
	Span       float64   `json:"span"`
	Supports   []float64 `json:"supports,omitempty"`
	MemberType string    `json:"member_type"`

	DeadLoadKPa float64     `json:"dead_load_kpa"`
	LiveLoadKPa float64     `json:"live_load_kpa"`
	SDLKPa      float64     `json:"sdl_kpa"`
	SpacingM    float64     `json:"spacing_m"`
	PointLoads  []PointLoad `json:"point_loads,omitempty"`

	Standard   string             `json:"standard"` // default NZS3603:1993
	Conditions factors.Conditions `json:"conditions"`

	// Zero means DefaultCautionThreshold.
	CautionThreshold float64 `json:"caution_threshold,omitempty"`
}

// InvalidCapacityError means the capacity provider produced a non-positive
// capacity, which indicates bad product or section data rather than bad
// user input.
type InvalidCapacityError struct {
	Factor string
	Value  float64
}

func (e *InvalidCapacityError) Error() string {
	return fmt.Sprintf("invalid %s capacity %.4g: check product section data", e.Factor, e.Value)
}

// Result is the immutable calculation record. A re-calculation produces a
// new record superseding the old one; nothing here is ever edited after
// assembly.
type Result struct {
	ID          string `json:"id"`
	ProductCode string `json:"product_code,omitempty"`

	DemandMoment     float64 `json:"demand_moment"`     // kNm
	DemandShear      float64 `json:"demand_shear"`      // kN
	DemandDeflection float64 `json:"demand_deflection"` // mm

	MomentPositionMM  float64 `json:"moment_position_mm"`
	ShearPositionMM   float64 `json:"shear_position_mm"`
	DeflectPositionMM float64 `json:"deflection_position_mm"`

	CapacityMoment  float64 `json:"capacity_moment"` // kNm
	CapacityShear   float64 `json:"capacity_shear"`  // kN
	DeflectionLimit float64 `json:"deflection_limit"` // mm

	UtilizationMoment     float64 `json:"utilization_moment"`
	UtilizationShear      float64 `json:"utilization_shear"`
	UtilizationDeflection float64 `json:"utilization_deflection"`

	CalcStatus        Status `json:"calc_status"`
	ControllingFactor string `json:"controlling_factor"`
	CalcStandard      string `json:"calc_standard"`
	CalcVersion       string `json:"calc_version"`

	// All point loads, including ones inside the support exclusion zone,
	// kept for display and audit.
	PointLoads []loads.PointLoad `json:"point_loads,omitempty"`

	UDLKNM   float64   `json:"udl_kn_m"`
	SpanMM   float64   `json:"span_mm"`
	CalcDate time.Time `json:"calc_date"`
}

// Calculate runs the full pipeline for one beam against one candidate
// product. It is a pure function of its arguments apart from the record id
// and timestamp; any failure is terminal and no partial result is
// returned.
func Calculate(in Input, section catalog.SectionProperties) (Result, error) {
	positions := make([]float64, 0, len(in.PointLoads))
	magnitudes := make([]float64, 0, len(in.PointLoads))
	for _, p := range in.PointLoads {
		positions = append(positions, p.Position)
		magnitudes = append(magnitudes, p.MagnitudeKN)
	}

	beam, err := geometry.Normalize(geometry.Raw{
		Unit:               in.Unit,
		Span:               in.Span,
		Supports:           in.Supports,
		PointLoadPositions: positions,
	})
	if err != nil {
		return Result{}, err
	}

	loadCase, err := loads.Aggregate(loads.Input{
		DeadLoadKPa:  in.DeadLoadKPa,
		LiveLoadKPa:  in.LiveLoadKPa,
		SDLKPa:       in.SDLKPa,
		SpacingM:     in.SpacingM,
		PointLoadsKN: magnitudes,
	}, beam)
	if err != nil {
		return Result{}, err
	}

	demand, err := mechanics.Solve(beam.SpanMM, loadCase.UDLKNM, loadCase.PointLoads, section.EI())
	if err != nil {
		return Result{}, err
	}

	standard := in.Standard
	if standard == "" {
		standard = factors.NZS3603.Standard
	}
	table, err := factors.Lookup(standard)
	if err != nil {
		return Result{}, err
	}
	capacity, err := table.Capacities(section, beam.SpanMM, in.MemberType, in.Conditions)
	if err != nil {
		return Result{}, err
	}

	utilMoment, err := utilization(FactorBending, demand.MomentKNM, capacity.MomentKNM)
	if err != nil {
		return Result{}, err
	}
	utilShear, err := utilization(FactorShear, demand.ShearKN, capacity.ShearKN)
	if err != nil {
		return Result{}, err
	}
	utilDeflection, err := utilization(FactorDeflection, demand.DeflectionMM, capacity.DeflectionLimitMM)
	if err != nil {
		return Result{}, err
	}

	controlling, worst := FactorBending, utilMoment
	if utilShear > worst {
		controlling, worst = FactorShear, utilShear
	}
	if utilDeflection > worst {
		controlling, worst = FactorDeflection, utilDeflection
	}

	threshold := in.CautionThreshold
	if threshold == 0 {
		threshold = DefaultCautionThreshold
	}

	return Result{
		ID:                    uuid.NewString(),
		DemandMoment:          demand.MomentKNM,
		DemandShear:           demand.ShearKN,
		DemandDeflection:      demand.DeflectionMM,
		MomentPositionMM:      demand.MomentPositionMM,
		ShearPositionMM:       demand.ShearPositionMM,
		DeflectPositionMM:     demand.DeflectPositionMM,
		CapacityMoment:        capacity.MomentKNM,
		CapacityShear:         capacity.ShearKN,
		DeflectionLimit:       capacity.DeflectionLimitMM,
		UtilizationMoment:     utilMoment,
		UtilizationShear:      utilShear,
		UtilizationDeflection: utilDeflection,
		CalcStatus:            Classify(worst, threshold),
		ControllingFactor:     controlling,
		CalcStandard:          capacity.Standard,
		CalcVersion:           capacity.Version,
		PointLoads:            loadCase.PointLoads,
		UDLKNM:                loadCase.UDLKNM,
		SpanMM:                beam.SpanMM,
		CalcDate:              time.Now().UTC(),
	}, nil
}

// Classify maps the governing utilization to a verdict. Exactly 1.0 is
// still adequate; FAIL starts strictly above it. WARNING means "passes
// with little margin".
func Classify(worst, cautionThreshold float64) Status {
	switch {
	case worst > 1.0:
		return StatusFail
	case worst >= cautionThreshold:
		return StatusWarning
	default:
		return StatusPass
	}
}

func utilization(factor string, demand, capacity float64) (float64, error) {
	if capacity <= 0 {
		return 0, &InvalidCapacityError{Factor: factor, Value: capacity}
	}
	return demand / capacity, nil
}
