package mechanics

import (
	"fmt"
	"math"

	"Lintel/internal/calc/loads"
)

// Demand holds the governing effects for one simply supported span,
// with the positions (from the left support, mm) where each occurs.
type Demand struct {
	MomentKNM         float64
	MomentPositionMM  float64
	ShearKN           float64
	ShearPositionMM   float64
	DeflectionMM      float64
	DeflectPositionMM float64
}

// ComputationError flags invalid input reaching the solver. Geometry
// validation happens upstream, so this is defensive only.
type ComputationError struct {
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error: %s", e.Reason)
}

// Solve computes the maximum bending moment, shear and deflection for a
// simply supported single span carrying a UDL plus zero or more point
// loads, by superposition of closed-form solutions.
//
//	spanMM  - clear span (mm)
//	udlKNM  - line load (kN/m); numerically equal to N/mm
//	points  - point loads by distance from the left support; loads flagged
//	          ExcludedFromCalculation contribute nothing
//	eiNmm2  - flexural rigidity E*I (N*mm^2)
//
// The governing moment is found by evaluating the combined moment function
// at midspan and under every included point load. With asymmetric point
// loads the peak can shift away from midspan, so midspan alone is not
// assumed.
func Solve(spanMM, udlKNM float64, points []loads.PointLoad, eiNmm2 float64) (Demand, error) {
	if spanMM <= 0 {
		return Demand{}, &ComputationError{Reason: "span must be positive"}
	}
	if eiNmm2 <= 0 {
		return Demand{}, &ComputationError{Reason: "flexural rigidity must be positive"}
	}

	L := spanMM
	w := udlKNM // kN/m == N/mm

	included := make([]loads.PointLoad, 0, len(points))
	for _, p := range points {
		if !p.ExcludedFromCalculation {
			included = append(included, p)
		}
	}

	// Bending: scan candidate positions for the combined maximum.
	candidates := []float64{L / 2}
	for _, p := range included {
		candidates = append(candidates, p.DistanceMM)
	}
	var mMax, mPos float64
	for _, x := range candidates {
		m := momentAt(x, L, w, included)
		if m > mMax {
			mMax, mPos = m, x
		}
	}

	// Shear: the larger support reaction governs.
	rLeft := w * L / 2  // N
	rRight := w * L / 2 // N
	for _, p := range included {
		a := p.DistanceMM
		b := L - a
		P := p.MagnitudeKN * 1000 // N
		rLeft += P * b / L
		rRight += P * a / L
	}
	vMax, vPos := rLeft, 0.0
	if rRight > rLeft {
		vMax, vPos = rRight, L
	}

	// Deflection: midspan superposition. The UDL term plus the standard
	// simply-supported point-load term folded to b = min(a, L-a). Midspan
	// is taken as the governing position, a documented simplification for
	// asymmetric loading.
	defl := 5 * w * math.Pow(L, 4) / (384 * eiNmm2)
	for _, p := range included {
		b := math.Min(p.DistanceMM, L-p.DistanceMM)
		P := p.MagnitudeKN * 1000 // N
		defl += P * b * (3*L*L - 4*b*b) / (48 * eiNmm2)
	}

	return Demand{
		MomentKNM:         mMax / 1e6, // Nmm -> kNm
		MomentPositionMM:  mPos,
		ShearKN:           vMax / 1000, // N -> kN
		ShearPositionMM:   vPos,
		DeflectionMM:      defl,
		DeflectPositionMM: L / 2,
	}, nil
}

// momentAt evaluates the combined bending moment (Nmm) at position x. The
// UDL contributes w/2*x*(L-x); each point load contributes its piecewise
// linear moment diagram.
func momentAt(x, L, w float64, points []loads.PointLoad) float64 {
	m := w / 2 * x * (L - x)
	for _, p := range points {
		a := p.DistanceMM
		b := L - a
		P := p.MagnitudeKN * 1000 // N
		if x <= a {
			m += P * b * x / L
		} else {
			m += P * a * (L - x) / L
		}
	}
	return m
}
