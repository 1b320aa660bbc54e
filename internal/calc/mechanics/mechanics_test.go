package mechanics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Lintel/internal/calc/loads"
)

const (
	spanMM = 6000.0
	ei     = 1.8e12 // N*mm^2, gives 18.75 mm under 2.0 kN/m
)

func TestSolveUDLOnlyClosedForm(t *testing.T) {
	d, err := Solve(spanMM, 2.0, nil, ei)
	require.NoError(t, err)

	// M = wL^2/8, V = wL/2, d = 5wL^4/(384EI)
	assert.InEpsilon(t, 9.0, d.MomentKNM, 1e-9)
	assert.InEpsilon(t, 6.0, d.ShearKN, 1e-9)
	assert.InEpsilon(t, 18.75, d.DeflectionMM, 1e-9)

	assert.Equal(t, spanMM/2, d.MomentPositionMM)
	assert.Equal(t, spanMM/2, d.DeflectPositionMM)
}

func TestSolveCentredPointLoad(t *testing.T) {
	points := []loads.PointLoad{{MagnitudeKN: 10, DistanceMM: spanMM / 2}}
	d, err := Solve(spanMM, 0, points, ei)
	require.NoError(t, err)

	// M = PL/4, V = P/2, d = PL^3/(48EI)
	assert.InEpsilon(t, 15.0, d.MomentKNM, 1e-9)
	assert.InEpsilon(t, 5.0, d.ShearKN, 1e-9)
	assert.InEpsilon(t, 25.0, d.DeflectionMM, 1e-9)
}

func TestSolveSuperposesUDLAndCentredPoint(t *testing.T) {
	points := []loads.PointLoad{{MagnitudeKN: 10, DistanceMM: spanMM / 2}}
	d, err := Solve(spanMM, 2.0, points, ei)
	require.NoError(t, err)

	assert.InEpsilon(t, 9.0+15.0, d.MomentKNM, 1e-9)
	assert.InEpsilon(t, 6.0+5.0, d.ShearKN, 1e-9)
	assert.InEpsilon(t, 18.75+25.0, d.DeflectionMM, 1e-9)
}

func TestSolveOffsetPointLoadGovernsUnderLoad(t *testing.T) {
	// A heavy load at the quarter point moves the governing moment away
	// from midspan.
	points := []loads.PointLoad{{MagnitudeKN: 20, DistanceMM: 1500}}
	d, err := Solve(spanMM, 0.1, points, ei)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, d.MomentPositionMM)
	// P*a*b/L = 20*1.5*4.5/6 = 22.5 kNm plus the UDL moment at that spot.
	assert.InEpsilon(t, 22.5+0.05*1500*4500/1e6, d.MomentKNM, 1e-9)

	// The left reaction governs shear.
	assert.Equal(t, 0.0, d.ShearPositionMM)
	assert.InEpsilon(t, 15.3, d.ShearKN, 1e-9)
}

func TestSolveRightReactionGoverns(t *testing.T) {
	points := []loads.PointLoad{{MagnitudeKN: 20, DistanceMM: 4500}}
	d, err := Solve(spanMM, 0.1, points, ei)
	require.NoError(t, err)

	assert.Equal(t, spanMM, d.ShearPositionMM)
	assert.InEpsilon(t, 15.3, d.ShearKN, 1e-9)
}

func TestSolveOmitsExcludedLoads(t *testing.T) {
	points := []loads.PointLoad{
		{MagnitudeKN: 50, DistanceMM: 50, ExcludedFromCalculation: true},
		{MagnitudeKN: 10, DistanceMM: spanMM / 2},
	}
	d, err := Solve(spanMM, 2.0, points, ei)
	require.NoError(t, err)

	withOnlyCentre, err := Solve(spanMM, 2.0, points[1:], ei)
	require.NoError(t, err)
	assert.Equal(t, withOnlyCentre, d)
}

func TestSolveDeflectionFoldsAsymmetricLoad(t *testing.T) {
	// Mirrored loads must give identical midspan deflection.
	left, err := Solve(spanMM, 0, []loads.PointLoad{{MagnitudeKN: 10, DistanceMM: 1500}}, ei)
	require.NoError(t, err)
	right, err := Solve(spanMM, 0, []loads.PointLoad{{MagnitudeKN: 10, DistanceMM: 4500}}, ei)
	require.NoError(t, err)

	assert.InEpsilon(t, left.DeflectionMM, right.DeflectionMM, 1e-12)
}

func TestSolveMonotonicInLoad(t *testing.T) {
	base, err := Solve(spanMM, 2.0, nil, ei)
	require.NoError(t, err)
	more, err := Solve(spanMM, 2.5, nil, ei)
	require.NoError(t, err)

	assert.Greater(t, more.MomentKNM, base.MomentKNM)
	assert.Greater(t, more.ShearKN, base.ShearKN)
	assert.Greater(t, more.DeflectionMM, base.DeflectionMM)
}

func TestSolveRejectsNonPositiveSpan(t *testing.T) {
	_, err := Solve(0, 2.0, nil, ei)
	var cerr *ComputationError
	require.ErrorAs(t, err, &cerr)
}

func TestSolveRejectsNonPositiveRigidity(t *testing.T) {
	_, err := Solve(spanMM, 2.0, nil, 0)
	var cerr *ComputationError
	require.ErrorAs(t, err, &cerr)
}
