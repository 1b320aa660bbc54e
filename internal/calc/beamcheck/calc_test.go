package beamcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Lintel/internal/calc/factors"
	"Lintel/internal/calc/geometry"
	"Lintel/internal/calc/loads"
	"Lintel/internal/catalog"
)

// section is tuned so that under short-term dry conditions the factored
// capacities come out at 12 kNm, 10 kN, and EI at 1.8e12 N*mm^2 (18.75 mm
// midspan deflection under 2.0 kN/m over 6 m).
func testSection() catalog.SectionProperties {
	return catalog.SectionProperties{
		DepthMM:         300,
		WidthMM:         45,
		SectionModulus:  1e6,
		MomentOfInertia: 1.5e8,
		ShearAreaMM2:    1e4,
		EMPa:            12000,
		FbMPa:           40.0 / 3.0,
		FsMPa:           10.0 / 9.0,
	}
}

func testInput() Input {
	return Input{
		Unit:        geometry.UnitMM,
		Span:        6000,
		MemberType:  factors.MemberFloorJoist,
		DeadLoadKPa: 2.0,
		SpacingM:    1.0,
		Conditions:  factors.Conditions{Duration: factors.DurationShortTerm},
	}
}

func TestCalculateEndToEnd(t *testing.T) {
	res, err := Calculate(testInput(), testSection())
	require.NoError(t, err)

	assert.InEpsilon(t, 9.0, res.DemandMoment, 1e-9)
	assert.InEpsilon(t, 6.0, res.DemandShear, 1e-9)
	assert.InEpsilon(t, 18.75, res.DemandDeflection, 1e-9)

	assert.InEpsilon(t, 12.0, res.CapacityMoment, 1e-9)
	assert.InEpsilon(t, 10.0, res.CapacityShear, 1e-9)
	assert.InEpsilon(t, 20.0, res.DeflectionLimit, 1e-9)

	assert.InEpsilon(t, 0.75, res.UtilizationMoment, 1e-9)
	assert.InEpsilon(t, 0.6, res.UtilizationShear, 1e-9)
	assert.InEpsilon(t, 0.9375, res.UtilizationDeflection, 1e-9)

	assert.Equal(t, StatusPass, res.CalcStatus)
	assert.Equal(t, FactorDeflection, res.ControllingFactor)
	assert.Equal(t, "NZS3603:1993", res.CalcStandard)
	assert.Equal(t, "1.0.0", res.CalcVersion)
	assert.NotEmpty(t, res.ID)
	assert.False(t, res.CalcDate.IsZero())
}

func TestCalculateIdempotent(t *testing.T) {
	first, err := Calculate(testInput(), testSection())
	require.NoError(t, err)
	second, err := Calculate(testInput(), testSection())
	require.NoError(t, err)

	// Identical inputs and factor table give bit-identical records apart
	// from the record id and timestamp.
	first.ID, second.ID = "", ""
	first.CalcDate = second.CalcDate
	assert.Equal(t, first, second)
}

func TestCalculateKeepsExcludedLoadForAudit(t *testing.T) {
	in := testInput()
	in.PointLoads = []PointLoad{{MagnitudeKN: 5, Position: 50}}

	withLoad, err := Calculate(in, testSection())
	require.NoError(t, err)
	without, err := Calculate(testInput(), testSection())
	require.NoError(t, err)

	require.Len(t, withLoad.PointLoads, 1)
	assert.True(t, withLoad.PointLoads[0].ExcludedFromCalculation)
	assert.Equal(t, 50.0, withLoad.PointLoads[0].DistanceMM)

	// Excluded loads change no demand.
	assert.Equal(t, without.DemandMoment, withLoad.DemandMoment)
	assert.Equal(t, without.DemandShear, withLoad.DemandShear)
	assert.Equal(t, without.DemandDeflection, withLoad.DemandDeflection)
}

func TestCalculateRejectsZeroSpan(t *testing.T) {
	in := testInput()
	in.Span = 0
	_, err := Calculate(in, testSection())

	var gerr *geometry.InvalidGeometryError
	require.ErrorAs(t, err, &gerr)
}

func TestCalculateRejectsNegativeDeadLoad(t *testing.T) {
	in := testInput()
	in.DeadLoadKPa = -1
	_, err := Calculate(in, testSection())

	var lerr *loads.InvalidLoadError
	require.ErrorAs(t, err, &lerr)
}

func TestCalculateRejectsZeroCapacity(t *testing.T) {
	section := testSection()
	section.FbMPa = 0 // moment capacity collapses to zero
	_, err := Calculate(testInput(), section)

	var cerr *InvalidCapacityError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, FactorBending, cerr.Factor)
}

func TestCalculateRejectsUnknownStandard(t *testing.T) {
	in := testInput()
	in.Standard = "EC5"
	_, err := Calculate(in, testSection())

	var serr *factors.UnsupportedStandardError
	require.ErrorAs(t, err, &serr)
}

func TestCalculateWarningOnThinMargin(t *testing.T) {
	in := testInput()
	in.CautionThreshold = 0.9 // deflection utilization 0.9375 sits above it
	res, err := Calculate(in, testSection())
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, res.CalcStatus)
}

func TestCalculateFailOnOverload(t *testing.T) {
	in := testInput()
	in.DeadLoadKPa = 4.0 // doubles every demand
	res, err := Calculate(in, testSection())
	require.NoError(t, err)

	assert.Equal(t, StatusFail, res.CalcStatus)
	assert.Equal(t, FactorDeflection, res.ControllingFactor)
	assert.Greater(t, res.UtilizationDeflection, 1.0)
}

func TestCalculateUtilizationMonotonicInCapacity(t *testing.T) {
	base, err := Calculate(testInput(), testSection())
	require.NoError(t, err)

	bigger := testSection()
	bigger.SectionModulus *= 2
	stronger, err := Calculate(testInput(), bigger)
	require.NoError(t, err)

	assert.Less(t, stronger.UtilizationMoment, base.UtilizationMoment)
	assert.Equal(t, base.DemandMoment, stronger.DemandMoment)
}

func TestClassifyBoundaries(t *testing.T) {
	// Exactly 1.0 is adequate, never FAIL.
	assert.NotEqual(t, StatusFail, Classify(1.0, DefaultCautionThreshold))
	assert.Equal(t, StatusPass, Classify(1.0, 1.01))

	assert.Equal(t, StatusFail, Classify(1.000001, DefaultCautionThreshold))
	assert.Equal(t, StatusWarning, Classify(0.95, 0.95))
	assert.Equal(t, StatusPass, Classify(0.9499999, 0.95))
	assert.Equal(t, StatusPass, Classify(0.1, 0.95))
}
