package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Lintel/internal/calc/beamcheck"
	"Lintel/internal/calc/loads"
)

func TestBuildProducesPDF(t *testing.T) {
	input := Input{
		Project:     "House A",
		BeamName:    "J1",
		Reference:   "first floor joist",
		Author:      "R. Ng",
		ProductCode: "LVL-300-45",
		Notes:       "Re-check after the stair opening moves.",
		Result: beamcheck.Result{
			ID:                    "rec-1",
			DemandMoment:          9.0,
			DemandShear:           6.0,
			DemandDeflection:      18.75,
			CapacityMoment:        12.0,
			CapacityShear:         10.0,
			DeflectionLimit:       20.0,
			UtilizationMoment:     0.75,
			UtilizationShear:      0.6,
			UtilizationDeflection: 0.9375,
			CalcStatus:            beamcheck.StatusWarning,
			ControllingFactor:     beamcheck.FactorDeflection,
			CalcStandard:          "NZS3603:1993",
			CalcVersion:           "1.0.0",
			PointLoads: []loads.PointLoad{
				{MagnitudeKN: 5, DistanceMM: 3000},
				{MagnitudeKN: 8, DistanceMM: 50, ExcludedFromCalculation: true},
			},
			UDLKNM:   2.0,
			SpanMM:   6000,
			CalcDate: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		},
	}

	pdf := Build(input)
	require.NoError(t, pdf.Error())

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestBuildWithoutOptionalSections(t *testing.T) {
	pdf := Build(Input{Result: beamcheck.Result{CalcStatus: beamcheck.StatusPass}})
	require.NoError(t, pdf.Error())

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	assert.NotZero(t, buf.Len())
}
