package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSpanInMetres(t *testing.T) {
	beam, err := Normalize(Raw{Unit: UnitM, Span: 6.0, PointLoadPositions: []float64{1.5, 4.2}})
	require.NoError(t, err)

	assert.Equal(t, 6000.0, beam.SpanMM)
	assert.Equal(t, 0.0, beam.SupportLeftMM)
	assert.Equal(t, 6000.0, beam.SupportRightMM)
	assert.Equal(t, []float64{1500, 4200}, beam.PointLoadPositions)
}

func TestNormalizeDefaultsToMillimetres(t *testing.T) {
	beam, err := Normalize(Raw{Span: 4800})
	require.NoError(t, err)
	assert.Equal(t, 4800.0, beam.SpanMM)
}

func TestNormalizeSupportsUnordered(t *testing.T) {
	// Input order must not matter, position decides left and right.
	beam, err := Normalize(Raw{Unit: UnitMM, Supports: []float64{5400, 400}, PointLoadPositions: []float64{2000}})
	require.NoError(t, err)

	assert.Equal(t, 5000.0, beam.SpanMM)
	// Positions are shifted so the left support sits at zero.
	assert.Equal(t, []float64{1600}, beam.PointLoadPositions)
}

func TestNormalizeRejectsZeroSpan(t *testing.T) {
	_, err := Normalize(Raw{Span: 0})

	var gerr *InvalidGeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "span", gerr.Field)
}

func TestNormalizeRejectsNegativeSpan(t *testing.T) {
	_, err := Normalize(Raw{Unit: UnitM, Span: -2.5})
	var gerr *InvalidGeometryError
	require.ErrorAs(t, err, &gerr)
}

func TestNormalizeRejectsSingleSupport(t *testing.T) {
	_, err := Normalize(Raw{Supports: []float64{100}})

	var gerr *InvalidGeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "supports", gerr.Field)
}

func TestNormalizeRejectsCoincidentSupports(t *testing.T) {
	_, err := Normalize(Raw{Supports: []float64{1200, 1200}})

	var gerr *InvalidGeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "supports", gerr.Field)
}

func TestNormalizeRejectsPointLoadOutsideSpan(t *testing.T) {
	_, err := Normalize(Raw{Span: 3000, PointLoadPositions: []float64{3001}})
	var gerr *InvalidGeometryError
	require.ErrorAs(t, err, &gerr)

	_, err = Normalize(Raw{Span: 3000, PointLoadPositions: []float64{-1}})
	require.ErrorAs(t, err, &gerr)
}

func TestNormalizeAllowsPointLoadAtSupports(t *testing.T) {
	// Endpoints are inside the span; the exclusion rule flags them later
	// instead of rejecting them here.
	beam, err := Normalize(Raw{Span: 3000, PointLoadPositions: []float64{0, 3000}})
	require.NoError(t, err)
	assert.Len(t, beam.PointLoadPositions, 2)
}

func TestNormalizeRejectsUnknownUnit(t *testing.T) {
	_, err := Normalize(Raw{Unit: "ft", Span: 10})
	var gerr *InvalidGeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "unit", gerr.Field)
}
