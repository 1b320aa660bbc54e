package catalog

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRectangularSection(t *testing.T) {
	s, err := RectangularSection(300, 45, ELVL, FbLVL, FsLVL)
	require.NoError(t, err)

	assert.InEpsilon(t, 45*300.0*300/6, s.SectionModulus, 1e-12)
	assert.InEpsilon(t, 45*300.0*300*300/12, s.MomentOfInertia, 1e-12)
	assert.InEpsilon(t, 2.0/3.0*45*300, s.ShearAreaMM2, 1e-12)
	assert.InEpsilon(t, ELVL*s.MomentOfInertia, s.EI(), 1e-12)
}

func TestRectangularSectionRejectsBadDimensions(t *testing.T) {
	_, err := RectangularSection(0, 45, ELVL, FbLVL, FsLVL)
	require.Error(t, err)
	_, err = RectangularSection(300, -45, ELVL, FbLVL, FsLVL)
	require.Error(t, err)
}

func TestAvailableIn(t *testing.T) {
	p := Product{Regions: []string{"NZ", "AU"}}
	assert.True(t, p.AvailableIn("nz"))
	assert.True(t, p.AvailableIn("AU"))
	assert.False(t, p.AvailableIn("US"))

	unrestricted := Product{}
	assert.True(t, unrestricted.AvailableIn("US"))
}

func TestSampleProductsAreUsable(t *testing.T) {
	products := SampleProducts()
	require.NotEmpty(t, products)
	seen := map[string]bool{}
	for _, p := range products {
		assert.False(t, seen[p.Code], "duplicate code %s", p.Code)
		seen[p.Code] = true
		assert.True(t, p.IsActive)
		assert.Greater(t, p.Section.EI(), 0.0)
		assert.Greater(t, p.Section.SectionModulus, 0.0)
	}
}

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"code", "name", "manufacturer", "type", "grade",
		"depth_mm", "width_mm", "e_mpa", "fb_mpa", "fs_mpa", "regions"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseWorkbook(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"LVL-360-63", "LVL 360x63", "Lumberbank", "LVL", "LVL13", 360, 63, 13800, 48, 5.5, "NZ, AU"},
		{"SG8-140-45", "SG8 140x45", "Other", "SG8", "SG8", 140, 45, 10000, 16, 2.0, ""},
	})

	products, skipped, err := ParseWorkbook(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, products, 2)

	assert.Equal(t, "LVL-360-63", products[0].Code)
	assert.Equal(t, []string{"NZ", "AU"}, products[0].Regions)
	assert.InEpsilon(t, 63*360.0*360/6, products[0].Section.SectionModulus, 1e-9)
	assert.Empty(t, products[1].Regions)
	assert.True(t, products[1].IsActive)
}

func TestParseWorkbookSkipsBadRows(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"", "missing code", "X", "LVL", "G", 300, 45, 13800, 48, 5.5, ""},
		{"OK-1", "fine", "X", "LVL", "G", 300, 45, 13800, 48, 5.5, ""},
		{"BAD-DEPTH", "zero depth", "X", "LVL", "G", 0, 45, 13800, 48, 5.5, ""},
	})

	products, skipped, err := ParseWorkbook(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, products, 1)
	assert.Equal(t, "OK-1", products[0].Code)
}

func TestParseWorkbookRejectsEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, _, err := ParseWorkbook(&buf)
	require.Error(t, err)
}
