package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads products from the first sheet of an xlsx workbook.
// Expected columns after a header row:
//
//	code, name, manufacturer, type, grade, depth_mm, width_mm, e_mpa,
//	fb_mpa, fs_mpa, regions (comma separated, optional)
//
// Rows that cannot be parsed are skipped and counted, matching the
// tolerant style of the beam schedule importer.
func ParseWorkbook(r io.Reader) ([]Product, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	var products []Product
	skipped := 0
	for i := 1; i < len(rows); i++ {
		p, err := parseProductRow(rows[i])
		if err != nil {
			skipped++
			continue
		}
		products = append(products, p)
	}
	return products, skipped, nil
}

func parseProductRow(row []string) (Product, error) {
	if len(row) < 10 {
		return Product{}, fmt.Errorf("row too short")
	}
	depth, err := cellFloat(row[5])
	if err != nil {
		return Product{}, err
	}
	width, err := cellFloat(row[6])
	if err != nil {
		return Product{}, err
	}
	e, err := cellFloat(row[7])
	if err != nil {
		return Product{}, err
	}
	fb, err := cellFloat(row[8])
	if err != nil {
		return Product{}, err
	}
	fs, err := cellFloat(row[9])
	if err != nil {
		return Product{}, err
	}
	section, err := RectangularSection(depth, width, e, fb, fs)
	if err != nil {
		return Product{}, err
	}

	var regions []string
	if len(row) > 10 && strings.TrimSpace(row[10]) != "" {
		for _, r := range strings.Split(row[10], ",") {
			regions = append(regions, strings.TrimSpace(r))
		}
	}

	code := strings.TrimSpace(row[0])
	if code == "" {
		return Product{}, fmt.Errorf("missing product code")
	}
	return Product{
		Code:         code,
		Name:         strings.TrimSpace(row[1]),
		Manufacturer: strings.TrimSpace(row[2]),
		ProductType:  strings.TrimSpace(row[3]),
		Grade:        strings.TrimSpace(row[4]),
		Regions:      regions,
		Section:      section,
		IsActive:     true,
	}, nil
}

func cellFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
