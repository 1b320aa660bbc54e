package importer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"Lintel/internal/calc/beamcheck"
)

// Handler imports a beam schedule from an xlsx upload and checks every row
// against one catalog product. Unparseable rows are skipped and counted so
// one bad row does not sink a whole schedule.
type Handler struct {
	Products beamcheck.ProductSource
	Log      *zap.Logger
}

type ImportResult struct {
	Count   int                `json:"count"`
	Skipped int                `json:"skipped"`
	Results []beamcheck.Result `json:"results"`
}

// Beams expects a multipart form with the workbook under "file" and the
// candidate product code under "product_code". Sheet columns after the
// header row:
//
//	member_type, span_m, spacing_m, dead_kpa, live_kpa, sdl_kpa,
//	point_kn (optional), point_position_m (optional)
func (h *Handler) Beams(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	code := r.FormValue("product_code")
	if code == "" {
		http.Error(w, "product_code required", http.StatusBadRequest)
		return
	}
	product, err := h.Products.ProductByCode(r.Context(), code)
	if err != nil {
		http.Error(w, "Unknown product code", http.StatusBadRequest)
		return
	}

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}

	out := ImportResult{}
	for i := 1; i < len(rows); i++ {
		input, err := parseBeamRow(rows[i])
		if err != nil {
			out.Skipped++
			continue
		}
		res, err := beamcheck.Calculate(input, product.Section)
		if err != nil {
			if h.Log != nil {
				h.Log.Warn("schedule row rejected", zap.Int("row", i+1), zap.Error(err))
			}
			out.Skipped++
			continue
		}
		res.ProductCode = product.Code
		out.Results = append(out.Results, res)
	}
	out.Count = len(out.Results)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func parseBeamRow(row []string) (beamcheck.Input, error) {
	if len(row) < 6 {
		return beamcheck.Input{}, fmt.Errorf("row too short")
	}
	span, err := cellFloat(row[1])
	if err != nil {
		return beamcheck.Input{}, err
	}
	spacing, err := cellFloat(row[2])
	if err != nil {
		return beamcheck.Input{}, err
	}
	dead, err := cellFloat(row[3])
	if err != nil {
		return beamcheck.Input{}, err
	}
	live, err := cellFloat(row[4])
	if err != nil {
		return beamcheck.Input{}, err
	}
	sdl, err := cellFloat(row[5])
	if err != nil {
		return beamcheck.Input{}, err
	}

	input := beamcheck.Input{
		Unit:        geometryUnitM,
		Span:        span,
		MemberType:  strings.TrimSpace(row[0]),
		SpacingM:    spacing,
		DeadLoadKPa: dead,
		LiveLoadKPa: live,
		SDLKPa:      sdl,
	}

	if len(row) > 7 && strings.TrimSpace(row[6]) != "" && strings.TrimSpace(row[7]) != "" {
		p, err := cellFloat(row[6])
		if err != nil {
			return beamcheck.Input{}, err
		}
		pos, err := cellFloat(row[7])
		if err != nil {
			return beamcheck.Input{}, err
		}
		input.PointLoads = append(input.PointLoads, beamcheck.PointLoad{MagnitudeKN: p, Position: pos})
	}
	return input, nil
}

const geometryUnitM = "m"

func cellFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
