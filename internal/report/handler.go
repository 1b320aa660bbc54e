package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/phpdave11/gofpdf"

	"Lintel/internal/calc/beamcheck"
)

// Input is the payload for a calculation report: project context plus the
// calculation record to render.
type Input struct {
	Project     string           `json:"project"`
	BeamName    string           `json:"beam_name"`
	Reference   string           `json:"reference"`
	Author      string           `json:"author"`
	ProductCode string           `json:"product_code"`
	Notes       string           `json:"notes"`
	Result      beamcheck.Result `json:"result"`
}

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	pdf := Build(input)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"beam-calculation.pdf\"")
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

// Build renders the calculation record as an A4 report.
func Build(input Input) *gofpdf.Fpdf {
	res := input.Result

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Beam Calculation Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Beam: %s (%s)", input.BeamName, input.Reference))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Product: %s", input.ProductCode))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Standard: %s (engine v%s)", res.CalcStandard, res.CalcVersion))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Calculated: %s", res.CalcDate.Format(time.RFC3339)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s  (controlling: %s)", res.CalcStatus, res.ControllingFactor))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	row(pdf, "Check", "Demand", "Capacity", "Utilization")
	pdf.SetFont("Helvetica", "", 11)
	row(pdf,
		"Bending",
		fmt.Sprintf("%.2f kNm", res.DemandMoment),
		fmt.Sprintf("%.2f kNm", res.CapacityMoment),
		fmt.Sprintf("%.3f", res.UtilizationMoment))
	row(pdf,
		"Shear",
		fmt.Sprintf("%.2f kN", res.DemandShear),
		fmt.Sprintf("%.2f kN", res.CapacityShear),
		fmt.Sprintf("%.3f", res.UtilizationShear))
	row(pdf,
		"Deflection",
		fmt.Sprintf("%.2f mm", res.DemandDeflection),
		fmt.Sprintf("%.2f mm", res.DeflectionLimit),
		fmt.Sprintf("%.3f", res.UtilizationDeflection))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Span: %.0f mm   UDL: %.2f kN/m", res.SpanMM, res.UDLKNM))
	pdf.Ln(8)

	if len(res.PointLoads) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 6, "Point loads")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		for _, p := range res.PointLoads {
			note := ""
			if p.ExcludedFromCalculation {
				note = "  (within support exclusion zone, not in demand sums)"
			}
			pdf.Cell(0, 6, fmt.Sprintf("%.2f kN at %.0f mm%s", p.MagnitudeKN, p.DistanceMM, note))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	if input.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
	}
	return pdf
}

func row(pdf *gofpdf.Fpdf, cols ...string) {
	widths := []float64{40, 50, 50, 40}
	for i, c := range cols {
		pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}
