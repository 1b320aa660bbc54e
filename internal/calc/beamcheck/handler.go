package beamcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"Lintel/internal/calc/factors"
	"Lintel/internal/calc/geometry"
	"Lintel/internal/calc/loads"
	"Lintel/internal/calc/mechanics"
	"Lintel/internal/catalog"
)

// ProductSource resolves product codes for calculation requests. Backed by
// the catalog repository in production and by fixtures in tests.
type ProductSource interface {
	ProductByCode(ctx context.Context, code string) (catalog.Product, error)
}

type Handler struct {
	Products ProductSource
	Log      *zap.Logger
}

// Request is the stateless tools payload: the beam description plus either
// an inline section or a catalog product code.
type Request struct {
	Input
	ProductCode string                     `json:"product_code,omitempty"`
	Section     *catalog.SectionProperties `json:"section,omitempty"`
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	section, err := h.resolveSection(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := Calculate(req.Input, section)
	if err != nil {
		WriteError(w, err, h.Log)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) resolveSection(ctx context.Context, req Request) (catalog.SectionProperties, error) {
	if req.Section != nil {
		return *req.Section, nil
	}
	if req.ProductCode == "" {
		return catalog.SectionProperties{}, errors.New("product_code or section required")
	}
	if h.Products == nil {
		return catalog.SectionProperties{}, errors.New("product lookup unavailable")
	}
	product, err := h.Products.ProductByCode(ctx, req.ProductCode)
	if err != nil {
		return catalog.SectionProperties{}, errors.New("unknown product code")
	}
	return product.Section, nil
}

// WriteError maps the engine error taxonomy onto HTTP statuses: bad input
// 400, bad product data 422, missing factor table 500 (deployment problem,
// not user input).
func WriteError(w http.ResponseWriter, err error, log *zap.Logger) {
	var geomErr *geometry.InvalidGeometryError
	var loadErr *loads.InvalidLoadError
	var capErr *InvalidCapacityError
	var stdErr *factors.UnsupportedStandardError
	var compErr *mechanics.ComputationError

	switch {
	case errors.As(err, &geomErr), errors.As(err, &loadErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &capErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &stdErr):
		if log != nil {
			log.Error("factor table missing", zap.Error(err))
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.As(err, &compErr):
		if log != nil {
			log.Error("solver rejected validated input", zap.Error(err))
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		if log != nil {
			log.Error("calculation failed", zap.Error(err))
		}
		http.Error(w, "Calculation error", http.StatusInternalServerError)
	}
}
