package batch

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"Lintel/internal/calc/beamcheck"
	"Lintel/internal/catalog"
)

// ProductLister supplies the active candidate set when the request does
// not carry its own.
type ProductLister interface {
	ActiveProducts(ctx context.Context) ([]catalog.Product, error)
}

type Handler struct {
	Products ProductLister
	Log      *zap.Logger
}

// Check compares one beam against the request's candidate list, or against
// every active catalog product when the list is empty.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(input.Candidates) == 0 && h.Products != nil {
		products, err := h.Products.ActiveProducts(r.Context())
		if err != nil {
			if h.Log != nil {
				h.Log.Error("loading candidate products", zap.Error(err))
			}
			http.Error(w, "Catalog unavailable", http.StatusInternalServerError)
			return
		}
		input.Candidates = products
	}
	out, err := Check(input)
	if err != nil {
		beamcheck.WriteError(w, err, h.Log)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Many calculates a list of independent beam/section pairs.
func (h *Handler) Many(w http.ResponseWriter, r *http.Request) {
	var input MultiInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	out, err := CheckMany(input)
	if err != nil {
		beamcheck.WriteError(w, err, h.Log)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
