package catalog

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Store is the persistence surface the catalog handlers need.
type Store interface {
	UpsertProduct(ctx context.Context, p Product) error
	ActiveProducts(ctx context.Context) ([]Product, error)
}

type Handler struct {
	Store Store
	Log   *zap.Logger
}

// List returns the active products, optionally filtered to one region via
// ?region=NZ.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ActiveProducts(r.Context())
	if err != nil {
		h.Log.Error("listing products", zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if region := r.URL.Query().Get("region"); region != "" {
		filtered := products[:0]
		for _, p := range products {
			if p.AvailableIn(region) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import replaces or adds catalog products from an uploaded xlsx workbook.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	products, skipped, err := ParseWorkbook(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}

	imported := 0
	for _, p := range products {
		if err := h.Store.UpsertProduct(r.Context(), p); err != nil {
			h.Log.Error("upserting product", zap.String("code", p.Code), zap.Error(err))
			skipped++
			continue
		}
		imported++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(importResponse{Imported: imported, Skipped: skipped})
}
