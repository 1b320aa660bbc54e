package project

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"Lintel/internal/auth"
	"Lintel/internal/calc/beamcheck"
	"Lintel/internal/repo"
)

// Handler serves project and beam CRUD plus the persisted calculation
// endpoint. All routes sit behind the auth middleware.
type Handler struct {
	Repo repo.Repository
	Log  *zap.Logger
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	projects, err := h.Repo.ListProjects(r.Context(), userID)
	if err != nil {
		h.Log.Error("listing projects", zap.Int("user_id", userID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, projects)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var p repo.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if p.Name == "" {
		http.Error(w, "Project name required", http.StatusBadRequest)
		return
	}
	p.UserID = userID
	id, err := h.Repo.CreateProject(r.Context(), p)
	if err != nil {
		h.Log.Error("creating project", zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	p.ID = id
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, p)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	var p repo.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	p.ID = existing.ID
	if err := h.Repo.UpdateProject(r.Context(), p); err != nil {
		h.Log.Error("updating project", zap.Int("id", p.ID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	if err := h.Repo.DeleteProject(r.Context(), p.ID); err != nil {
		h.Log.Error("deleting project", zap.Int("id", p.ID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListBeams(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	beams, err := h.Repo.ListBeams(r.Context(), p.ID)
	if err != nil {
		h.Log.Error("listing beams", zap.Int("project_id", p.ID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, beams)
}

func (h *Handler) CreateBeam(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ownedProject(w, r)
	if !ok {
		return
	}
	var b repo.Beam
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if b.Name == "" || b.SpanM <= 0 {
		http.Error(w, "Beam name and positive span required", http.StatusBadRequest)
		return
	}
	b.ProjectID = p.ID
	id, err := h.Repo.CreateBeam(r.Context(), b)
	if err != nil {
		h.Log.Error("creating beam", zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	b.ID = id
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(b)
}

func (h *Handler) GetBeam(w http.ResponseWriter, r *http.Request) {
	b, ok := h.ownedBeam(w, r)
	if !ok {
		return
	}
	writeJSON(w, b)
}

func (h *Handler) UpdateBeam(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedBeam(w, r)
	if !ok {
		return
	}
	var b repo.Beam
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	b.ID = existing.ID
	b.ProjectID = existing.ProjectID
	if err := h.Repo.UpdateBeam(r.Context(), b); err != nil {
		h.Log.Error("updating beam", zap.Int("id", b.ID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteBeam(w http.ResponseWriter, r *http.Request) {
	b, ok := h.ownedBeam(w, r)
	if !ok {
		return
	}
	if err := h.Repo.DeleteBeam(r.Context(), b.ID); err != nil {
		h.Log.Error("deleting beam", zap.Int("id", b.ID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type calcRequest struct {
	ProductCode string `json:"product_code"`
}

// CalcBeam runs the calculation engine for a stored beam against a catalog
// product, persists the record and returns it. The product defaults to the
// beam's selected product.
func (h *Handler) CalcBeam(w http.ResponseWriter, r *http.Request) {
	b, ok := h.ownedBeam(w, r)
	if !ok {
		return
	}

	var req calcRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
	}
	code := req.ProductCode
	if code == "" {
		code = b.SelectedProductCode
	}
	if code == "" {
		http.Error(w, "No product selected for this beam", http.StatusBadRequest)
		return
	}

	product, err := h.Repo.ProductByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Unknown product code", http.StatusBadRequest)
			return
		}
		h.Log.Error("loading product", zap.String("code", code), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	res, err := beamcheck.Calculate(beamInput(b), product.Section)
	if err != nil {
		beamcheck.WriteError(w, err, h.Log)
		return
	}
	res.ProductCode = product.Code

	if err := h.Repo.SaveCalculation(r.Context(), b.ID, product.Code, res); err != nil {
		h.Log.Error("saving calculation", zap.Int("beam_id", b.ID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, res)
}

// LatestCalc returns the most recent stored calculation for a beam.
func (h *Handler) LatestCalc(w http.ResponseWriter, r *http.Request) {
	b, ok := h.ownedBeam(w, r)
	if !ok {
		return
	}
	res, err := h.Repo.LatestCalculation(r.Context(), b.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No calculation stored for this beam", http.StatusNotFound)
			return
		}
		h.Log.Error("loading calculation", zap.Int("beam_id", b.ID), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, res)
}

// beamInput maps a stored beam onto the engine's input contract. Stored
// positions are metres, so the metre unit tag applies.
func beamInput(b repo.Beam) beamcheck.Input {
	in := beamcheck.Input{
		Unit:        "m",
		Span:        b.SpanM,
		MemberType:  b.MemberType,
		DeadLoadKPa: b.DeadLoadKPa,
		LiveLoadKPa: b.LiveLoadKPa,
		SDLKPa:      b.SDLKPa,
		SpacingM:    b.SpacingM,
	}
	for _, p := range b.PointLoads {
		in.PointLoads = append(in.PointLoads, beamcheck.PointLoad{
			MagnitudeKN: p.MagnitudeKN,
			Position:    p.PositionM,
		})
	}
	return in
}

func (h *Handler) ownedProject(w http.ResponseWriter, r *http.Request) (repo.Project, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return repo.Project{}, false
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project id", http.StatusBadRequest)
		return repo.Project{}, false
	}
	p, err := h.Repo.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Project not found", http.StatusNotFound)
			return repo.Project{}, false
		}
		h.Log.Error("loading project", zap.Int("id", id), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return repo.Project{}, false
	}
	if p.UserID != userID {
		http.Error(w, "Project not found", http.StatusNotFound)
		return repo.Project{}, false
	}
	return p, true
}

func (h *Handler) ownedBeam(w http.ResponseWriter, r *http.Request) (repo.Beam, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return repo.Beam{}, false
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid beam id", http.StatusBadRequest)
		return repo.Beam{}, false
	}
	b, err := h.Repo.GetBeam(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Beam not found", http.StatusNotFound)
			return repo.Beam{}, false
		}
		h.Log.Error("loading beam", zap.Int("id", id), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return repo.Beam{}, false
	}
	p, err := h.Repo.GetProject(r.Context(), b.ProjectID)
	if err != nil || p.UserID != userID {
		http.Error(w, "Beam not found", http.StatusNotFound)
		return repo.Beam{}, false
	}
	return b, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
