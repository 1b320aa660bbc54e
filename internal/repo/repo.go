package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"Lintel/internal/calc/beamcheck"
	"Lintel/internal/catalog"
)

// Project groups beams for one user.
type Project struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PointLoad is one concentrated load as stored on a beam. Position in
// metres from the left support.
type PointLoad struct {
	MagnitudeKN float64 `json:"magnitude_kn"`
	PositionM   float64 `json:"position_m"`
}

// Beam is one structural member design within a project. Loads in kPa,
// span and spacing in metres.
type Beam struct {
	ID          int         `json:"id"`
	ProjectID   int         `json:"project_id"`
	Name        string      `json:"name"`
	Reference   string      `json:"reference"`
	MemberType  string      `json:"member_type"`
	SpanM       float64     `json:"span_m"`
	SpacingM    float64     `json:"spacing_m"`
	DeadLoadKPa float64     `json:"dead_load_kpa"`
	LiveLoadKPa float64     `json:"live_load_kpa"`
	SDLKPa      float64     `json:"sdl_kpa"`
	PointLoads  []PointLoad `json:"point_loads"`

	SelectedProductCode string    `json:"selected_product_code"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Repository is the persistence boundary for the service. Calculations are
// insert-only; a re-run stores a new row that supersedes the previous one.
type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)

	CreateProject(ctx context.Context, p Project) (int, error)
	GetProject(ctx context.Context, id int) (Project, error)
	ListProjects(ctx context.Context, userID int) ([]Project, error)
	UpdateProject(ctx context.Context, p Project) error
	DeleteProject(ctx context.Context, id int) error

	CreateBeam(ctx context.Context, b Beam) (int, error)
	GetBeam(ctx context.Context, id int) (Beam, error)
	ListBeams(ctx context.Context, projectID int) ([]Beam, error)
	UpdateBeam(ctx context.Context, b Beam) error
	DeleteBeam(ctx context.Context, id int) error

	UpsertProduct(ctx context.Context, p catalog.Product) error
	ProductByCode(ctx context.Context, code string) (catalog.Product, error)
	ActiveProducts(ctx context.Context) ([]catalog.Product, error)

	SaveCalculation(ctx context.Context, beamID int, productCode string, res beamcheck.Result) error
	LatestCalculation(ctx context.Context, beamID int) (beamcheck.Result, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) CreateProject(ctx context.Context, p Project) (int, error) {
	var id int
	query := `INSERT INTO projects (user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now()) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Name, p.Description).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetProject(ctx context.Context, id int) (Project, error) {
	var p Project
	query := `SELECT id, user_id, name, description, created_at, updated_at FROM projects WHERE id=$1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresRepository) ListProjects(ctx context.Context, userID int) ([]Project, error) {
	query := `SELECT id, user_id, name, description, created_at, updated_at
		FROM projects WHERE user_id=$1 ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *PostgresRepository) UpdateProject(ctx context.Context, p Project) error {
	query := `UPDATE projects SET name=$1, description=$2, updated_at=now() WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.ID)
	return err
}

func (r *PostgresRepository) DeleteProject(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id=$1", id)
	return err
}

func (r *PostgresRepository) CreateBeam(ctx context.Context, b Beam) (int, error) {
	points, err := json.Marshal(b.PointLoads)
	if err != nil {
		return 0, fmt.Errorf("encode point loads: %w", err)
	}
	var id int
	query := `INSERT INTO beams
		(project_id, name, reference, member_type, span_m, spacing_m,
		 dead_load_kpa, live_load_kpa, sdl_kpa, point_loads, selected_product_code,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING id`
	err = r.db.QueryRowContext(ctx, query,
		b.ProjectID, b.Name, b.Reference, b.MemberType, b.SpanM, b.SpacingM,
		b.DeadLoadKPa, b.LiveLoadKPa, b.SDLKPa, points, b.SelectedProductCode).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetBeam(ctx context.Context, id int) (Beam, error) {
	var b Beam
	var points []byte
	query := `SELECT id, project_id, name, reference, member_type, span_m, spacing_m,
		dead_load_kpa, live_load_kpa, sdl_kpa, point_loads, selected_product_code,
		created_at, updated_at FROM beams WHERE id=$1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ProjectID, &b.Name, &b.Reference, &b.MemberType, &b.SpanM, &b.SpacingM,
		&b.DeadLoadKPa, &b.LiveLoadKPa, &b.SDLKPa, &points, &b.SelectedProductCode,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Beam{}, err
	}
	if len(points) > 0 {
		if err := json.Unmarshal(points, &b.PointLoads); err != nil {
			return Beam{}, fmt.Errorf("decode point loads: %w", err)
		}
	}
	return b, nil
}

func (r *PostgresRepository) ListBeams(ctx context.Context, projectID int) ([]Beam, error) {
	query := `SELECT id, project_id, name, reference, member_type, span_m, spacing_m,
		dead_load_kpa, live_load_kpa, sdl_kpa, point_loads, selected_product_code,
		created_at, updated_at FROM beams WHERE project_id=$1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beams []Beam
	for rows.Next() {
		var b Beam
		var points []byte
		if err := rows.Scan(
			&b.ID, &b.ProjectID, &b.Name, &b.Reference, &b.MemberType, &b.SpanM, &b.SpacingM,
			&b.DeadLoadKPa, &b.LiveLoadKPa, &b.SDLKPa, &points, &b.SelectedProductCode,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if len(points) > 0 {
			if err := json.Unmarshal(points, &b.PointLoads); err != nil {
				return nil, fmt.Errorf("decode point loads: %w", err)
			}
		}
		beams = append(beams, b)
	}
	return beams, rows.Err()
}

func (r *PostgresRepository) UpdateBeam(ctx context.Context, b Beam) error {
	points, err := json.Marshal(b.PointLoads)
	if err != nil {
		return fmt.Errorf("encode point loads: %w", err)
	}
	query := `UPDATE beams SET name=$1, reference=$2, member_type=$3, span_m=$4,
		spacing_m=$5, dead_load_kpa=$6, live_load_kpa=$7, sdl_kpa=$8, point_loads=$9,
		selected_product_code=$10, updated_at=now() WHERE id=$11`
	_, err = r.db.ExecContext(ctx, query,
		b.Name, b.Reference, b.MemberType, b.SpanM, b.SpacingM,
		b.DeadLoadKPa, b.LiveLoadKPa, b.SDLKPa, points, b.SelectedProductCode, b.ID)
	return err
}

func (r *PostgresRepository) DeleteBeam(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM beams WHERE id=$1", id)
	return err
}

func (r *PostgresRepository) UpsertProduct(ctx context.Context, p catalog.Product) error {
	spec, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product %s: %w", p.Code, err)
	}
	query := `INSERT INTO products (code, spec, is_active, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (code) DO UPDATE SET spec=$2, is_active=$3, updated_at=now()`
	_, err = r.db.ExecContext(ctx, query, p.Code, spec, p.IsActive)
	return err
}

func (r *PostgresRepository) ProductByCode(ctx context.Context, code string) (catalog.Product, error) {
	var spec []byte
	query := "SELECT spec FROM products WHERE code=$1 AND is_active"
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&spec); err != nil {
		return catalog.Product{}, err
	}
	var p catalog.Product
	if err := json.Unmarshal(spec, &p); err != nil {
		return catalog.Product{}, fmt.Errorf("decode product %s: %w", code, err)
	}
	return p, nil
}

func (r *PostgresRepository) ActiveProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT spec FROM products WHERE is_active ORDER BY code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var spec []byte
		if err := rows.Scan(&spec); err != nil {
			return nil, err
		}
		var p catalog.Product
		if err := json.Unmarshal(spec, &p); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresRepository) SaveCalculation(ctx context.Context, beamID int, productCode string, res beamcheck.Result) error {
	points, err := json.Marshal(res.PointLoads)
	if err != nil {
		return fmt.Errorf("encode point loads: %w", err)
	}
	query := `INSERT INTO calculations
		(id, beam_id, product_code,
		 demand_moment, demand_shear, demand_deflection,
		 capacity_moment, capacity_shear, deflection_limit,
		 utilization_moment, utilization_shear, utilization_deflection,
		 calc_status, controlling_factor, calc_standard, calc_version,
		 point_loads, udl_kn_m, span_mm, calc_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err = r.db.ExecContext(ctx, query,
		res.ID, beamID, productCode,
		res.DemandMoment, res.DemandShear, res.DemandDeflection,
		res.CapacityMoment, res.CapacityShear, res.DeflectionLimit,
		res.UtilizationMoment, res.UtilizationShear, res.UtilizationDeflection,
		string(res.CalcStatus), res.ControllingFactor, res.CalcStandard, res.CalcVersion,
		points, res.UDLKNM, res.SpanMM, res.CalcDate)
	return err
}

func (r *PostgresRepository) LatestCalculation(ctx context.Context, beamID int) (beamcheck.Result, error) {
	var res beamcheck.Result
	var status string
	var points []byte
	query := `SELECT id, product_code,
		demand_moment, demand_shear, demand_deflection,
		capacity_moment, capacity_shear, deflection_limit,
		utilization_moment, utilization_shear, utilization_deflection,
		calc_status, controlling_factor, calc_standard, calc_version,
		point_loads, udl_kn_m, span_mm, calc_date
		FROM calculations WHERE beam_id=$1 ORDER BY calc_date DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, beamID).Scan(
		&res.ID, &res.ProductCode,
		&res.DemandMoment, &res.DemandShear, &res.DemandDeflection,
		&res.CapacityMoment, &res.CapacityShear, &res.DeflectionLimit,
		&res.UtilizationMoment, &res.UtilizationShear, &res.UtilizationDeflection,
		&status, &res.ControllingFactor, &res.CalcStandard, &res.CalcVersion,
		&points, &res.UDLKNM, &res.SpanMM, &res.CalcDate)
	if err != nil {
		return beamcheck.Result{}, err
	}
	res.CalcStatus = beamcheck.Status(status)
	if len(points) > 0 {
		if err := json.Unmarshal(points, &res.PointLoads); err != nil {
			return beamcheck.Result{}, fmt.Errorf("decode point loads: %w", err)
		}
	}
	return res, nil
}
