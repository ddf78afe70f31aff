package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	plan "structify/internal/plan/models"
	"structify/internal/projects/models"
)

var ErrNotFound = errors.New("project not found")

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the schema migration.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create stores an empty project and returns it.
func (r *Repository) Create(ctx context.Context, name string) (*plan.Project, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO projects (id, name) VALUES (?, ?)
    `, id, name)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return r.Get(ctx, id)
}

// List returns all projects, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, walls, doors, windows, created_at, updated_at
        FROM projects
        ORDER BY created_at DESC, rowid DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []models.Summary{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Summary{
			ID:        p.ID,
			Name:      p.Name,
			Walls:     len(p.Walls),
			Doors:     len(p.Doors),
			Windows:   len(p.Windows),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (*plan.Project, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, walls, doors, windows, created_at, updated_at
        FROM projects
        WHERE id = ?
    `, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update overwrites the name and geometry of an existing project.
func (r *Repository) Update(ctx context.Context, id, name string, pl plan.Plan) (*plan.Project, error) {
	pl.Normalize()
	walls, err := json.Marshal(pl.Walls)
	if err != nil {
		return nil, fmt.Errorf("encode walls: %w", err)
	}
	doors, err := json.Marshal(pl.Doors)
	if err != nil {
		return nil, fmt.Errorf("encode doors: %w", err)
	}
	windows, err := json.Marshal(pl.Windows)
	if err != nil {
		return nil, fmt.Errorf("encode windows: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE projects
        SET name = ?, walls = ?, doors = ?, windows = ?,
            updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
        WHERE id = ?
    `, name, string(walls), string(doors), string(windows), id)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================
// Scanning
// ============================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*plan.Project, error) {
	var (
		p                     plan.Project
		walls, doors, windows string
	)
	if err := s.Scan(&p.ID, &p.Name, &walls, &doors, &windows, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeColumn(walls, &p.Walls); err != nil {
		return nil, fmt.Errorf("project %s walls: %w", p.ID, err)
	}
	if err := decodeColumn(doors, &p.Doors); err != nil {
		return nil, fmt.Errorf("project %s doors: %w", p.ID, err)
	}
	if err := decodeColumn(windows, &p.Windows); err != nil {
		return nil, fmt.Errorf("project %s windows: %w", p.ID, err)
	}
	p.Normalize()
	return &p, nil
}

func decodeColumn(text string, dst any) error {
	if text == "" || text == "null" {
		return nil
	}
	return json.Unmarshal([]byte(text), dst)
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite opens the sqlite database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
