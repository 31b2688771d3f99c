// Package history persists analysis runs to a local SQLite database so
// prior recommendations can be reviewed and compared.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pmlens/pmlens/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	project_path TEXT NOT NULL,
	mode TEXT NOT NULL,
	confidence REAL NOT NULL,
	completeness REAL NOT NULL,
	file_count INTEGER NOT NULL,
	available_count INTEGER NOT NULL,
	missing_count INTEGER NOT NULL,
	reasoning TEXT NOT NULL DEFAULT '',
	recommendation_json TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project_path);
`

// Run is one recorded analysis.
type Run struct {
	ID             string                `json:"id"`
	CreatedAt      time.Time             `json:"created_at"`
	ProjectPath    string                `json:"project_path"`
	Mode           types.OperationMode   `json:"mode"`
	Confidence     float64               `json:"confidence"`
	Completeness   float64               `json:"completeness"`
	FileCount      int                   `json:"file_count"`
	AvailableCount int                   `json:"available_count"`
	MissingCount   int                   `json:"missing_count"`
	Reasoning      string                `json:"reasoning"`
	Recommendation *types.Recommendation `json:"recommendation,omitempty"`
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		path += "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record saves a run and returns it with its assigned ID and timestamp.
func (s *Store) Record(ctx context.Context, projectPath string, rec *types.Recommendation,
	completeness float64, fileCount int) (*Run, error) {

	if rec == nil {
		return nil, fmt.Errorf("recommendation is required")
	}

	run := &Run{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		ProjectPath:    projectPath,
		Mode:           rec.RecommendedMode,
		Confidence:     rec.ConfidenceScore,
		Completeness:   completeness,
		FileCount:      fileCount,
		AvailableCount: len(rec.AvailableDocuments),
		MissingCount:   len(rec.MissingDocuments),
		Reasoning:      rec.Reasoning,
		Recommendation: rec,
	}

	recJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, project_path, mode, confidence,
			completeness, file_count, available_count, missing_count,
			reasoning, recommendation_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.ProjectPath, string(run.Mode),
		run.Confidence, run.Completeness, run.FileCount,
		run.AvailableCount, run.MissingCount, run.Reasoning, string(recJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. A non-empty
// projectPath filters to that project; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, projectPath string, limit int) ([]*Run, error) {
	query := `
		SELECT id, created_at, project_path, mode, confidence, completeness,
			file_count, available_count, missing_count, reasoning, recommendation_json
		FROM runs`
	var args []any
	if projectPath != "" {
		query += " WHERE project_path = ?"
		args = append(args, projectPath)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run by ID, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, project_path, mode, confidence, completeness,
			file_count, available_count, missing_count, reasoning, recommendation_json
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var mode, recJSON string
	err := row.Scan(&run.ID, &run.CreatedAt, &run.ProjectPath, &mode,
		&run.Confidence, &run.Completeness, &run.FileCount,
		&run.AvailableCount, &run.MissingCount, &run.Reasoning, &recJSON)
	if err != nil {
		return nil, err
	}
	run.Mode = types.OperationMode(mode)

	var rec types.Recommendation
	if err := json.Unmarshal([]byte(recJSON), &rec); err == nil && rec.RecommendedMode != "" {
		run.Recommendation = &rec
	}
	return &run, nil
}
