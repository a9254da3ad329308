// Package store handles SQLite persistence of cryptanalysis runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/cryptan/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT NOT NULL,
			min_length INTEGER NOT NULL,
			max_length INTEGER NOT NULL,
			letters INTEGER NOT NULL,
			best_length INTEGER NOT NULL,
			key TEXT NOT NULL,
			preview TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_lengths (
			run_id INTEGER NOT NULL,
			length INTEGER NOT NULL,
			average_ioc REAL NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (run_id, length)
		);`,
		`CREATE TABLE IF NOT EXISTS run_class_ioc (
			run_id INTEGER NOT NULL,
			length INTEGER NOT NULL,
			class_index INTEGER NOT NULL,
			ioc REAL NOT NULL,
			PRIMARY KEY (run_id, length, class_index)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a run with its per-length and per-class scores.
func (s *Store) InsertRun(ctx context.Context, run model.Run) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, source, min_length, max_length, letters, best_length, key, preview)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Source,
		run.MinLength,
		run.MaxLength,
		run.Letters,
		run.BestLength,
		run.Key,
		run.Preview,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(run.Lengths) > 0 {
		lengthStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_lengths (run_id, length, average_ioc, score) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer closeStmt(lengthStmt)
		classStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_class_ioc (run_id, length, class_index, ioc) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer closeStmt(classStmt)

		for _, l := range run.Lengths {
			if _, err := lengthStmt.ExecContext(ctx, id, l.Length, l.AverageIOC, l.Score); err != nil {
				return 0, err
			}
			for i, ioc := range l.ClassIOC {
				if _, err := classStmt.ExecContext(ctx, id, l.Length, i, ioc); err != nil {
					return 0, err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns runs without per-length detail, oldest first.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.Run, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, cfg.Source)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, created_at, source, min_length, max_length, letters, best_length, key, preview
		FROM runs
		WHERE %s
		ORDER BY created_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}

// GetRun loads one run including its per-length and per-class scores.
func (s *Store) GetRun(ctx context.Context, id int64) (model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, min_length, max_length, letters, best_length, key, preview
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return model.Run{}, err
	}

	lengths, err := s.listLengths(ctx, id)
	if err != nil {
		return model.Run{}, err
	}
	run.Lengths = lengths
	return run, nil
}

func (s *Store) listLengths(ctx context.Context, runID int64) ([]model.LengthScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT length, average_ioc, score FROM run_lengths WHERE run_id = ? ORDER BY length ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var lengths []model.LengthScore
	index := map[int]int{}
	for rows.Next() {
		var l model.LengthScore
		if err := rows.Scan(&l.Length, &l.AverageIOC, &l.Score); err != nil {
			return nil, err
		}
		index[l.Length] = len(lengths)
		l.ClassIOC = make([]float64, l.Length)
		lengths = append(lengths, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	classRows, err := s.db.QueryContext(ctx,
		`SELECT length, class_index, ioc FROM run_class_ioc WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer closeRows(classRows)
	for classRows.Next() {
		var length, classIndex int
		var ioc float64
		if err := classRows.Scan(&length, &classIndex, &ioc); err != nil {
			return nil, err
		}
		pos, ok := index[length]
		if !ok || classIndex < 0 || classIndex >= len(lengths[pos].ClassIOC) {
			continue
		}
		lengths[pos].ClassIOC[classIndex] = ioc
	}
	if err := classRows.Err(); err != nil {
		return nil, err
	}
	return lengths, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (model.Run, error) {
	var run model.Run
	var createdAt string
	if err := row.Scan(&run.ID, &createdAt, &run.Source, &run.MinLength, &run.MaxLength,
		&run.Letters, &run.BestLength, &run.Key, &run.Preview); err != nil {
		return model.Run{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Run{}, err
	}
	run.CreatedAt = parsed
	return run, nil
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func closeStmt(stmt *sql.Stmt) {
	if cerr := stmt.Close(); cerr != nil {
		// Best-effort statement close.
		_ = cerr
	}
}
