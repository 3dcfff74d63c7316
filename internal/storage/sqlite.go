// Package storage persists training runs in SQLite and dataset edge
// lists in JSONL.
package storage

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the run registry database.
type DB struct {
	db *sql.DB
}

// selectRunFields is the standard field list for run SELECT queries.
const selectRunFields = `id, created_at, dataset, epochs, lr, optimizer, seed,
	test_positives, train_negatives, test_negatives,
	embed_dim, hidden_dim, out_dim,
	final_loss, test_accuracy, test_auc, duration_ms, checkpoint_path`

// OpenDB opens or creates the run registry at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- One row per training run
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			dataset TEXT NOT NULL,
			epochs INTEGER NOT NULL,
			lr REAL NOT NULL,
			optimizer TEXT NOT NULL,
			seed INTEGER NOT NULL,
			test_positives INTEGER NOT NULL,
			train_negatives INTEGER NOT NULL,
			test_negatives INTEGER NOT NULL,
			embed_dim INTEGER NOT NULL,
			hidden_dim INTEGER NOT NULL,
			out_dim INTEGER NOT NULL,
			final_loss REAL NOT NULL,
			test_accuracy REAL NOT NULL,
			test_auc REAL NOT NULL,
			duration_ms INTEGER NOT NULL,
			checkpoint_path TEXT
		);

		-- Per-epoch loss curve
		CREATE TABLE IF NOT EXISTS run_epochs (
			run_id TEXT NOT NULL,
			epoch INTEGER NOT NULL,
			loss REAL NOT NULL,
			PRIMARY KEY (run_id, epoch)
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Run is a recorded training run. The split counts and model dimensions
// are stored per run so the held-out set and checkpoint can be
// reconstructed even after the workspace config changes.
type Run struct {
	ID             string        `json:"id"`
	CreatedAt      time.Time     `json:"created_at"`
	Dataset        string        `json:"dataset"`
	Epochs         int           `json:"epochs"`
	LR             float64       `json:"lr"`
	Optimizer      string        `json:"optimizer"`
	Seed           int64         `json:"seed"`
	TestPositives  int           `json:"test_positives"`
	TrainNegatives int           `json:"train_negatives"`
	TestNegatives  int           `json:"test_negatives"`
	EmbedDim       int           `json:"embed_dim"`
	HiddenDim      int           `json:"hidden_dim"`
	OutDim         int           `json:"out_dim"`
	FinalLoss      float64       `json:"final_loss"`
	TestAccuracy   float64       `json:"test_accuracy"`
	TestAUC        float64       `json:"test_auc"`
	Duration       time.Duration `json:"duration"`
	CheckpointPath string        `json:"checkpoint_path,omitempty"`
}

// NewRunID returns a timestamp-based run identifier. A random suffix
// keeps runs started within the same second from colliding on the
// primary key.
func NewRunID(now time.Time) string {
	return fmt.Sprintf("run-%s-%04x", now.UTC().Format("20060102-150405"), rand.Intn(1<<16))
}

// SaveRun inserts a run and its loss curve in one transaction.
func (d *DB) SaveRun(run Run, losses []float64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (`+selectRunFields+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.CreatedAt.UTC().Unix(), run.Dataset,
		run.Epochs, run.LR, run.Optimizer, run.Seed,
		run.TestPositives, run.TrainNegatives, run.TestNegatives,
		run.EmbedDim, run.HiddenDim, run.OutDim,
		run.FinalLoss, run.TestAccuracy, run.TestAUC,
		run.Duration.Milliseconds(), nullableString(run.CheckpointPath),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_epochs (run_id, epoch, loss) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing epoch insert: %w", err)
	}
	defer stmt.Close()

	for i, loss := range losses {
		if _, err := stmt.Exec(run.ID, i+1, loss); err != nil {
			return fmt.Errorf("inserting epoch %d for %s: %w", i+1, run.ID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by ID. Returns nil when not found.
func (d *DB) GetRun(id string) (*Run, error) {
	row := d.db.QueryRow(`SELECT `+selectRunFields+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns runs newest first, optionally limited.
func (d *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + selectRunFields + ` FROM runs ORDER BY created_at DESC, id DESC`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run != nil {
			runs = append(runs, *run)
		}
	}
	return runs, rows.Err()
}

// LossHistory returns a run's per-epoch losses in epoch order.
func (d *DB) LossHistory(runID string) ([]float64, error) {
	rows, err := d.db.Query(`SELECT loss FROM run_epochs WHERE run_id = ? ORDER BY epoch`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying loss history: %w", err)
	}
	defer rows.Close()

	var losses []float64
	for rows.Next() {
		var loss float64
		if err := rows.Scan(&loss); err != nil {
			return nil, err
		}
		losses = append(losses, loss)
	}
	return losses, rows.Err()
}

// Count returns the total number of recorded runs.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// DeleteRun removes a run and its loss curve in one transaction.
// Reports whether a run row was actually deleted.
func (d *DB) DeleteRun(id string) (bool, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting run %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM run_epochs WHERE run_id = ?", id); err != nil {
		return false, fmt.Errorf("deleting epochs for %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing delete of %s: %w", id, err)
	}
	return n > 0, nil
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var createdAt, durationMs int64
	var checkpoint sql.NullString

	err := s.Scan(
		&run.ID, &createdAt, &run.Dataset,
		&run.Epochs, &run.LR, &run.Optimizer, &run.Seed,
		&run.TestPositives, &run.TrainNegatives, &run.TestNegatives,
		&run.EmbedDim, &run.HiddenDim, &run.OutDim,
		&run.FinalLoss, &run.TestAccuracy, &run.TestAUC,
		&durationMs, &checkpoint,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	run.Duration = time.Duration(durationMs) * time.Millisecond
	run.CheckpointPath = checkpoint.String
	return &run, nil
}

// nullableString converts a string to sql.NullString, treating empty as NULL.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
