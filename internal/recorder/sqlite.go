package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"stablesim/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a run is still writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id         TEXT PRIMARY KEY,
			started        INTEGER NOT NULL,
			finished       INTEGER,
			trigger_type   TEXT,
			seed           INTEGER,
			households     INTEGER,
			banks          INTEGER,
			params_json    TEXT,
			ticks          INTEGER,
			total_deposits REAL,
			total_coin     REAL,
			stop_reason    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started)`,

		`CREATE TABLE IF NOT EXISTS tick_series (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			tick           INTEGER NOT NULL,
			total_deposits REAL,
			total_coin     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tick_run ON tick_series(run_id, tick)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(meta *RunMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	params, err := json.Marshal(meta.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	_, err = r.db.Exec(`INSERT INTO runs
		(run_id, started, trigger_type, seed, households, banks, params_json)
		VALUES (?,?,?,?,?,?,?)`,
		meta.RunID, time.Now().Unix(), meta.Trigger, meta.Seed,
		meta.Params.Households, meta.Params.Banks, string(params),
	)
	return err
}

func (r *SQLiteRecorder) RecordTick(runID string, stats model.TickStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO tick_series
		(run_id, tick, total_deposits, total_coin)
		VALUES (?,?,?,?)`,
		runID, stats.Tick, stats.TotalDeposits, stats.TotalCoin,
	)
	return err
}

func (r *SQLiteRecorder) FinishRun(runID string, res *model.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`UPDATE runs
		SET finished = ?, ticks = ?, total_deposits = ?, total_coin = ?, stop_reason = ?
		WHERE run_id = ?`,
		res.Finished.Unix(), res.Ticks, res.TotalDeposits, res.TotalCoin,
		string(res.Stop), runID,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
