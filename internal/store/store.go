// Package store keeps a history of generated build orders in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/napolitain/buildorder/internal/models"
	"github.com/napolitain/buildorder/internal/solver/buildorder"
)

// ErrNotFound is returned when no run has the requested id
var ErrNotFound = errors.New("run not found")

// Run is one stored build order
type Run struct {
	ID           string
	CreatedAt    time.Time
	CivID        int
	Civilization string
	Primary      string
	Secondary    string
	Siege        string
	Seed         uint64
	Attempts     int
	Trial        int
	Score        float64
	Actions      int
	Cost         models.Cost
	Program      []int // header followed by action codes
}

// NewRun captures a finished plan and its final action list
func NewRun(civ *models.Civilization, plan *buildorder.Plan, actions []models.Action, attempts int) Run {
	return Run{
		CivID:        civ.ID,
		Civilization: civ.Name,
		Primary:      unitName(plan.Goals.Primary),
		Secondary:    unitName(plan.Goals.Secondary),
		Siege:        unitName(plan.Goals.Siege),
		Seed:         plan.Seed,
		Attempts:     attempts,
		Trial:        plan.Trial,
		Score:        plan.Score,
		Actions:      len(actions),
		Cost:         models.TotalCost(actions),
		Program:      models.EncodeProgram(actions),
	}
}

func unitName(u *models.Unit) string {
	if u == nil {
		return ""
	}
	return u.Name
}

type runRow struct {
	ID           string  `db:"id"`
	CreatedAt    int64   `db:"created_at"`
	CivID        int     `db:"civ_id"`
	Civilization string  `db:"civilization"`
	Primary      string  `db:"primary_unit"`
	Secondary    string  `db:"secondary_unit"`
	Siege        string  `db:"siege_unit"`
	Seed         int64   `db:"seed"`
	Attempts     int     `db:"attempts"`
	Trial        int     `db:"trial"`
	Score        float64 `db:"score"`
	Actions      int     `db:"actions"`
	Food         int     `db:"food"`
	Wood         int     `db:"wood"`
	Gold         int     `db:"gold"`
	Stone        int     `db:"stone"`
	ProgramJSON  string  `db:"program_json"`
}

func (r runRow) run() (Run, error) {
	var program []int
	if err := json.Unmarshal([]byte(r.ProgramJSON), &program); err != nil {
		return Run{}, fmt.Errorf("decode program of run %s: %w", r.ID, err)
	}
	return Run{
		ID:           r.ID,
		CreatedAt:    time.UnixMilli(r.CreatedAt).UTC(),
		CivID:        r.CivID,
		Civilization: r.Civilization,
		Primary:      r.Primary,
		Secondary:    r.Secondary,
		Siege:        r.Siege,
		Seed:         uint64(r.Seed),
		Attempts:     r.Attempts,
		Trial:        r.Trial,
		Score:        r.Score,
		Actions:      r.Actions,
		Cost:         models.Cost{Food: r.Food, Wood: r.Wood, Gold: r.Gold, Stone: r.Stone},
		Program:      program,
	}, nil
}

// DB wraps a SQLite connection holding the run history
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates a SQLite database at the given path
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		civ_id INTEGER NOT NULL,
		civilization TEXT NOT NULL,
		primary_unit TEXT NOT NULL,
		secondary_unit TEXT NOT NULL,
		siege_unit TEXT NOT NULL,
		seed INTEGER NOT NULL,
		attempts INTEGER NOT NULL,
		trial INTEGER NOT NULL,
		score REAL NOT NULL,
		actions INTEGER NOT NULL,
		food INTEGER NOT NULL,
		wood INTEGER NOT NULL,
		gold INTEGER NOT NULL,
		stone INTEGER NOT NULL,
		program_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_civ ON runs(civ_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Save stores a run under a fresh id and returns the id
func (db *DB) Save(ctx context.Context, run Run) (string, error) {
	program, err := json.Marshal(run.Program)
	if err != nil {
		return "", fmt.Errorf("encode program: %w", err)
	}

	row := runRow{
		ID:           uuid.NewString(),
		CreatedAt:    db.now().UnixMilli(),
		CivID:        run.CivID,
		Civilization: run.Civilization,
		Primary:      run.Primary,
		Secondary:    run.Secondary,
		Siege:        run.Siege,
		Seed:         int64(run.Seed),
		Attempts:     run.Attempts,
		Trial:        run.Trial,
		Score:        run.Score,
		Actions:      run.Actions,
		Food:         run.Cost.Food,
		Wood:         run.Cost.Wood,
		Gold:         run.Cost.Gold,
		Stone:        run.Cost.Stone,
		ProgramJSON:  string(program),
	}

	_, err = db.conn.NamedExecContext(ctx, `INSERT INTO runs
		(id, created_at, civ_id, civilization, primary_unit, secondary_unit, siege_unit,
		 seed, attempts, trial, score, actions, food, wood, gold, stone, program_json)
		VALUES (:id, :created_at, :civ_id, :civilization, :primary_unit, :secondary_unit, :siege_unit,
		 :seed, :attempts, :trial, :score, :actions, :food, :wood, :gold, :stone, :program_json)`, row)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return row.ID, nil
}

// Get returns the run with the given id
func (db *DB) Get(ctx context.Context, id string) (Run, error) {
	var row runRow
	err := db.conn.GetContext(ctx, &row, "SELECT * FROM runs WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Run{}, err
	}
	return row.run()
}

// List returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (db *DB) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []runRow
	err := db.conn.SelectContext(ctx, &rows,
		"SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		run, err := row.run()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}
