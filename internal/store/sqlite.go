package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scenarios (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	structure  TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name);
CREATE INDEX IF NOT EXISTS idx_scenarios_created_at ON scenarios(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveScenario(ctx context.Context, name string, cs waterfall.CapitalStructure) (*Scenario, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	structureJSON, err := json.Marshal(cs)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal structure")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, name, structure, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, string(structureJSON), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert scenario")
	}

	return &Scenario{
		ID:        id,
		Name:      name,
		Structure: cs,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateScenario(ctx context.Context, id string, cs waterfall.CapitalStructure) error {
	structureJSON, err := json.Marshal(cs)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal structure")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE scenarios SET structure = ?, updated_at = ? WHERE id = ?`,
		string(structureJSON), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update scenario %s", id)
	}
	return checkRowsAffected(res, id)
}

func (s *SQLiteStore) GetScenario(ctx context.Context, id string) (*Scenario, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, structure, created_at, updated_at FROM scenarios WHERE id = ?`,
		id,
	)
	sc, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return nil, notFound("sqlite", id)
	}
	return sc, err
}

func (s *SQLiteStore) ListScenarios(ctx context.Context, filter ScenarioFilter) ([]Scenario, error) {
	query := `SELECT id, name, structure, created_at, updated_at FROM scenarios WHERE 1=1`
	var args []any

	if filter.Name != "" {
		query += ` AND name = ?`
		args = append(args, filter.Name)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, filter.limit())

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scenarios")
	}
	defer rows.Close()

	var scenarios []Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *sc)
	}
	return scenarios, eris.Wrap(rows.Err(), "sqlite: list scenarios iterate")
}

func (s *SQLiteStore) DeleteScenario(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete scenario %s", id)
	}
	return checkRowsAffected(res, id)
}

// helpers

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return notFound("sqlite", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

// scanScenario returns sql.ErrNoRows unwrapped so callers can map it.
func scanScenario(row scannable) (*Scenario, error) {
	var sc Scenario
	var structureJSON string

	err := row.Scan(&sc.ID, &sc.Name, &structureJSON, &sc.CreatedAt, &sc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan scenario")
	}
	if err := json.Unmarshal([]byte(structureJSON), &sc.Structure); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal structure")
	}
	return &sc, nil
}
