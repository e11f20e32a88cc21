package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/waterfall-cli/internal/waterfall"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`

	// ConnectAttempts bounds the startup ping retries. Zero uses the default.
	ConnectAttempts int `yaml:"connect_attempts" mapstructure:"connect_attempts"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	retry := defaultConnectRetry
	if poolCfg != nil {
		if poolCfg.ConnectAttempts > 0 {
			retry.attempts = poolCfg.ConnectAttempts
		}
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := retry.do(ctx, "ping", pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS scenarios (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL,
	structure  JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name);
CREATE INDEX IF NOT EXISTS idx_scenarios_created_at ON scenarios(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveScenario(ctx context.Context, name string, cs waterfall.CapitalStructure) (*Scenario, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	structureJSON, err := json.Marshal(cs)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal structure")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO scenarios (id, name, structure, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, name, structureJSON, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert scenario")
	}

	return &Scenario{
		ID:        id,
		Name:      name,
		Structure: cs,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateScenario(ctx context.Context, id string, cs waterfall.CapitalStructure) error {
	structureJSON, err := json.Marshal(cs)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal structure")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE scenarios SET structure = $1, updated_at = $2 WHERE id = $3`,
		structureJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update scenario %s", id)
	}
	if tag.RowsAffected() == 0 {
		return notFound("postgres", id)
	}
	return nil
}

func (s *PostgresStore) GetScenario(ctx context.Context, id string) (*Scenario, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, structure, created_at, updated_at FROM scenarios WHERE id = $1`,
		id,
	)
	sc, err := scanPgScenario(row)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, notFound("postgres", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get scenario %s", id)
	}
	return sc, nil
}

func (s *PostgresStore) ListScenarios(ctx context.Context, filter ScenarioFilter) ([]Scenario, error) {
	query := `SELECT id, name, structure, created_at, updated_at FROM scenarios`
	args := []any{}

	if filter.Name != "" {
		args = append(args, filter.Name)
		query += ` WHERE name = $1`
	}
	args = append(args, filter.limit(), filter.Offset)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scenarios")
	}
	defer rows.Close()

	var scenarios []Scenario
	for rows.Next() {
		sc, err := scanPgScenario(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan scenario")
		}
		scenarios = append(scenarios, *sc)
	}
	return scenarios, eris.Wrap(rows.Err(), "postgres: list scenarios iterate")
}

func (s *PostgresStore) DeleteScenario(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete scenario %s", id)
	}
	if tag.RowsAffected() == 0 {
		return notFound("postgres", id)
	}
	return nil
}

func scanPgScenario(row pgx.Row) (*Scenario, error) {
	var sc Scenario
	var structureJSON []byte

	if err := row.Scan(&sc.ID, &sc.Name, &structureJSON, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(structureJSON, &sc.Structure); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal structure")
	}
	return &sc, nil
}
