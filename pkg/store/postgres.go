package store

import (
	"context"
	"fmt"
	"time"

	"sensor-bridge/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS data_sensor (
	id        BIGSERIAL PRIMARY KEY,
	suhu      DOUBLE PRECISION,
	humidity  DOUBLE PRECISION,
	lux       DOUBLE PRECISION,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres implements Store over a bounded pgx connection pool. Each
// operation acquires a connection from the pool and releases it on every
// exit path, including failure.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects the pool, verifies the connection and ensures the
// data_sensor table exists.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database not reachable: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) InsertReading(ctx context.Context, temperature, humidity float64) error {
	query := `INSERT INTO data_sensor (suhu, humidity) VALUES ($1, $2)`

	if _, err := p.pool.Exec(ctx, query, temperature, humidity); err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateLatestBrightness(ctx context.Context, brightness float64) (int64, error) {
	// Targets only the max-id row; on an empty table this matches zero rows.
	query := `UPDATE data_sensor SET lux = $1 WHERE id = (SELECT max(id) FROM data_sensor)`

	tag, err := p.pool.Exec(ctx, query, brightness)
	if err != nil {
		return 0, fmt.Errorf("failed to update brightness: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) AggregateStats(ctx context.Context) (Stats, error) {
	// Aggregates over an empty table yield SQL NULL, scanned into nil pointers.
	query := `
		SELECT
			MAX(suhu),
			MIN(suhu),
			ROUND(AVG(suhu)::numeric, 2)::float8
		FROM data_sensor
	`

	var stats Stats
	if err := p.pool.QueryRow(ctx, query).Scan(&stats.Max, &stats.Min, &stats.Avg); err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	return stats, nil
}

func (p *Postgres) RecentReadings(ctx context.Context, limit int) ([]Reading, error) {
	query := `
		SELECT id, suhu, humidity, lux, timestamp
		FROM data_sensor
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent readings: %w", err)
	}
	defer rows.Close()

	readings := make([]Reading, 0, limit)
	for rows.Next() {
		var r Reading
		var ts time.Time
		if err := rows.Scan(&r.ID, &r.Suhu, &r.Humidity, &r.Kecerahan, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		r.Waktu = ts.Format(TimestampFormat)
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return readings, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}
