package feedbackstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/brew-advisor/internal/domain/feedback"
	"github.com/yanqian/brew-advisor/pkg/util"
)

// appendLockKey is the advisory lock serializing appends across app instances.
const appendLockKey int64 = 0x62726577

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS beverage_feedback (
		seq                  BIGSERIAL PRIMARY KEY,
		id                   TEXT NOT NULL UNIQUE,
		recorded_at          TEXT NOT NULL,
		recommended_beverage TEXT NOT NULL,
		weather              TEXT NOT NULL DEFAULT '',
		mood                 TEXT NOT NULL DEFAULT '',
		temperature          DOUBLE PRECISION NOT NULL DEFAULT 0,
		humidity             DOUBLE PRECISION NOT NULL DEFAULT 0,
		liked                BOOLEAN NOT NULL,
		comment              TEXT NOT NULL DEFAULT ''
	)
`

// PostgresStore implements feedback.Store using pgx.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresStore constructs the repository.
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{
		pool:   pool,
		logger: logger.With("component", "feedbackstore.postgres"),
		now:    util.NowUTC,
	}
}

// EnsureSchema creates the feedback table when missing.
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create feedback table: %w", err)
	}
	return nil
}

// Append inserts the record and evicts rows beyond the cap in one transaction.
func (r *PostgresStore) Append(ctx context.Context, rec feedback.Record) (feedback.Record, error) {
	stamped, err := feedback.Stamp(rec, r.now())
	if err != nil {
		return feedback.Record{}, err
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, appendLockKey); err != nil {
			return fmt.Errorf("lock feedback log: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO beverage_feedback (id, recorded_at, recommended_beverage, weather, mood, temperature, humidity, liked, comment)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, stamped.ID, stamped.Timestamp, stamped.RecommendedBeverage, stamped.Weather, stamped.Mood,
			stamped.Temperature, stamped.Humidity, stamped.Liked, stamped.Comment); err != nil {
			return fmt.Errorf("insert feedback: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			DELETE FROM beverage_feedback
			WHERE seq <= (
				SELECT seq FROM beverage_feedback
				ORDER BY seq DESC
				OFFSET $1 LIMIT 1
			)
		`, feedback.MaxRecords); err != nil {
			return fmt.Errorf("evict feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return feedback.Record{}, err
	}
	return stamped, nil
}

// LoadAll returns every row ordered by arrival. Any read failure yields an
// empty log.
func (r *PostgresStore) LoadAll(ctx context.Context) (feedback.Log, error) {
	log, err := r.loadAll(ctx)
	if err != nil {
		r.logger.Warn("feedback read failed, returning empty log", "error", err)
		return feedback.Log{}, nil
	}
	return log, nil
}

func (r *PostgresStore) loadAll(ctx context.Context) (feedback.Log, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, recorded_at, recommended_beverage, weather, mood, temperature, humidity, liked, comment
		FROM beverage_feedback
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	log := feedback.Log{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		log = append(log, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read feedback rows: %w", err)
	}
	return log, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (feedback.Record, error) {
	var rec feedback.Record
	err := row.Scan(&rec.ID, &rec.Timestamp, &rec.RecommendedBeverage, &rec.Weather, &rec.Mood,
		&rec.Temperature, &rec.Humidity, &rec.Liked, &rec.Comment)
	return rec, err
}

var _ feedback.Store = (*PostgresStore)(nil)
