package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vitals/internal/domain"
)

// GetWeightForDay returns the entry for day, or nil if there is none.
func (d *DB) GetWeightForDay(ctx context.Context, day string) (*domain.WeightEntry, error) {
	var (
		e    domain.WeightEntry
		unit string
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT day, value, unit, recorded_at FROM weights WHERE day = $1;", day,
	).Scan(&e.Day, &e.Value, &unit, &e.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("get weight", err)
	}
	e.Unit = domain.Unit(unit)
	e.RecordedAt = e.RecordedAt.UTC()
	return &e, nil
}

// UpsertWeightForDay writes or replaces the entry for day in a single statement.
func (d *DB) UpsertWeightForDay(ctx context.Context, day string, value float64, unit domain.Unit, recordedAt time.Time) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO weights(day, value, unit, recorded_at) VALUES($1, $2, $3, $4)
		ON CONFLICT (day) DO UPDATE SET value = EXCLUDED.value, unit = EXCLUDED.unit, recorded_at = EXCLUDED.recorded_at;`,
		day, value, string(unit), recordedAt.UTC(),
	)
	return domain.StorageError("upsert weight", err)
}

// ListRecentWeights returns up to limit entries, most recent day first.
func (d *DB) ListRecentWeights(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT day, value, unit, recorded_at FROM weights ORDER BY day DESC LIMIT $1;", limit)
	if err != nil {
		return nil, domain.StorageError("list weights", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WeightEntry, 0, limit)
	for rows.Next() {
		var (
			e    domain.WeightEntry
			unit string
		)
		if err := rows.Scan(&e.Day, &e.Value, &unit, &e.RecordedAt); err != nil {
			return nil, domain.StorageError("list weights", err)
		}
		e.Unit = domain.Unit(unit)
		e.RecordedAt = e.RecordedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list weights", err)
	}
	return out, nil
}
