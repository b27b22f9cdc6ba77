package sqlite

import (
	"context"
	"time"

	"vitals/internal/domain"
)

// AddWaterEvent inserts a new water intake event.
func (d *DB) AddWaterEvent(ctx context.Context, deltaLiters float64, occurredAt time.Time) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO water_events(delta_liters, occurred_at) VALUES(?, ?);`,
		deltaLiters, toNanos(occurredAt),
	)
	if err != nil {
		return 0, domain.StorageError("add water event", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.StorageError("add water event", err)
	}
	return id, nil
}

// DeleteWaterEvent removes a water event by ID.
func (d *DB) DeleteWaterEvent(ctx context.Context, id int64) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM water_events WHERE id = ?;`, id)
	return domain.StorageError("delete water event", err)
}

// ListRecentWaterEvents returns the most recent water events up to limit.
func (d *DB) ListRecentWaterEvents(ctx context.Context, limit int) ([]domain.WaterEvent, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, delta_liters, occurred_at FROM water_events ORDER BY id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, domain.StorageError("list water events", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WaterEvent, 0, limit)
	for rows.Next() {
		var (
			e     domain.WaterEvent
			nanos int64
		)
		if err := rows.Scan(&e.ID, &e.DeltaLiters, &nanos); err != nil {
			return nil, domain.StorageError("list water events", err)
		}
		e.OccurredAt = fromNanos(nanos)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list water events", err)
	}
	return out, nil
}

// WaterTotalForLocalDay returns the total water intake for a local calendar day.
func (d *DB) WaterTotalForLocalDay(ctx context.Context, localDay string) (float64, error) {
	dayStart, dayEnd, err := d.cal.Bounds(localDay)
	if err != nil {
		return 0, err
	}

	var total float64
	err = d.sql.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(delta_liters), 0) FROM water_events WHERE occurred_at >= ? AND occurred_at < ?;`,
		toNanos(dayStart), toNanos(dayEnd),
	).Scan(&total)
	if err != nil {
		return 0, domain.StorageError("water total", err)
	}
	return total, nil
}
