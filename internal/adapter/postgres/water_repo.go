package postgres

import (
	"context"
	"time"

	"vitals/internal/domain"
)

// AddWaterEvent inserts a new water intake event.
func (d *DB) AddWaterEvent(ctx context.Context, deltaLiters float64, occurredAt time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO water_events(delta_liters, occurred_at) VALUES($1, $2) RETURNING id;",
		deltaLiters, occurredAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, domain.StorageError("add water event", err)
	}
	return id, nil
}

// DeleteWaterEvent removes a water event by ID.
func (d *DB) DeleteWaterEvent(ctx context.Context, id int64) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM water_events WHERE id = $1;", id)
	return domain.StorageError("delete water event", err)
}

// ListRecentWaterEvents returns the most recent water events up to limit.
func (d *DB) ListRecentWaterEvents(ctx context.Context, limit int) ([]domain.WaterEvent, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, delta_liters, occurred_at FROM water_events ORDER BY id DESC LIMIT $1;", limit)
	if err != nil {
		return nil, domain.StorageError("list water events", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WaterEvent, 0, limit)
	for rows.Next() {
		var e domain.WaterEvent
		if err := rows.Scan(&e.ID, &e.DeltaLiters, &e.OccurredAt); err != nil {
			return nil, domain.StorageError("list water events", err)
		}
		e.OccurredAt = e.OccurredAt.UTC()
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
		"SELECT COALESCE(SUM(delta_liters), 0) FROM water_events WHERE occurred_at >= $1 AND occurred_at < $2;",
		dayStart.UTC(), dayEnd.UTC(),
	).Scan(&total)
	if err != nil {
		return 0, domain.StorageError("water total", err)
	}
	return total, nil
}
