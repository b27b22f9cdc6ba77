package domain

import (
	"context"
	"time"
)

// DefaultMaxWaterDelta is the default magnitude ceiling for a single water event, in liters.
const DefaultMaxWaterDelta = 10.0

// WaterEvent is an immutable, signed water intake entry in the ledger.
type WaterEvent struct {
	ID          int64     `json:"id"`
	DeltaLiters float64   `json:"deltaLiters"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// WaterRepository is the port for the append-only water ledger.
type WaterRepository interface {
	// AddWaterEvent appends an event and returns its newly assigned id.
	AddWaterEvent(ctx context.Context, deltaLiters float64, occurredAt time.Time) (int64, error)
	// ListRecentWaterEvents returns up to limit events, highest id first.
	ListRecentWaterEvents(ctx context.Context, limit int) ([]WaterEvent, error)
	// DeleteWaterEvent removes the event with id. Unknown ids are a no-op.
	DeleteWaterEvent(ctx context.Context, id int64) error
	// WaterTotalForLocalDay sums the deltas of events that occurred on day.
	WaterTotalForLocalDay(ctx context.Context, day string) (float64, error)
}
