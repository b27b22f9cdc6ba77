// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"vitals/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu          sync.RWMutex
	cal         domain.Calendar
	weights     map[string]domain.WeightEntry
	days        []string // weight days, ascending
	waterEvents []domain.WaterEvent // ascending by ID

	waterIDCounter int64
}

// New creates a new in-memory database bucketing days with cal.
func New(cal domain.Calendar) *DB {
	return &DB{
		cal:     cal,
		weights: make(map[string]domain.WeightEntry),
	}
}

// Ensure interfaces are met.
var _ domain.Store = (*DB)(nil)

// Close is a no-op; it exists to satisfy domain.Store.
func (db *DB) Close() error {
	return nil
}

// --- WeightRepository ---

// GetWeightForDay returns the entry for day, or nil if there is none.
func (db *DB) GetWeightForDay(ctx context.Context, day string) (*domain.WeightEntry, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	e, ok := db.weights[day]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// UpsertWeightForDay writes or replaces the entry for day.
func (db *DB) UpsertWeightForDay(ctx context.Context, day string, value float64, unit domain.Unit, recordedAt time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.weights[day]; !ok {
		i := sort.SearchStrings(db.days, day)
		db.days = append(db.days, "")
		copy(db.days[i+1:], db.days[i:])
		db.days[i] = day
	}
	db.weights[day] = domain.WeightEntry{
		Day:        day,
		Value:      value,
		Unit:       unit,
		RecordedAt: recordedAt.UTC(),
	}
	return nil
}

// ListRecentWeights lists up to limit entries, most recent day first. It
// walks the day index from the end, so cost is bounded by limit.
func (db *DB) ListRecentWeights(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	n := max(0, min(limit, len(db.days)))
	result := make([]domain.WeightEntry, 0, n)
	for i := len(db.days) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, db.weights[db.days[i]])
	}
	return result, nil
}

// --- WaterRepository ---

// AddWaterEvent adds a water event.
func (db *DB) AddWaterEvent(ctx context.Context, deltaLiters float64, occurredAt time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.waterIDCounter++
	id := db.waterIDCounter

	db.waterEvents = append(db.waterEvents, domain.WaterEvent{
		ID:          id,
		DeltaLiters: deltaLiters,
		OccurredAt:  occurredAt.UTC(),
	})
	return id, nil
}

// DeleteWaterEvent deletes a water event by ID. Unknown IDs are ignored.
func (db *DB) DeleteWaterEvent(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := sort.Search(len(db.waterEvents), func(i int) bool { return db.waterEvents[i].ID >= id })
	if i < len(db.waterEvents) && db.waterEvents[i].ID == id {
		db.waterEvents = append(db.waterEvents[:i], db.waterEvents[i+1:]...)
	}
	return nil
}

// ListRecentWaterEvents lists up to limit events, highest ID first.
func (db *DB) ListRecentWaterEvents(ctx context.Context, limit int) ([]domain.WaterEvent, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	n := min(limit, len(db.waterEvents))
	result := make([]domain.WaterEvent, 0, n)
	for i := len(db.waterEvents) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, db.waterEvents[i])
	}
	return result, nil
}

// WaterTotalForLocalDay returns the total water intake for the given day.
func (db *DB) WaterTotalForLocalDay(ctx context.Context, localDay string) (float64, error) {
	dayStart, dayEnd, err := db.cal.Bounds(localDay)
	if err != nil {
		return 0, err
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	var total float64
	for _, w := range db.waterEvents {
		if !w.OccurredAt.Before(dayStart) && w.OccurredAt.Before(dayEnd) {
			total += w.DeltaLiters
		}
	}
	return total, nil
}
