// Package domain contains the core business entities and the storage ports.
package domain

import (
	"context"
	"time"
)

// Unit is a weight unit.
type Unit string

// Supported weight units.
const (
	Kilograms Unit = "kg"
	Pounds    Unit = "lb"
)

// Valid reports whether u is a supported unit.
func (u Unit) Valid() bool {
	return u == Kilograms || u == Pounds
}

// WeightEntry is the single weight record kept for a local day.
type WeightEntry struct {
	Day        string    `json:"day"`
	Value      float64   `json:"value"`
	Unit       Unit      `json:"unit"`
	RecordedAt time.Time `json:"recordedAt"`
}

// WeightRepository is the port for weight persistence. Implementations keep at
// most one entry per day and trust their inputs.
type WeightRepository interface {
	// GetWeightForDay returns nil, nil when the day has no entry.
	GetWeightForDay(ctx context.Context, day string) (*WeightEntry, error)
	// UpsertWeightForDay atomically writes or replaces the entry for day.
	UpsertWeightForDay(ctx context.Context, day string, value float64, unit Unit, recordedAt time.Time) error
	// ListRecentWeights returns up to limit entries, most recent day first.
	ListRecentWeights(ctx context.Context, limit int) ([]WeightEntry, error)
}
