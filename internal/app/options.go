// Package app holds the application services and business logic.
package app

import "time"

// Default and maximum page sizes for the recent-items listings.
const (
	DefaultWeightLimit = 14
	DefaultWaterLimit  = 20
	MaxListLimit       = 1000
)

// Option configures a service.
type Option func(*options)

type options struct {
	now           func() time.Time
	maxWaterDelta float64
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides the wall clock used to stamp writes and compute today.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMaxWaterDelta sets the magnitude ceiling for a single water event.
func WithMaxWaterDelta(liters float64) Option {
	return func(o *options) {
		o.maxWaterDelta = liters
	}
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
