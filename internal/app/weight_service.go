package app

import (
	"context"
	"time"

	"vitals/internal/domain"
)

// WeightService encapsulates weight-tracking use cases.
type WeightService struct {
	repo     domain.WeightRepository
	cal      domain.Calendar
	validate *Validator
	opts     options
}

// NewWeightService creates a WeightService backed by the given repository.
func NewWeightService(repo domain.WeightRepository, cal domain.Calendar, opts ...Option) *WeightService {
	o := newOptions(opts)
	return &WeightService{repo: repo, cal: cal, validate: NewValidator(o.maxWaterDelta), opts: o}
}

// Today returns the current local day.
func (s *WeightService) Today() string {
	return s.cal.LocalDay(s.opts.now())
}

// GetTodayWeight returns the entry for the given local day, or nil if there is none.
func (s *WeightService) GetTodayWeight(ctx context.Context, today string) (*domain.WeightEntry, error) {
	if err := s.validate.Day(today); err != nil {
		return nil, err
	}
	return s.repo.GetWeightForDay(ctx, today)
}

// RecordWeight validates and stores today's weight, replacing any earlier
// entry for the same day. It returns the written entry and the day it was
// keyed on; a concurrent writer to the same day may already have replaced it.
func (s *WeightService) RecordWeight(ctx context.Context, value float64, unit domain.Unit) (*domain.WeightEntry, string, error) {
	now := s.opts.now()
	today := s.cal.LocalDay(now)
	if err := s.validate.Weight(value, unit); err != nil {
		return nil, today, err
	}
	if err := s.repo.UpsertWeightForDay(ctx, today, value, unit, now); err != nil {
		return nil, today, err
	}
	return written(today, value, unit, now), today, nil
}

// RecordWeightForDay stores a weight for an explicit day.
func (s *WeightService) RecordWeightForDay(ctx context.Context, day string, value float64, unit domain.Unit) (*domain.WeightEntry, error) {
	if err := s.validate.Day(day); err != nil {
		return nil, err
	}
	if err := s.validate.Weight(value, unit); err != nil {
		return nil, err
	}
	now := s.opts.now()
	if err := s.repo.UpsertWeightForDay(ctx, day, value, unit, now); err != nil {
		return nil, err
	}
	return written(day, value, unit, now), nil
}

func written(day string, value float64, unit domain.Unit, at time.Time) *domain.WeightEntry {
	return &domain.WeightEntry{Day: day, Value: value, Unit: unit, RecordedAt: at.UTC()}
}

// ListRecent returns up to limit entries, most recent day first. A
// non-positive limit selects DefaultWeightLimit.
func (s *WeightService) ListRecent(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	return s.repo.ListRecentWeights(ctx, normalizeLimit(limit, DefaultWeightLimit))
}
