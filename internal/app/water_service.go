package app

import (
	"context"

	"vitals/internal/domain"
)

// WaterService encapsulates water-tracking use cases.
type WaterService struct {
	repo     domain.WaterRepository
	cal      domain.Calendar
	validate *Validator
	opts     options
}

// NewWaterService creates a WaterService backed by the given repository.
func NewWaterService(repo domain.WaterRepository, cal domain.Calendar, opts ...Option) *WaterService {
	o := newOptions(opts)
	return &WaterService{repo: repo, cal: cal, validate: NewValidator(o.maxWaterDelta), opts: o}
}

// Today returns the current local day.
func (s *WaterService) Today() string {
	return s.cal.LocalDay(s.opts.now())
}

// GetTodayTotal returns the total water intake in liters for the given local day.
func (s *WaterService) GetTodayTotal(ctx context.Context, today string) (float64, error) {
	if err := s.validate.Day(today); err != nil {
		return 0, err
	}
	return s.repo.WaterTotalForLocalDay(ctx, today)
}

// RecordEvent validates and stores a water intake event.
func (s *WaterService) RecordEvent(ctx context.Context, deltaLiters float64) (int64, error) {
	if err := s.validate.WaterDelta(deltaLiters); err != nil {
		return 0, err
	}
	return s.repo.AddWaterEvent(ctx, deltaLiters, s.opts.now())
}

// ListRecent returns up to limit events, newest first. A non-positive limit
// selects DefaultWaterLimit.
func (s *WaterService) ListRecent(ctx context.Context, limit int) ([]domain.WaterEvent, error) {
	return s.repo.ListRecentWaterEvents(ctx, normalizeLimit(limit, DefaultWaterLimit))
}

// UndoLast deletes the most recent water event and reports its id. An empty
// ledger yields undone=false and no error.
//
// The read and the delete are separate repository calls. An append landing
// between them is left alone: ids are never reused, so the delete can only
// ever remove the event that was observed and whose id is returned.
func (s *WaterService) UndoLast(ctx context.Context) (bool, int64, error) {
	items, err := s.repo.ListRecentWaterEvents(ctx, 1)
	if err != nil {
		return false, 0, err
	}
	if len(items) == 0 {
		return false, 0, nil
	}
	if err := s.repo.DeleteWaterEvent(ctx, items[0].ID); err != nil {
		return false, 0, err
	}
	return true, items[0].ID, nil
}
