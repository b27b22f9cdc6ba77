package app

import (
	"context"
	"time"

	"vitals/internal/domain"
)

// Chart window bounds, in days.
const (
	DefaultChartDays = 90
	MaxChartDays     = 366
)

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	weightRepo domain.WeightRepository
	waterRepo  domain.WaterRepository
	cal        domain.Calendar
	validate   *Validator
	opts       options
}

// NewChartsService creates a ChartsService backed by the given repositories.
func NewChartsService(wr domain.WeightRepository, wa domain.WaterRepository, cal domain.Calendar, opts ...Option) *ChartsService {
	o := newOptions(opts)
	return &ChartsService{weightRepo: wr, waterRepo: wa, cal: cal, validate: NewValidator(o.maxWaterDelta), opts: o}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day         string       `json:"day"`
	WaterLiters float64      `json:"waterLiters"`
	Weight      *WeightPoint `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64     `json:"value"`
	Unit  domain.Unit `json:"unit"`
}

// Today returns the current local day.
func (s *ChartsService) Today() string {
	return s.cal.LocalDay(s.opts.now())
}

// GetDaily returns per-day chart data for the last days days, oldest first and
// ending today, with weights converted to the requested unit.
func (s *ChartsService) GetDaily(ctx context.Context, days int, unit domain.Unit) ([]DayPoint, error) {
	if err := s.validate.ChartUnit(unit); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultChartDays
	}
	if days > MaxChartDays {
		days = MaxChartDays
	}

	now := s.opts.now().In(s.cal.Location())
	noon := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := s.cal.LocalDay(noon.AddDate(0, 0, -i))

		waterLiters, err := s.waterRepo.WaterTotalForLocalDay(ctx, day)
		if err != nil {
			return nil, err
		}
		entry, err := s.weightRepo.GetWeightForDay(ctx, day)
		if err != nil {
			return nil, err
		}

		var wp *WeightPoint
		if entry != nil {
			wp = &WeightPoint{Value: domain.ConvertWeight(entry.Value, entry.Unit, unit), Unit: unit}
		}
		points = append(points, DayPoint{Day: day, WaterLiters: waterLiters, Weight: wp})
	}
	return points, nil
}
