// Package scheduler runs the daily digest job.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"vitals/internal/app"
	"vitals/internal/domain"
)

// Summary is one day's recorded vitals.
type Summary struct {
	Day         string
	WaterLiters float64
	Weight      *domain.WeightEntry
}

func (s Summary) String() string {
	weight := "none"
	if s.Weight != nil {
		weight = fmt.Sprintf("%g %s", s.Weight.Value, s.Weight.Unit)
	}
	return fmt.Sprintf("day=%s water=%gL weight=%s", s.Day, s.WaterLiters, weight)
}

// Scheduler logs a summary of the previous local day once a day.
type Scheduler struct {
	scheduler *gocron.Scheduler
	weight    *app.WeightService
	water     *app.WaterService
	cal       domain.Calendar
	at        string
	now       func() time.Time
}

// New creates a Scheduler that fires daily at the given HH:MM in cal's zone.
func New(ws *app.WeightService, wa *app.WaterService, cal domain.Calendar, at string) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(cal.Location()),
		weight:    ws,
		water:     wa,
		cal:       cal,
		at:        at,
		now:       time.Now,
	}
}

// Start schedules the digest job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sum, err := s.Digest(ctx, s.Yesterday())
		if err != nil {
			log.Printf("scheduler: digest failed: %v", err)
			return
		}
		log.Printf("scheduler: digest %s", sum)
	})
	if err != nil {
		return fmt.Errorf("schedule digest at %q: %w", s.at, err)
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: daily digest at %s %s", s.at, s.cal.Location())
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Yesterday returns the local day before today.
func (s *Scheduler) Yesterday() string {
	now := s.now().In(s.cal.Location())
	noon := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	return s.cal.LocalDay(noon.AddDate(0, 0, -1))
}

// Digest collects the water total and weight entry for day.
func (s *Scheduler) Digest(ctx context.Context, day string) (Summary, error) {
	total, err := s.water.GetTodayTotal(ctx, day)
	if err != nil {
		return Summary{}, err
	}
	entry, err := s.weight.GetTodayWeight(ctx, day)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Day: day, WaterLiters: total, Weight: entry}, nil
}
