// Package storetest holds the behavioural contract every domain.Store
// implementation must satisfy. Adapter packages run it from their tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitals/internal/app"
	"vitals/internal/domain"
)

// Opener returns a fresh, empty store bucketing days with cal. The store must
// be closed by the opener through t.Cleanup.
type Opener func(t *testing.T, cal domain.Calendar) domain.Store

// Run executes the full contract against stores produced by open.
func Run(t *testing.T, open Opener) {
	t.Run("WeightAbsent", func(t *testing.T) { testWeightAbsent(t, open) })
	t.Run("WeightUpsertReplaces", func(t *testing.T) { testWeightUpsertReplaces(t, open) })
	t.Run("WeightListRecent", func(t *testing.T) { testWeightListRecent(t, open) })
	t.Run("WeightConcurrentUpsert", func(t *testing.T) { testWeightConcurrentUpsert(t, open) })
	t.Run("WaterIDsIncrease", func(t *testing.T) { testWaterIDsIncrease(t, open) })
	t.Run("WaterListRecent", func(t *testing.T) { testWaterListRecent(t, open) })
	t.Run("WaterDeleteIdempotent", func(t *testing.T) { testWaterDeleteIdempotent(t, open) })
	t.Run("WaterTotal", func(t *testing.T) { testWaterTotal(t, open) })
	t.Run("WaterTotalLocalMidnight", func(t *testing.T) { testWaterTotalLocalMidnight(t, open) })
	t.Run("WaterTotalSkippedMidnight", func(t *testing.T) { testWaterTotalSkippedMidnight(t, open) })
	t.Run("WaterConcurrentAppend", func(t *testing.T) { testWaterConcurrentAppend(t, open) })
	t.Run("LocalDayConsistency", func(t *testing.T) { testLocalDayConsistency(t, open) })
	t.Run("UndoLast", func(t *testing.T) { testUndoLast(t, open) })
}

var base = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

func utc() domain.Calendar { return domain.NewCalendar(time.UTC) }

func testWeightAbsent(t *testing.T, open Opener) {
	s := open(t, utc())
	got, err := s.GetWeightForDay(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testWeightUpsertReplaces(t *testing.T, open Opener) {
	ctx := context.Background()
	s := open(t, utc())

	require.NoError(t, s.UpsertWeightForDay(ctx, "2024-01-01", 80.5, domain.Kilograms, base))
	require.NoError(t, s.UpsertWeightForDay(ctx, "2024-01-01", 178, domain.Pounds, base.Add(time.Hour)))

	got, err := s.GetWeightForDay(ctx, "2024-01-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-01", got.Day)
	assert.Equal(t, 178.0, got.Value)
	assert.Equal(t, domain.Pounds, got.Unit)
	assert.True(t, got.RecordedAt.Equal(base.Add(time.Hour)), "recordedAt = %v", got.RecordedAt)

	all, err := s.ListRecentWeights(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testWeightListRecent(t *testing.T, open Opener) {
	ctx := context.Background()
	s := open(t, utc())

	// Inserted out of order on purpose.
	for _, day := range []string{"2024-01-02", "2023-12-31", "2024-01-01"} {
		require.NoError(t, s.UpsertWeightForDay(ctx, day, 70, domain.Kilograms, base))
	}

	got, err := s.ListRecentWeights(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-02", got[0].Day)
	assert.Equal(t, "2024-01-01", got[1].Day)

	got, err = s.ListRecentWeights(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "2023-12-31", got[2].Day)
}

func testWeightConcurrentUpsert(t *testing.T, open Opener) {
	ctx := context.Background()
	s := open(t, utc())

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unit := domain.Kilograms
			if i%2 == 0 {
				unit = domain.Pounds
			}
			errs <- s.UpsertWeightForDay(ctx, "2024-01-01", float64(i), unit, base.Add(time.Duration(i)*time.Second))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.GetWeightForDay(ctx, "2024-01-01")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Every field must come from the same payload.
	i := int(got.Value)
	require.GreaterOrEqual(t, i, 1)
	require.LessOrEqual(t, i, n)
	wantUnit := domain.Kilograms
	if i%2 == 0 {
		wantUnit = domain.Pounds
	}
	assert.Equal(t, wantUnit, got.Unit)
	assert.True(t, got.RecordedAt.Equal(base.Add(time.Duration(i)*time.Second)), "recordedAt %v mixed with value %v", got.RecordedAt, got.Value)

	all, err := s.ListRecentWeights(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testWaterIDsIncrease(t *testing.T, open Opener) {
	ctx := context.Background()
	s := open(t, utc())

	a, err := s.AddWaterEvent(ctx, 0.25, base)
	require.NoError(t, err)
	b, err := s.AddWaterEvent(ctx, 0.5, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Greater(t, b, a)

	// Deleting the newest id must not let it be handed out again.
	require.NoError(t, s.DeleteWaterEvent(ctx, b))
	c, err := s.AddWaterEvent(ctx, 0.5, base.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Greater(t, c, b)
}

func testWaterListRecent(t *testing.T, open Opener) {
	ctx := context.Background()
	s := open(t, utc())

	none, err := s.ListRecentWaterEvents(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	var ids []int64
	for i, d := range []float64{1.0, 0.5, -0.2} {
		id, err := s.AddWaterEvent(ctx, d, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := s.ListRecentWaterEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[1], got[1].ID)
	assert.Equal(t, -0.2, got[0].DeltaLiters)
	assert.True(t, got[0].OccurredAt.Equal(base.Add(2*time.Minute)), "occurredAt = %v", got[0].OccurredAt)
}

func testWaterDeleteIdempotent(t *testing.T, open Opener) {
	ctx := context.Background()
	s := open(t, utc())

	id, err := s.AddWaterEvent(ctx, 1, base)
	require.NoError(t, err)

	require.NoError(t, s.DeleteWaterEvent(ctx, id+1000))
	require.NoError(t, s.DeleteWaterEvent(ctx, id))
	require.NoError(t, s.DeleteWaterEvent(ctx, id))

	got, err := s.ListRecentWaterEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testWaterTotal(t *testing.T, open Opener) {
	ctx := context.Background()
	s := open(t, utc())

	for i, d := range []float64{1.0, 0.5, -0.2} {
		_, err := s.AddWaterEvent(ctx, d, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	// Next day, must not be counted.
	_, err := s.AddWaterEvent(ctx, 3, base.Add(24*time.Hour))
	require.NoError(t, err)

	total, err := s.WaterTotalForLocalDay(ctx, "2024-01-02")
	require.NoError(t, err)
	assert.InDelta(t, 1.3, total, 1e-9)

	total, err = s.WaterTotalForLocalDay(ctx, "2023-06-01")
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func testWaterTotalLocalMidnight(t *testing.T, open Opener) {
	ctx := context.Background()
	loc := time.FixedZone("UTC-5", -5*60*60)
	s := open(t, domain.NewCalendar(loc))

	// 23:30 and 00:30 local straddle midnight; in UTC both fall on Jan 3.
	late := time.Date(2024, 1, 2, 23, 30, 0, 0, loc)
	early := time.Date(2024, 1, 3, 0, 30, 0, 0, loc)
	_, err := s.AddWaterEvent(ctx, 0.4, late)
	require.NoError(t, err)
	_, err = s.AddWaterEvent(ctx, 0.7, early)
	require.NoError(t, err)

	total, err := s.WaterTotalForLocalDay(ctx, "2024-01-02")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, total, 1e-9)

	total, err = s.WaterTotalForLocalDay(ctx, "2024-01-03")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, total, 1e-9)
}

func testWaterTotalSkippedMidnight(t *testing.T, open Opener) {
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Skipf("zone unavailable: %v", err)
	}
	ctx := context.Background()
	cal := domain.NewCalendar(loc)
	s := open(t, cal)

	// Clocks jump from 00:00 to 01:00 on 2024-09-08.
	events := map[string]float64{
		"2024-09-07": 0.5,
		"2024-09-08": 0.25,
		"2024-09-09": 0.125,
	}
	for day, liters := range events {
		d, err := time.ParseInLocation(domain.DayLayout, day, time.UTC)
		require.NoError(t, err)
		at := time.Date(d.Year(), d.Month(), d.Day(), 23, 30, 0, 0, loc)
		require.Equal(t, day, cal.LocalDay(at))
		_, err = s.AddWaterEvent(ctx, liters, at)
		require.NoError(t, err)
	}

	for day, want := range events {
		total, err := s.WaterTotalForLocalDay(ctx, day)
		require.NoError(t, err)
		assert.InDelta(t, want, total, 1e-9, day)
	}
}

func testWaterConcurrentAppend(t *testing.T, open Opener) {
	ctx := context.Background()
	s := open(t, utc())

	const n = 32
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]bool, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.AddWaterEvent(ctx, 0.1, base)
			mu.Lock()
			defer mu.Unlock()
			if assert.NoError(t, err) {
				assert.False(t, ids[id], "duplicate id %d", id)
				ids[id] = true
			}
		}()
	}
	wg.Wait()
	require.Len(t, ids, n)

	got, err := s.ListRecentWaterEvents(ctx, n)
	require.NoError(t, err)
	require.Len(t, got, n)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i-1].ID, got[i].ID, "ids must be strictly descending")
	}
}

func testLocalDayConsistency(t *testing.T, open Opener) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+13", 13*60*60)
	cal := domain.NewCalendar(loc)
	s := open(t, cal)

	// 11:30 UTC on Jan 1 is 00:30 on Jan 2 at UTC+13.
	now := time.Date(2024, 1, 1, 11, 30, 0, 0, time.UTC)
	clock := app.WithClock(func() time.Time { return now })
	weights := app.NewWeightService(s, cal, clock)
	water := app.NewWaterService(s, cal, clock)

	_, day, err := weights.RecordWeight(ctx, 81, domain.Kilograms)
	require.NoError(t, err)
	require.Equal(t, "2024-01-02", day)
	_, err = water.RecordEvent(ctx, 0.3)
	require.NoError(t, err)

	entry, err := s.GetWeightForDay(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, entry)
	total, err := s.WaterTotalForLocalDay(ctx, day)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, total, 1e-9)
}

func testUndoLast(t *testing.T, open Opener) {
	ctx := context.Background()
	s := open(t, utc())
	svc := app.NewWaterService(s, utc())

	undone, _, err := svc.UndoLast(ctx)
	require.NoError(t, err)
	assert.False(t, undone, "empty ledger has nothing to undo")

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := svc.RecordEvent(ctx, 0.25)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	for _, want := range []int64{ids[2], ids[1]} {
		undone, id, err := svc.UndoLast(ctx)
		require.NoError(t, err)
		require.True(t, undone)
		assert.Equal(t, want, id, fmt.Sprintf("undo should remove %d", want))
	}

	left, err := s.ListRecentWaterEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, ids[0], left[0].ID)
}
