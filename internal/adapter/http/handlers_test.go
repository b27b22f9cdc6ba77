package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	adapthttp "vitals/internal/adapter/http"
	"vitals/internal/adapter/memory"
	"vitals/internal/app"
	"vitals/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock repositories (function-fields pattern)
// ---------------------------------------------------------------------------

type mockWeightRepo struct {
	getFn    func(ctx context.Context, day string) (*domain.WeightEntry, error)
	upsertFn func(ctx context.Context, day string, value float64, unit domain.Unit, recordedAt time.Time) error
	listFn   func(ctx context.Context, limit int) ([]domain.WeightEntry, error)
}

func (m *mockWeightRepo) GetWeightForDay(ctx context.Context, day string) (*domain.WeightEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, day)
	}
	return &domain.WeightEntry{
		Day: day, Value: 80.0, Unit: domain.Kilograms,
		RecordedAt: time.Now(),
	}, nil
}

func (m *mockWeightRepo) UpsertWeightForDay(ctx context.Context, day string, value float64, unit domain.Unit, recordedAt time.Time) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, day, value, unit, recordedAt)
	}
	return nil
}

func (m *mockWeightRepo) ListRecentWeights(ctx context.Context, limit int) ([]domain.WeightEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return []domain.WeightEntry{
		{Day: "2026-02-08", Value: 80.0, Unit: domain.Kilograms, RecordedAt: time.Now()},
	}, nil
}

type mockWaterRepo struct {
	addFn   func(ctx context.Context, deltaLiters float64, occurredAt time.Time) (int64, error)
	delFn   func(ctx context.Context, id int64) error
	listFn  func(ctx context.Context, limit int) ([]domain.WaterEvent, error)
	totalFn func(ctx context.Context, day string) (float64, error)
}

func (m *mockWaterRepo) AddWaterEvent(ctx context.Context, deltaLiters float64, occurredAt time.Time) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, deltaLiters, occurredAt)
	}
	return 42, nil
}

func (m *mockWaterRepo) DeleteWaterEvent(ctx context.Context, id int64) error {
	if m.delFn != nil {
		return m.delFn(ctx, id)
	}
	return nil
}

func (m *mockWaterRepo) ListRecentWaterEvents(ctx context.Context, limit int) ([]domain.WaterEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return []domain.WaterEvent{
		{ID: 10, DeltaLiters: 0.5, OccurredAt: time.Now()},
	}, nil
}

func (m *mockWaterRepo) WaterTotalForLocalDay(ctx context.Context, day string) (float64, error) {
	if m.totalFn != nil {
		return m.totalFn(ctx, day)
	}
	return 2.5, nil
}

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

var cal = domain.NewCalendar(time.UTC)

func newTestServer(t *testing.T, wr domain.WeightRepository, wa domain.WaterRepository) *httptest.Server {
	t.Helper()

	if wr == nil {
		wr = &mockWeightRepo{}
	}
	if wa == nil {
		wa = &mockWaterRepo{}
	}

	ws := app.NewWeightService(wr, cal)
	was := app.NewWaterService(wa, cal)
	cs := app.NewChartsService(wr, wa, cal)

	webDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html>index</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(webDir, "charts.html"), []byte("<html>charts</html>"), 0o600); err != nil {
		t.Fatal(err)
	}

	srv := adapthttp.New(ws, was, cs, webDir)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp := do(t, http.MethodGet, ts.URL+"/api/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-store" {
		t.Fatalf("expected Cache-Control no-store, got %q", got)
	}

	body := decodeBody(t, resp)
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp := do(t, http.MethodGet, ts.URL+"/api/health", nil)
	if resp.Header.Get(adapthttp.RequestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	req.Header.Set(adapthttp.RequestIDHeader, "abc-123")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp2.Body.Close() //nolint:errcheck
	if got := resp2.Header.Get(adapthttp.RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}

func TestWeightTodayGet(t *testing.T) {
	ts := newTestServer(t, &mockWeightRepo{
		getFn: func(_ context.Context, day string) (*domain.WeightEntry, error) {
			return &domain.WeightEntry{
				Day: day, Value: 82.3, Unit: domain.Kilograms,
				RecordedAt: time.Date(2026, 2, 8, 7, 0, 0, 0, time.UTC),
			}, nil
		},
	}, nil)

	resp := do(t, http.MethodGet, ts.URL+"/api/weight/today", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if _, ok := body["today"]; !ok {
		t.Fatal("response missing 'today' field")
	}
	entry, ok := body["entry"].(map[string]any)
	if !ok {
		t.Fatal("response missing 'entry' object")
	}
	if entry["value"] != 82.3 || entry["unit"] != "kg" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestWeightTodayGet_Absent(t *testing.T) {
	ts := newTestServer(t, &mockWeightRepo{
		getFn: func(context.Context, string) (*domain.WeightEntry, error) { return nil, nil },
	}, nil)

	resp := do(t, http.MethodGet, ts.URL+"/api/weight/today", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if v, ok := body["entry"]; !ok || v != nil {
		t.Fatalf("expected entry=null, got %v", v)
	}
}

func TestWeightTodayPut(t *testing.T) {
	tests := []struct {
		name       string
		payload    any
		wantStatus int
	}{
		{
			name:       "valid kg",
			payload:    map[string]any{"value": 85.5, "unit": "kg"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid lb",
			payload:    map[string]any{"value": 190.0, "unit": "lb"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "value zero",
			payload:    map[string]any{"value": 0, "unit": "kg"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "value negative",
			payload:    map[string]any{"value": -5.0, "unit": "kg"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid unit",
			payload:    map[string]any{"value": 80.0, "unit": "stone"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			payload:    map[string]any{"value": 80.0, "unit": "kg", "note": "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not an object",
			payload:    "eighty",
			wantStatus: http.StatusBadRequest,
		},
	}

	ts := newTestServer(t, nil, nil)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, http.MethodPut, ts.URL+"/api/weight/today", tc.payload)
			if resp.StatusCode != tc.wantStatus {
				body := decodeBody(t, resp)
				t.Fatalf("expected %d, got %d; body: %v", tc.wantStatus, resp.StatusCode, body)
			}

			body := decodeBody(t, resp)
			if tc.wantStatus == http.StatusOK {
				if _, ok := body["entry"]; !ok {
					t.Fatal("response missing 'entry' field")
				}
			} else if _, ok := body["error"]; !ok {
				t.Fatal("response missing 'error' field")
			}
		})
	}
}

func TestWeightRecent(t *testing.T) {
	items := []domain.WeightEntry{
		{Day: "2026-02-08", Value: 80.0, Unit: domain.Kilograms, RecordedAt: time.Now()},
		{Day: "2026-02-07", Value: 81.0, Unit: domain.Kilograms, RecordedAt: time.Now()},
	}
	var gotLimit int
	ts := newTestServer(t, &mockWeightRepo{
		listFn: func(_ context.Context, limit int) ([]domain.WeightEntry, error) {
			gotLimit = limit
			if limit < len(items) {
				return items[:limit], nil
			}
			return items, nil
		},
	}, nil)

	resp := do(t, http.MethodGet, ts.URL+"/api/weight/recent?limit=5", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if gotLimit != 5 {
		t.Fatalf("expected limit 5, got %d", gotLimit)
	}

	body := decodeBody(t, resp)
	arr, ok := body["items"].([]any)
	if !ok {
		t.Fatal("response missing 'items' array")
	}
	if len(arr) != 2 {
		t.Fatalf("expected 2 items, got %d", len(arr))
	}

	do(t, http.MethodGet, ts.URL+"/api/weight/recent?limit=abc", nil)
	if gotLimit != app.DefaultWeightLimit {
		t.Fatalf("expected default limit %d, got %d", app.DefaultWeightLimit, gotLimit)
	}
}

func TestWaterTodayGet(t *testing.T) {
	ts := newTestServer(t, nil, &mockWaterRepo{
		totalFn: func(context.Context, string) (float64, error) {
			return 3.0, nil
		},
	})

	resp := do(t, http.MethodGet, ts.URL+"/api/water/today", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if _, ok := body["today"]; !ok {
		t.Fatal("response missing 'today' field")
	}
	total, ok := body["totalLiters"].(float64)
	if !ok {
		t.Fatal("response missing 'totalLiters' field")
	}
	if total != 3.0 {
		t.Fatalf("expected totalLiters=3.0, got %v", total)
	}
}

func TestWaterEvent(t *testing.T) {
	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{
			name:       "valid positive",
			payload:    map[string]any{"deltaLiters": 0.5},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid negative",
			payload:    map[string]any{"deltaLiters": -0.25},
			wantStatus: http.StatusOK,
		},
		{
			name:       "ceiling",
			payload:    map[string]any{"deltaLiters": 10.0},
			wantStatus: http.StatusOK,
		},
		{
			name:       "zero deltaLiters",
			payload:    map[string]any{"deltaLiters": 0},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "too large",
			payload:    map[string]any{"deltaLiters": 11.0},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "too small",
			payload:    map[string]any{"deltaLiters": -10.5},
			wantStatus: http.StatusBadRequest,
		},
	}

	ts := newTestServer(t, nil, nil)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/water/event", tc.payload)
			if resp.StatusCode != tc.wantStatus {
				body := decodeBody(t, resp)
				t.Fatalf("expected %d, got %d; body: %v", tc.wantStatus, resp.StatusCode, body)
			}

			if tc.wantStatus == http.StatusOK {
				body := decodeBody(t, resp)
				if body["id"] != float64(42) {
					t.Fatalf("expected id=42, got %v", body["id"])
				}
			}
		})
	}
}

func TestWaterRecent(t *testing.T) {
	events := []domain.WaterEvent{
		{ID: 11, DeltaLiters: 0.3, OccurredAt: time.Now()},
		{ID: 10, DeltaLiters: 0.5, OccurredAt: time.Now()},
	}
	ts := newTestServer(t, nil, &mockWaterRepo{
		listFn: func(_ context.Context, limit int) ([]domain.WaterEvent, error) {
			if limit < len(events) {
				return events[:limit], nil
			}
			return events, nil
		},
	})

	resp := do(t, http.MethodGet, ts.URL+"/api/water/recent?limit=10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	arr, ok := body["items"].([]any)
	if !ok {
		t.Fatal("response missing 'items' array")
	}
	if len(arr) != 2 {
		t.Fatalf("expected 2 items, got %d", len(arr))
	}
}

func TestWaterUndoLast(t *testing.T) {
	var deleted int64
	ts := newTestServer(t, nil, &mockWaterRepo{
		listFn: func(context.Context, int) ([]domain.WaterEvent, error) {
			return []domain.WaterEvent{
				{ID: 99, DeltaLiters: 0.5, OccurredAt: time.Now()},
			}, nil
		},
		delFn: func(_ context.Context, id int64) error {
			deleted = id
			return nil
		},
	})

	resp := do(t, http.MethodPost, ts.URL+"/api/water/undo-last", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["undone"] != true {
		t.Fatalf("expected undone=true, got %v", body["undone"])
	}
	if id, ok := body["id"].(float64); !ok || id != 99 {
		t.Fatalf("expected id=99, got %v", body["id"])
	}
	if deleted != 99 {
		t.Fatalf("expected event 99 deleted, got %d", deleted)
	}
}

func TestWaterUndoLast_Empty(t *testing.T) {
	ts := newTestServer(t, nil, &mockWaterRepo{
		listFn: func(context.Context, int) ([]domain.WaterEvent, error) { return nil, nil },
		delFn: func(context.Context, int64) error {
			t.Error("delete must not be called on an empty ledger")
			return nil
		},
	})

	resp := do(t, http.MethodPost, ts.URL+"/api/water/undo-last", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["undone"] != false {
		t.Fatalf("expected undone=false, got %v", body["undone"])
	}
	if _, ok := body["id"]; ok {
		t.Fatalf("expected no id, got %v", body["id"])
	}
}

func TestStorageFailureIs500(t *testing.T) {
	ts := newTestServer(t, nil, &mockWaterRepo{
		totalFn: func(context.Context, string) (float64, error) {
			return 0, domain.StorageError("water total", errors.New("disk on fire"))
		},
	})

	resp := do(t, http.MethodGet, ts.URL+"/api/water/today", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if msg, _ := body["error"].(string); strings.Contains(msg, "disk on fire") {
		t.Fatalf("driver detail leaked to client: %q", msg)
	}
}

func TestChartsDaily(t *testing.T) {
	ts := newTestServer(t, &mockWeightRepo{
		getFn: func(_ context.Context, day string) (*domain.WeightEntry, error) {
			return &domain.WeightEntry{Day: day, Value: 100, Unit: domain.Kilograms}, nil
		},
	}, nil)

	resp := do(t, http.MethodGet, ts.URL+"/api/charts/daily?days=3&unit=lb", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["unit"] != "lb" || body["days"] != float64(3) {
		t.Fatalf("unexpected header fields: %v", body)
	}
	items, ok := body["items"].([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("expected 3 items, got %v", body["items"])
	}
	last := items[2].(map[string]any)
	if last["day"] != body["today"] {
		t.Fatalf("last point should be today, got %v", last["day"])
	}
	weight := last["weight"].(map[string]any)
	if v := weight["value"].(float64); v < 220.46 || v > 220.47 {
		t.Fatalf("expected ~220.46 lb, got %v", v)
	}
}

func TestChartsDaily_BadUnit(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp := do(t, http.MethodGet, ts.URL+"/api/charts/daily?unit=stone", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSPAFallback(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/", "index"},
		{"/charts", "charts"},
		{"/some/client/route", "index"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+tc.path, nil)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			var buf bytes.Buffer
			_, _ = buf.ReadFrom(resp.Body)
			if !strings.Contains(buf.String(), tc.want) {
				t.Fatalf("expected %s page, got %q", tc.want, buf.String())
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"DELETE weight/today", http.MethodDelete, "/api/weight/today"},
		{"POST weight/recent", http.MethodPost, "/api/weight/recent"},
		{"PUT water/today", http.MethodPut, "/api/water/today"},
		{"GET water/event", http.MethodGet, "/api/water/event"},
		{"POST water/recent", http.MethodPost, "/api/water/recent"},
		{"GET water/undo-last", http.MethodGet, "/api/water/undo-last"},
		{"POST charts/daily", http.MethodPost, "/api/charts/daily"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, tc.method, ts.URL+tc.path, nil)
			if resp.StatusCode != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", resp.StatusCode)
			}
		})
	}
}

// End to end over the in-memory store: record, read back, undo.
func TestWaterFlow_MemoryStore(t *testing.T) {
	store := memory.New(cal)
	ts := newTestServer(t, store, store)

	for _, d := range []float64{0.5, 0.25} {
		if resp := do(t, http.MethodPost, ts.URL+"/api/water/event", map[string]any{"deltaLiters": d}); resp.StatusCode != http.StatusOK {
			t.Fatalf("add %v: status %d", d, resp.StatusCode)
		}
	}

	body := decodeBody(t, do(t, http.MethodGet, ts.URL+"/api/water/today", nil))
	if body["totalLiters"] != 0.75 {
		t.Fatalf("expected 0.75, got %v", body["totalLiters"])
	}

	body = decodeBody(t, do(t, http.MethodPost, ts.URL+"/api/water/undo-last", nil))
	if body["undone"] != true || body["id"] != float64(2) {
		t.Fatalf("unexpected undo result %v", body)
	}

	body = decodeBody(t, do(t, http.MethodGet, ts.URL+"/api/water/today", nil))
	if body["totalLiters"] != 0.5 {
		t.Fatalf("expected 0.5, got %v", body["totalLiters"])
	}
}
