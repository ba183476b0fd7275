package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"sensor-bridge/pkg/config"
	"sensor-bridge/pkg/store"
	"sensor-bridge/pkg/testutil"
)

func floatPtr(v float64) *float64 { return &v }

func testConfig() *config.Config {
	return &config.Config{
		HTTPPort: "3000",
		Broker: config.BrokerConfig{
			URL:              "tcp://broker.test:1883",
			TopicTemperature: "tes/suhu",
			TopicBrightness:  "tes/kecerahan",
		},
	}
}

// fakeLive implements LiveSource in-process.
type fakeLive struct {
	reading store.LiveReading
	err     error
}

func (f *fakeLive) Latest(ctx context.Context) (store.LiveReading, error) {
	return f.reading, f.err
}

func TestSensorData_Success(t *testing.T) {
	st := &testutil.MockStore{
		StatsReturn: store.Stats{
			Max: floatPtr(31.5),
			Min: floatPtr(22.0),
			Avg: floatPtr(26.75),
		},
		RecentReturn: []store.Reading{
			{ID: 2, Suhu: floatPtr(28.5), Humidity: floatPtr(61.2), Kecerahan: floatPtr(512), Waktu: "2026-08-28 10:15:00"},
			{ID: 1, Suhu: floatPtr(27.0), Humidity: floatPtr(60.0), Waktu: "2026-08-28 10:14:00"},
		},
	}
	srv := NewServer(testConfig(), st, nil)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/sensor", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body SensorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Suhumax == nil || *body.Suhumax != 31.5 {
		t.Errorf("unexpected suhumax: %v", body.Suhumax)
	}
	if body.Suhumin == nil || *body.Suhumin != 22.0 {
		t.Errorf("unexpected suhumin: %v", body.Suhumin)
	}
	if body.Suhurata == nil || *body.Suhurata != 26.75 {
		t.Errorf("unexpected suhurata: %v", body.Suhurata)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(body.Data))
	}
	if body.Data[0].ID != 2 {
		t.Errorf("expected newest reading first, got id %d", body.Data[0].ID)
	}
	if body.Data[0].Waktu != "2026-08-28 10:15:00" {
		t.Errorf("unexpected waktu: %s", body.Data[0].Waktu)
	}
	if body.Data[1].Kecerahan != nil {
		t.Error("expected nil kecerahan to survive the round trip")
	}

	// The handler asks for a fixed window of 10 rows
	if len(st.RecentCalls) != 1 || st.RecentCalls[0] != 10 {
		t.Errorf("expected one RecentReadings call with limit 10, got %v", st.RecentCalls)
	}
}

func TestSensorData_EmptyDatabase(t *testing.T) {
	st := &testutil.MockStore{}
	srv := NewServer(testConfig(), st, nil)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/sensor", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Aggregates are JSON null when no rows exist
	for _, key := range []string{"suhumax", "suhumin", "suhurata"} {
		if string(body[key]) != "null" {
			t.Errorf("expected %s to be null, got %s", key, body[key])
		}
	}
	// The data field is an empty array, not null
	if string(body["data"]) != "[]" {
		t.Errorf("expected data to be [], got %s", body["data"])
	}
}

func TestSensorData_StoreFailure(t *testing.T) {
	t.Run("aggregate query fails", func(t *testing.T) {
		st := &testutil.MockStore{StatsError: errors.New("connection refused")}
		srv := NewServer(testConfig(), st, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/sensor", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != 500 {
			t.Fatalf("expected status 500, got %d", resp.StatusCode)
		}

		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["error"] != "connection refused" {
			t.Errorf("unexpected error body: %v", body)
		}

		// No second query after the first failed
		if len(st.RecentCalls) != 0 {
			t.Errorf("expected no RecentReadings call, got %v", st.RecentCalls)
		}
	})

	t.Run("recent query fails", func(t *testing.T) {
		st := &testutil.MockStore{RecentError: errors.New("query timeout")}
		srv := NewServer(testConfig(), st, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/sensor", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != 500 {
			t.Fatalf("expected status 500, got %d", resp.StatusCode)
		}

		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["error"] != "query timeout" {
			t.Errorf("unexpected error body: %v", body)
		}
	})
}

func TestLiveData(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		live := &fakeLive{reading: store.LiveReading{
			Suhu:      floatPtr(28.5),
			Humidity:  floatPtr(61.2),
			Kecerahan: floatPtr(512),
		}}
		st := &testutil.MockStore{}
		srv := NewServer(testConfig(), st, live)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/sensor/live", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}

		var body store.LiveReading
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Suhu == nil || *body.Suhu != 28.5 {
			t.Errorf("unexpected suhu: %v", body.Suhu)
		}

		// The store was never consulted
		if len(st.RecentCalls) != 0 {
			t.Errorf("expected no store call on a cache hit, got %v", st.RecentCalls)
		}
	})

	t.Run("cache failure falls back to store", func(t *testing.T) {
		live := &fakeLive{err: errors.New("redis down")}
		st := &testutil.MockStore{
			RecentReturn: []store.Reading{
				{ID: 5, Suhu: floatPtr(27.0), Humidity: floatPtr(60.0), Waktu: "2026-08-28 10:14:00"},
			},
		}
		srv := NewServer(testConfig(), st, live)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/sensor/live", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}
		if len(st.RecentCalls) != 1 || st.RecentCalls[0] != 1 {
			t.Errorf("expected one RecentReadings call with limit 1, got %v", st.RecentCalls)
		}
	})

	t.Run("no cache and no rows", func(t *testing.T) {
		st := &testutil.MockStore{}
		srv := NewServer(testConfig(), st, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/sensor/live", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != 404 {
			t.Fatalf("expected status 404, got %d", resp.StatusCode)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		st := &testutil.MockStore{RecentError: errors.New("connection refused")}
		srv := NewServer(testConfig(), st, nil)

		resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/sensor/live", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != 500 {
			t.Fatalf("expected status 500, got %d", resp.StatusCode)
		}
	})
}

func TestIndex(t *testing.T) {
	srv := NewServer(testConfig(), &testutil.MockStore{}, nil)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected html content type, got %s", ct)
	}

	raw, _ := io.ReadAll(resp.Body)
	page := string(raw)
	for _, want := range []string{"tes/suhu", "tes/kecerahan", "/api/sensor", "tcp://broker.test:1883"} {
		if !strings.Contains(page, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestHealth(t *testing.T) {
	srv := NewServer(testConfig(), &testutil.MockStore{}, nil)

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != "OK" {
		t.Errorf("expected body OK, got %s", raw)
	}
}
