package testutil

import (
	"context"

	"sensor-bridge/pkg/store"
)

// InsertCall records the arguments of one InsertReading invocation.
type InsertCall struct {
	Temperature float64
	Humidity    float64
}

// TemperatureCall records the arguments of one SetTemperature invocation.
type TemperatureCall struct {
	Temperature float64
	Humidity    float64
}

// MockStore is a reusable mock that implements store.Store for tests.
type MockStore struct {
	InsertError    error
	UpdateAffected int64
	UpdateError    error
	StatsReturn    store.Stats
	StatsError     error
	RecentReturn   []store.Reading
	RecentError    error
	PingError      error

	InsertCalls []InsertCall
	UpdateCalls []float64
	StatsCalls  int
	RecentCalls []int
	CloseCalled bool
}

func (m *MockStore) InsertReading(ctx context.Context, temperature, humidity float64) error {
	m.InsertCalls = append(m.InsertCalls, InsertCall{Temperature: temperature, Humidity: humidity})
	return m.InsertError
}

func (m *MockStore) UpdateLatestBrightness(ctx context.Context, brightness float64) (int64, error) {
	m.UpdateCalls = append(m.UpdateCalls, brightness)
	if m.UpdateError != nil {
		return 0, m.UpdateError
	}
	return m.UpdateAffected, nil
}

func (m *MockStore) AggregateStats(ctx context.Context) (store.Stats, error) {
	m.StatsCalls++
	return m.StatsReturn, m.StatsError
}

func (m *MockStore) RecentReadings(ctx context.Context, limit int) ([]store.Reading, error) {
	m.RecentCalls = append(m.RecentCalls, limit)
	if m.RecentError != nil {
		return nil, m.RecentError
	}
	if m.RecentReturn == nil {
		return []store.Reading{}, nil
	}
	return m.RecentReturn, nil
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingError
}

func (m *MockStore) Close() {
	m.CloseCalled = true
}

// MockCache implements the ingestion router's cache interface.
type MockCache struct {
	TemperatureError error
	BrightnessError  error

	TemperatureCalls []TemperatureCall
	BrightnessCalls  []float64
}

func (m *MockCache) SetTemperature(ctx context.Context, temperature, humidity float64) error {
	m.TemperatureCalls = append(m.TemperatureCalls, TemperatureCall{Temperature: temperature, Humidity: humidity})
	return m.TemperatureError
}

func (m *MockCache) SetBrightness(ctx context.Context, brightness float64) error {
	m.BrightnessCalls = append(m.BrightnessCalls, brightness)
	return m.BrightnessError
}
