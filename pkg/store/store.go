package store

import (
	"context"
)

// TimestampFormat is the fixed-precision human-readable form used for the
// waktu field in API responses.
const TimestampFormat = "2006-01-02 15:04:05"

// Reading is one persisted sensor row as exposed by the read API.
// suhu, humidity and lux are nullable in the schema: a row starts life
// with only temperature/humidity and may later gain a brightness value.
type Reading struct {
	ID        int64    `json:"id"`
	Suhu      *float64 `json:"suhu"`
	Humidity  *float64 `json:"humidity"`
	Kecerahan *float64 `json:"kecerahan"`
	Waktu     string   `json:"waktu"`
}

// Stats holds the temperature aggregates. All fields are nil when the
// table is empty.
type Stats struct {
	Max *float64
	Min *float64
	Avg *float64
}

// Store defines the persistence operations used by the ingestion router
// and the read API. This allows us to mock it easily in tests without a
// live database.
type Store interface {
	// InsertReading creates a new row from a temperature/humidity message.
	// Brightness is left unset.
	InsertReading(ctx context.Context, temperature, humidity float64) error

	// UpdateLatestBrightness sets lux on the most recently created row and
	// returns the number of rows affected. Zero rows (empty table) is not
	// an error.
	UpdateLatestBrightness(ctx context.Context, brightness float64) (int64, error)

	// AggregateStats computes max/min/avg over all stored temperatures.
	AggregateStats(ctx context.Context) (Stats, error)

	// RecentReadings returns up to limit rows, newest first.
	RecentReadings(ctx context.Context, limit int) ([]Reading, error)

	Ping(ctx context.Context) error
	Close()
}
