package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"sensor-bridge/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Redis keys for the hot-path latest values. They expire so a dead
// sensor eventually disappears from the live view.
const (
	keyLatestSuhu     = "reading:last:suhu"
	keyLatestHumidity = "reading:last:humidity"
	keyLatestLux      = "reading:last:lux"
)

// LiveReading is the latest known value per field. A nil field means the
// value was never written or has expired.
type LiveReading struct {
	Suhu      *float64 `json:"suhu"`
	Humidity  *float64 `json:"humidity"`
	Kecerahan *float64 `json:"kecerahan"`
}

// Empty reports whether no live value is present at all.
func (l LiveReading) Empty() bool {
	return l.Suhu == nil && l.Humidity == nil && l.Kecerahan == nil
}

// LatestCache keeps the most recent reading values in Redis. It is a
// best-effort hot path: the relational store remains the source of truth.
type LatestCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewLatestCache connects and pings the Redis server.
func NewLatestCache(ctx context.Context, cfg config.CacheConfig) (*LatestCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis not reachable: %w", err)
	}
	return &LatestCache{
		rdb: rdb,
		ttl: time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// SetTemperature stores the latest temperature and humidity values.
func (c *LatestCache) SetTemperature(ctx context.Context, temperature, humidity float64) error {
	if err := c.rdb.Set(ctx, keyLatestSuhu, temperature, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache temperature: %w", err)
	}
	if err := c.rdb.Set(ctx, keyLatestHumidity, humidity, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache humidity: %w", err)
	}
	return nil
}

// SetBrightness stores the latest brightness value.
func (c *LatestCache) SetBrightness(ctx context.Context, brightness float64) error {
	if err := c.rdb.Set(ctx, keyLatestLux, brightness, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache brightness: %w", err)
	}
	return nil
}

// Latest returns whatever live values are present. Missing keys are not
// an error, they come back as nil fields.
func (c *LatestCache) Latest(ctx context.Context) (LiveReading, error) {
	vals, err := c.rdb.MGet(ctx, keyLatestSuhu, keyLatestHumidity, keyLatestLux).Result()
	if err != nil {
		return LiveReading{}, fmt.Errorf("failed to read cache: %w", err)
	}

	var live LiveReading
	targets := []**float64{&live.Suhu, &live.Humidity, &live.Kecerahan}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // nil for a missing key
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		*targets[i] = &f
	}
	return live, nil
}

func (c *LatestCache) Close() error {
	return c.rdb.Close()
}
