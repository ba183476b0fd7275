package ingest

import (
	"context"
	"log"
	"time"

	"sensor-bridge/pkg/config"
	"sensor-bridge/pkg/store"
	"sensor-bridge/pkg/telemetry"
)

// Cache is the optional hot-path sink for latest values. A nil Cache
// disables it; cache failures never fail a message.
type Cache interface {
	SetTemperature(ctx context.Context, temperature, humidity float64) error
	SetBrightness(ctx context.Context, brightness float64) error
}

// Router decodes inbound broker messages and dispatches them by exact
// topic match to the matching persistence operation. Failures are
// isolated per message: a bad payload or a failed write drops that one
// message and the router stays ready for the next.
type Router struct {
	cfg     config.BrokerConfig
	logger  *log.Logger
	store   store.Store
	cache   Cache
	pub     telemetry.TelemetryPublisher
	timeout time.Duration
}

func NewRouter(cfg config.BrokerConfig, st store.Store, cache Cache, logger *log.Logger, pub telemetry.TelemetryPublisher, timeout time.Duration) *Router {
	if pub == nil {
		pub = telemetry.NewNoopPublisher()
	}
	return &Router{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		cache:   cache,
		pub:     pub,
		timeout: timeout,
	}
}

// Handle processes one inbound message. Topics outside the configured
// set are ignored: the broker is public and unrelated traffic may arrive.
func (r *Router) Handle(topic string, payload []byte) {
	r.pub.Publish(telemetry.NewMessageReceived(topic))

	switch topic {
	case r.cfg.TopicTemperature:
		r.handleTemperature(payload)
	case r.cfg.TopicBrightness:
		r.handleBrightness(payload)
	}
}

func (r *Router) handleTemperature(payload []byte) {
	start := time.Now()

	temperature, humidity, err := decodeTemperature(payload)
	if err != nil {
		r.logger.Printf("temperature message dropped: %v", err)
		r.pub.Publish(telemetry.NewBridgeError(err, "payload_decode", telemetry.ErrorSeverityWarning))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.store.InsertReading(ctx, temperature, humidity); err != nil {
		r.logger.Printf("failed to store reading: %v", err)
		r.pub.Publish(telemetry.NewBridgeError(err, "store_insert", telemetry.ErrorSeverityError))
		return
	}

	r.pub.Publish(telemetry.NewReadingStored(telemetry.ReadingKindTemperature, time.Since(start)))
	r.logger.Printf("reading stored: suhu=%.2f humidity=%.2f", temperature, humidity)

	r.updateCache(ctx, func(ctx context.Context) error {
		return r.cache.SetTemperature(ctx, temperature, humidity)
	})
}

func (r *Router) handleBrightness(payload []byte) {
	start := time.Now()

	brightness, err := decodeBrightness(payload)
	if err != nil {
		r.logger.Printf("brightness message dropped: %v", err)
		r.pub.Publish(telemetry.NewBridgeError(err, "payload_decode", telemetry.ErrorSeverityWarning))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	affected, err := r.store.UpdateLatestBrightness(ctx, brightness)
	if err != nil {
		r.logger.Printf("failed to update brightness: %v", err)
		r.pub.Publish(telemetry.NewBridgeError(err, "store_update", telemetry.ErrorSeverityError))
		return
	}
	if affected == 0 {
		// No reading row exists yet; nothing to correlate against.
		r.logger.Printf("brightness update matched no rows")
		return
	}

	r.pub.Publish(telemetry.NewReadingStored(telemetry.ReadingKindBrightness, time.Since(start)))
	r.logger.Printf("brightness updated: lux=%.2f", brightness)

	r.updateCache(ctx, func(ctx context.Context) error {
		return r.cache.SetBrightness(ctx, brightness)
	})
}

// updateCache runs a best-effort cache write. The relational store is the
// source of truth, so cache errors are reported and otherwise ignored.
func (r *Router) updateCache(ctx context.Context, fn func(context.Context) error) {
	if r.cache == nil {
		return
	}
	if err := fn(ctx); err != nil {
		r.logger.Printf("cache update failed: %v", err)
		r.pub.Publish(telemetry.NewBridgeError(err, "cache_update", telemetry.ErrorSeverityInfo))
	}
}
