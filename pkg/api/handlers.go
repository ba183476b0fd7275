package api

import (
	"context"
	"fmt"

	"sensor-bridge/pkg/config"
	"sensor-bridge/pkg/store"

	"github.com/gofiber/fiber/v2"
)

// recentLimit is the fixed number of rows returned by GET /api/sensor.
const recentLimit = 10

// SensorResponse is the JSON body of GET /api/sensor. The aggregate
// fields are nil (JSON null) when no readings exist yet.
type SensorResponse struct {
	Suhumax  *float64        `json:"suhumax"`
	Suhumin  *float64        `json:"suhumin"`
	Suhurata *float64        `json:"suhurata"`
	Data     []store.Reading `json:"data"`
}

// LiveSource provides the latest known values from the hot-path cache.
type LiveSource interface {
	Latest(ctx context.Context) (store.LiveReading, error)
}

// SensorData handles GET /api/sensor: temperature aggregates plus the 10
// most recent readings, newest first. Any store failure yields a 500
// with an error body and no partial result.
func SensorData(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := st.AggregateStats(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		readings, err := st.RecentReadings(c.UserContext(), recentLimit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(SensorResponse{
			Suhumax:  stats.Max,
			Suhumin:  stats.Min,
			Suhurata: stats.Avg,
			Data:     readings,
		})
	}
}

// LiveData handles GET /api/sensor/live: latest values from the cache,
// falling back to the newest stored row when the cache is disabled or
// empty.
func LiveData(live LiveSource, st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if live != nil {
			reading, err := live.Latest(c.UserContext())
			if err == nil && !reading.Empty() {
				return c.JSON(reading)
			}
			// Cache miss or cache failure: the store remains authoritative.
		}

		rows, err := st.RecentReadings(c.UserContext(), 1)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if len(rows) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no readings",
			})
		}

		return c.JSON(store.LiveReading{
			Suhu:      rows[0].Suhu,
			Humidity:  rows[0].Humidity,
			Kecerahan: rows[0].Kecerahan,
		})
	}
}

// Index handles GET /: a static informational page listing the broker,
// the configured topics and the API link. No store access.
func Index(cfg *config.Config) fiber.Handler {
	page := fmt.Sprintf(`<h2>Sensor bridge is running</h2>
<p>Broker: <b>%s</b></p>
<ul>
  <li>Temperature topic: <code>%s</code></li>
  <li>Brightness topic: <code>%s</code></li>
  <li><a href="/api/sensor">/api/sensor</a> &rarr; aggregated JSON data</li>
</ul>
`, cfg.Broker.URL, cfg.Broker.TopicTemperature, cfg.Broker.TopicBrightness)

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(page)
	}
}

// Health is a plain liveness endpoint for containers.
func Health() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString("OK")
	}
}
