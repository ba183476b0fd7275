package main

import (
	"context"
	"log"
	"time"

	"sensor-bridge/pkg/config"
	"sensor-bridge/pkg/telemetry"
	"sensor-bridge/pkg/utils"
)

// CLI represents the command-line interface runner
type CLI struct {
	telemetry telemetry.TelemetryReader
	config    *config.Config
	logger    *log.Logger

	// State
	lastSnapshot telemetry.Snapshot
	done         chan struct{}
}

// NewCLI creates a new command-line interface runner
func NewCLI(telemetryReader telemetry.TelemetryReader, cfg *config.Config, logger *log.Logger) *CLI {
	return &CLI{
		telemetry: telemetryReader,
		config:    cfg,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Run starts the CLI runner and blocks until shutdown
func (c *CLI) Run(ctx context.Context) error {
	c.logger.Printf("Starting %s in quiet mode", config.AppName)
	c.logger.Printf("Broker: %s", c.config.Broker.URL)
	c.logger.Printf("Topics: %s, %s", c.config.Broker.TopicTemperature, c.config.Broker.TopicBrightness)
	c.logger.Printf("API port: %s", c.config.HTTPPort)

	// Print periodic status updates
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Printf("Shutting down...")
			return nil
		case <-ticker.C:
			c.printStatus()
		case <-c.done:
			return nil
		}
	}
}

// SetError logs an error message
func (c *CLI) SetError(err string) {
	c.logger.Printf("ERROR: %s", err)
}

// Stop stops the CLI runner
func (c *CLI) Stop() {
	close(c.done)
}

// printStatus prints current telemetry status
func (c *CLI) printStatus() {
	snapshot := c.telemetry.Snapshot()

	// Only print if there are changes or significant activity
	if c.shouldPrintStatus(snapshot) {
		c.logger.Printf("Status - Messages: received=%s, stored=%s, rate=%.1f/s, errors=%d",
			utils.FormatNumber(snapshot.MessagesReceived),
			utils.FormatNumber(snapshot.ReadingsStored),
			snapshot.MessagesPerSecond,
			snapshot.ErrorsTotal)

		// Print connection status
		c.logger.Printf("Connections - Broker: %t, Store: %t",
			snapshot.BrokerConnected,
			snapshot.StoreConnected)

		// Print per-topic traffic if any has arrived
		for _, tc := range utils.SortTopicsByCount(snapshot.MessagesByTopic) {
			c.logger.Printf("  %s: %s messages", tc.Topic, utils.FormatNumber(tc.Count))
		}
	}

	c.lastSnapshot = snapshot
}

// shouldPrintStatus determines if we should print a status update
func (c *CLI) shouldPrintStatus(snapshot telemetry.Snapshot) bool {
	// Always print first status
	if c.lastSnapshot.MessagesReceived == 0 && c.lastSnapshot.ReadingsStored == 0 {
		return true
	}

	// Print if message counts changed
	if snapshot.MessagesReceived != c.lastSnapshot.MessagesReceived ||
		snapshot.ReadingsStored != c.lastSnapshot.ReadingsStored {
		return true
	}

	// Print if there are errors
	if snapshot.ErrorsTotal > c.lastSnapshot.ErrorsTotal {
		return true
	}

	// Print if connection status changed
	if snapshot.BrokerConnected != c.lastSnapshot.BrokerConnected ||
		snapshot.StoreConnected != c.lastSnapshot.StoreConnected {
		return true
	}

	return false
}
