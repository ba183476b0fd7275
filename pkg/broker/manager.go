package broker

import (
	"fmt"
	"log"
	"sync"

	"sensor-bridge/pkg/config"
	"sensor-bridge/pkg/telemetry"
)

// State of the broker connection lifecycle.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateSubscribing  State = "subscribing"
	StateActive       State = "active"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// Manager owns the broker connection lifecycle: connect, reconnect,
// subscribe, and dispatch of inbound messages to the injected handler.
// It persists nothing itself.
//
// The subscription is re-issued on every entry to the connected state,
// so it never depends on the transport restoring subscriptions after a
// reconnect.
type Manager struct {
	cfg     config.BrokerConfig
	logger  *log.Logger
	handler MessageHandler
	pub     telemetry.TelemetryPublisher
	client  Client

	mu     sync.Mutex
	state  State
	closed bool
}

// NewManager creates a Manager backed by a paho client.
func NewManager(cfg config.BrokerConfig, logger *log.Logger, handler MessageHandler, pub telemetry.TelemetryPublisher) *Manager {
	m := newManager(cfg, logger, handler, pub)
	m.client = NewPahoClient(cfg, m.onConnect, m.onConnectionLost)
	return m
}

// NewManagerWithClient creates a Manager with an injected client for testing.
func NewManagerWithClient(cfg config.BrokerConfig, logger *log.Logger, handler MessageHandler, pub telemetry.TelemetryPublisher, client Client) *Manager {
	m := newManager(cfg, logger, handler, pub)
	m.client = client
	return m
}

func newManager(cfg config.BrokerConfig, logger *log.Logger, handler MessageHandler, pub telemetry.TelemetryPublisher) *Manager {
	if pub == nil {
		pub = telemetry.NewNoopPublisher()
	}
	return &Manager{
		cfg:     cfg,
		logger:  logger,
		handler: handler,
		pub:     pub,
		state:   StateDisconnected,
	}
}

// Start connects to the broker. The client retries internally at the
// configured reconnect interval, so this blocks until a session is up or
// the first connect attempt is rejected outright. Subscription happens in
// the connect callback, which also runs on every reconnect.
func (m *Manager) Start() error {
	m.setState(StateConnecting, "startup")
	if err := m.client.Connect(); err != nil {
		m.emitError(err, "broker_connect", telemetry.ErrorSeverityCritical)
		return fmt.Errorf("failed to connect to broker %s: %w", m.cfg.URL, err)
	}
	return nil
}

// Close terminates the session. The closed state is terminal; callbacks
// arriving afterwards are ignored.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.client.Disconnect(250)
	m.setState(StateClosed, "shutdown requested")
	m.pub.Publish(telemetry.NewConnectionStatusChanged(telemetry.EndpointBroker, false))
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// onConnect runs on the initial connect and on every reconnect.
func (m *Manager) onConnect() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.setState(StateConnected, "broker session established")
	m.pub.Publish(telemetry.NewConnectionStatusChanged(telemetry.EndpointBroker, true))

	m.setState(StateSubscribing, "issuing batch subscription")
	if err := m.client.Subscribe(m.cfg.Topics(), 0, m.handler); err != nil {
		// Not retried here: the client's own reconnect loop re-enters
		// onConnect and with it this subscription.
		m.logger.Printf("subscribe failed for topics %v: %v", m.cfg.Topics(), err)
		m.emitError(err, "broker_subscribe", telemetry.ErrorSeverityError)
		return
	}
	m.setState(StateActive, "subscribed to topic set")
}

func (m *Manager) onConnectionLost(err error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.logger.Printf("broker connection lost: %v", err)
	m.pub.Publish(telemetry.NewConnectionStatusChanged(telemetry.EndpointBroker, false))
	m.emitError(err, "broker_transport", telemetry.ErrorSeverityWarning)
	m.setState(StateReconnecting, "transport failure")
}

func (m *Manager) setState(next State, reason string) {
	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()

	m.logger.Printf("broker state: %s -> %s (%s)", prev, next, reason)
	m.pub.Publish(telemetry.NewBridgeStateChanged(string(next), reason))
}

func (m *Manager) emitError(err error, where string, severity telemetry.ErrorSeverity) {
	m.pub.Publish(telemetry.NewBridgeError(err, where, severity))
}
