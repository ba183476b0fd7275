package telemetry

import "time"

type TelemetryEvent interface {
	Timestamp() time.Time // When the event occurred
	EventType() string    // For categorization/filtering
}

// MessageReceived records one inbound broker message before decoding.
type MessageReceived struct {
	timestamp time.Time
	Topic     string
}

func (e MessageReceived) Timestamp() time.Time { return e.timestamp }
func (e MessageReceived) EventType() string    { return "message_received" }

func NewMessageReceived(topic string) MessageReceived {
	return MessageReceived{
		timestamp: time.Now(),
		Topic:     topic,
	}
}

// Reading kinds for ReadingStored events.
const (
	ReadingKindTemperature = "temperature"
	ReadingKindBrightness  = "brightness"
)

// ReadingStored records one successful store write.
type ReadingStored struct {
	timestamp time.Time
	Kind      string        // temperature or brightness
	Latency   time.Duration // Time from receive to persisted
}

func (e ReadingStored) Timestamp() time.Time { return e.timestamp }
func (e ReadingStored) EventType() string    { return "reading_stored" }

func NewReadingStored(kind string, latency time.Duration) ReadingStored {
	return ReadingStored{
		timestamp: time.Now(),
		Kind:      kind,
		Latency:   latency,
	}
}

// Endpoints for ConnectionStatusChanged events.
const (
	EndpointBroker = "broker"
	EndpointStore  = "store"
)

type ConnectionStatusChanged struct {
	timestamp time.Time
	Endpoint  string
	Connected bool
}

func (e ConnectionStatusChanged) Timestamp() time.Time { return e.timestamp }
func (e ConnectionStatusChanged) EventType() string    { return "connection_status_changed" }

func NewConnectionStatusChanged(endpoint string, connected bool) ConnectionStatusChanged {
	return ConnectionStatusChanged{
		timestamp: time.Now(),
		Endpoint:  endpoint,
		Connected: connected,
	}
}

type BridgeError struct {
	timestamp time.Time
	Err       error
	Context   string // Additional context (e.g., "payload_decode", "store_insert")
	Severity  ErrorSeverity
}

func (e BridgeError) Timestamp() time.Time { return e.timestamp }
func (e BridgeError) EventType() string    { return "bridge_error" }

func NewBridgeError(err error, context string, severity ErrorSeverity) BridgeError {
	return BridgeError{
		timestamp: time.Now(),
		Err:       err,
		Context:   context,
		Severity:  severity,
	}
}

// BridgeStateChanged records a connection manager state transition.
type BridgeStateChanged struct {
	timestamp time.Time
	State     string
	Reason    string // Why the state changed
}

func (e BridgeStateChanged) Timestamp() time.Time { return e.timestamp }
func (e BridgeStateChanged) EventType() string    { return "bridge_state_changed" }

func NewBridgeStateChanged(state, reason string) BridgeStateChanged {
	return BridgeStateChanged{
		timestamp: time.Now(),
		State:     state,
		Reason:    reason,
	}
}

type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityCritical
)

type TelemetryPublisher interface {
	// Publish sends a telemetry event to the aggregator.
	// This is a non-blocking, fire-and-forget call.
	Publish(event TelemetryEvent)
}
