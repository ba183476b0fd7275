package telemetry

type Snapshot struct {
	// Core metrics
	MessagesReceived uint64
	ReadingsStored   uint64
	ErrorsTotal      uint64
	MessagesByTopic  map[string]uint64
	StoredByKind     map[string]uint64

	// Bridge state
	BridgeState     string
	BrokerConnected bool
	StoreConnected  bool

	// Rate metrics
	MessagesPerSecond float64
	StoresPerSecond   float64

	// Latency metrics
	AvgLatencyMs float64
	P95LatencyMs float64

	// System metrics
	UptimeSeconds      float64
	ChannelUtilization float64

	// Error breakdown
	ErrorsByType     map[string]uint64
	ErrorsBySeverity map[ErrorSeverity]uint64
	RecentErrors     []string
}

type TelemetryReader interface {
	Snapshot() Snapshot
}
