package telemetry

import (
	"context"
	"sync"
	"time"
)

// Clock interface allows for deterministic testing
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Config for telemetry settings
type Config struct {
	BufferSize        int
	MaxRecentErrors   int
	RateWindowSeconds int
}

func DefaultConfig() Config {
	return Config{
		BufferSize:        1000,
		MaxRecentErrors:   50,
		RateWindowSeconds: 10,
	}
}

// Aggregator is the core stateful component that processes telemetry events
type Aggregator struct {
	mu    sync.RWMutex
	clock Clock
	cfg   Config

	// Core counters
	messagesReceived uint64
	readingsStored   uint64
	errorsTotal      uint64

	// Breakdown
	messagesByTopic  map[string]uint64
	storedByKind     map[string]uint64
	errorsByType     map[string]uint64
	errorsBySeverity map[ErrorSeverity]uint64

	// Rate calculations
	messageTimes []time.Time // Ring buffer for receive rate
	storeTimes   []time.Time // Ring buffer for store rate

	// Current state
	bridgeState     string
	brokerConnected bool
	storeConnected  bool

	// Recent errors (ring buffer)
	recentErrors []string
	errorIndex   int

	// Latency tracking
	latencies    []time.Duration
	latencyIndex int

	// Control channels
	eventCh chan TelemetryEvent
	done    chan struct{}
	wg      sync.WaitGroup

	// Startup time
	startTime time.Time
}

// NewAggregator creates a new telemetry aggregator
func NewAggregator(clock Clock, cfg Config) *Aggregator {
	if clock == nil {
		clock = RealClock{}
	}

	return &Aggregator{
		clock:            clock,
		cfg:              cfg,
		bridgeState:      "disconnected",
		messagesByTopic:  make(map[string]uint64),
		storedByKind:     make(map[string]uint64),
		errorsByType:     make(map[string]uint64),
		errorsBySeverity: make(map[ErrorSeverity]uint64),
		messageTimes:     make([]time.Time, 0, cfg.RateWindowSeconds*10),
		storeTimes:       make([]time.Time, 0, cfg.RateWindowSeconds*10),
		recentErrors:     make([]string, cfg.MaxRecentErrors),
		latencies:        make([]time.Duration, 100), // Keep last 100 latencies for P95
		eventCh:          make(chan TelemetryEvent, cfg.BufferSize),
		done:             make(chan struct{}),
		startTime:        clock.Now(),
	}
}

// Start begins processing telemetry events
func (a *Aggregator) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.processEvents(ctx)
}

// Stop gracefully shuts down the aggregator
func (a *Aggregator) Stop() {
	close(a.done)
	a.wg.Wait()
}

// Publish implements TelemetryPublisher interface
func (a *Aggregator) Publish(event TelemetryEvent) {
	select {
	case a.eventCh <- event:
	default:
		// Non-blocking send - drop if channel is full
		// This protects the hot path from being blocked
	}
}

// Snapshot implements TelemetryReader interface
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := a.clock.Now()

	// Calculate rates
	messagesPerSecond := a.calculateRate(a.messageTimes, now)
	storesPerSecond := a.calculateRate(a.storeTimes, now)

	// Calculate latency metrics
	avgLatency, p95Latency := a.calculateLatencyMetrics()

	// Calculate uptime
	uptime := now.Sub(a.startTime).Seconds()

	// Calculate channel utilization
	channelUtilization := float64(len(a.eventCh)) / float64(cap(a.eventCh)) * 100

	// Copy maps to prevent data races
	topicsCopy := make(map[string]uint64)
	for k, v := range a.messagesByTopic {
		topicsCopy[k] = v
	}

	kindsCopy := make(map[string]uint64)
	for k, v := range a.storedByKind {
		kindsCopy[k] = v
	}

	errorsByTypeCopy := make(map[string]uint64)
	for k, v := range a.errorsByType {
		errorsByTypeCopy[k] = v
	}

	errorsBySeverityCopy := make(map[ErrorSeverity]uint64)
	for k, v := range a.errorsBySeverity {
		errorsBySeverityCopy[k] = v
	}

	// Copy recent errors
	recentErrors := make([]string, 0)
	for i := 0; i < a.cfg.MaxRecentErrors; i++ {
		idx := (a.errorIndex - i - 1 + len(a.recentErrors)) % len(a.recentErrors)
		if a.recentErrors[idx] != "" {
			recentErrors = append(recentErrors, a.recentErrors[idx])
		}
	}

	return Snapshot{
		MessagesReceived:   a.messagesReceived,
		ReadingsStored:     a.readingsStored,
		ErrorsTotal:        a.errorsTotal,
		MessagesByTopic:    topicsCopy,
		StoredByKind:       kindsCopy,
		BridgeState:        a.bridgeState,
		BrokerConnected:    a.brokerConnected,
		StoreConnected:     a.storeConnected,
		RecentErrors:       recentErrors,
		MessagesPerSecond:  messagesPerSecond,
		StoresPerSecond:    storesPerSecond,
		AvgLatencyMs:       avgLatency,
		P95LatencyMs:       p95Latency,
		UptimeSeconds:      uptime,
		ErrorsByType:       errorsByTypeCopy,
		ErrorsBySeverity:   errorsBySeverityCopy,
		ChannelUtilization: channelUtilization,
	}
}

func (a *Aggregator) processEvents(ctx context.Context) {
	defer a.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.done:
			return
		case event := <-a.eventCh:
			a.handleEvent(event)
		}
	}
}

func (a *Aggregator) handleEvent(event TelemetryEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()

	switch e := event.(type) {
	case MessageReceived:
		a.messagesReceived++
		a.messagesByTopic[e.Topic]++
		a.addMessageTime(now)

	case ReadingStored:
		a.readingsStored++
		a.storedByKind[e.Kind]++
		a.addStoreTime(now)
		a.addLatency(e.Latency)

	case ConnectionStatusChanged:
		if e.Endpoint == EndpointBroker {
			a.brokerConnected = e.Connected
		} else if e.Endpoint == EndpointStore {
			a.storeConnected = e.Connected
		}

	case BridgeError:
		a.errorsTotal++
		a.errorsByType[e.Context]++
		a.errorsBySeverity[e.Severity]++
		a.addRecentError(e.Err.Error())

	case BridgeStateChanged:
		a.bridgeState = e.State
	}
}

func (a *Aggregator) addMessageTime(t time.Time) {
	cutoff := t.Add(-time.Duration(a.cfg.RateWindowSeconds) * time.Second)

	// Remove old entries
	for len(a.messageTimes) > 0 && a.messageTimes[0].Before(cutoff) {
		a.messageTimes = a.messageTimes[1:]
	}

	a.messageTimes = append(a.messageTimes, t)
}

func (a *Aggregator) addStoreTime(t time.Time) {
	cutoff := t.Add(-time.Duration(a.cfg.RateWindowSeconds) * time.Second)

	// Remove old entries
	for len(a.storeTimes) > 0 && a.storeTimes[0].Before(cutoff) {
		a.storeTimes = a.storeTimes[1:]
	}

	a.storeTimes = append(a.storeTimes, t)
}

func (a *Aggregator) addLatency(latency time.Duration) {
	a.latencies[a.latencyIndex] = latency
	a.latencyIndex = (a.latencyIndex + 1) % len(a.latencies)
}

func (a *Aggregator) addRecentError(err string) {
	a.recentErrors[a.errorIndex] = err
	a.errorIndex = (a.errorIndex + 1) % len(a.recentErrors)
}

func (a *Aggregator) calculateRate(times []time.Time, now time.Time) float64 {
	if len(times) == 0 {
		return 0.0
	}

	cutoff := now.Add(-time.Duration(a.cfg.RateWindowSeconds) * time.Second)
	count := 0

	for _, t := range times {
		if t.After(cutoff) {
			count++
		}
	}

	return float64(count) / float64(a.cfg.RateWindowSeconds)
}

func (a *Aggregator) calculateLatencyMetrics() (float64, float64) {
	validLatencies := make([]time.Duration, 0)

	for _, lat := range a.latencies {
		if lat > 0 {
			validLatencies = append(validLatencies, lat)
		}
	}

	if len(validLatencies) == 0 {
		return 0.0, 0.0
	}

	// Calculate average
	var sum time.Duration
	for _, lat := range validLatencies {
		sum += lat
	}
	avg := float64(sum) / float64(len(validLatencies)) / float64(time.Millisecond)

	// P95 approximated by the max of the retained ring; good enough for a
	// status line, not a histogram
	maxLatency := validLatencies[0]
	for _, lat := range validLatencies {
		if lat > maxLatency {
			maxLatency = lat
		}
	}
	p95 := float64(maxLatency) / float64(time.Millisecond)

	return avg, p95
}
