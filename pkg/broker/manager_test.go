package broker

import (
	"errors"
	"log"
	"os"
	"testing"

	"sensor-bridge/pkg/config"
	"sensor-bridge/pkg/telemetry"
	"sensor-bridge/pkg/testutil"
)

// fakeClient implements Client in-process so the manager lifecycle can be
// driven without a broker.
type fakeClient struct {
	connectError   error
	subscribeError error

	connected        bool
	connectCalls     int
	subscribeCalls   [][]string
	handler          MessageHandler
	disconnectCalled bool
}

func (f *fakeClient) Connect() error {
	f.connectCalls++
	if f.connectError != nil {
		return f.connectError
	}
	f.connected = true
	return nil
}

func (f *fakeClient) Subscribe(topics []string, qos byte, handler MessageHandler) error {
	recorded := make([]string, len(topics))
	copy(recorded, topics)
	f.subscribeCalls = append(f.subscribeCalls, recorded)
	if f.subscribeError != nil {
		return f.subscribeError
	}
	f.handler = handler
	return nil
}

func (f *fakeClient) IsConnected() bool { return f.connected }

func (f *fakeClient) Disconnect(quiesce uint) {
	f.disconnectCalled = true
	f.connected = false
}

func testBrokerConfig() config.BrokerConfig {
	return config.BrokerConfig{
		URL:              "tcp://broker.test:1883",
		ClientIDPrefix:   "bridge-test",
		TopicTemperature: "tes/suhu",
		TopicBrightness:  "tes/kecerahan",
	}
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", log.LstdFlags)
}

func TestManager_StartAndSubscribe(t *testing.T) {
	client := &fakeClient{}
	pub := testutil.NewCapturingPublisher()
	m := NewManagerWithClient(testBrokerConfig(), testLogger(), func(string, []byte) {}, pub, client)

	if err := m.Start(); err != nil {
		t.Fatalf("expected no error from Start, got %v", err)
	}
	if client.connectCalls != 1 {
		t.Errorf("expected 1 connect call, got %d", client.connectCalls)
	}

	// The transport invokes the connect callback once a session is up
	m.onConnect()

	if got := m.State(); got != StateActive {
		t.Errorf("expected state %s, got %s", StateActive, got)
	}
	if len(client.subscribeCalls) != 1 {
		t.Fatalf("expected 1 subscribe call, got %d", len(client.subscribeCalls))
	}
	topics := client.subscribeCalls[0]
	if len(topics) != 2 || topics[0] != "tes/suhu" || topics[1] != "tes/kecerahan" {
		t.Errorf("unexpected topic set: %v", topics)
	}
}

func TestManager_ResubscribesOnEveryReconnect(t *testing.T) {
	client := &fakeClient{}
	m := NewManagerWithClient(testBrokerConfig(), testLogger(), func(string, []byte) {}, nil, client)

	if err := m.Start(); err != nil {
		t.Fatalf("expected no error from Start, got %v", err)
	}

	// Initial connect, then a drop, then a reconnect
	m.onConnect()
	m.onConnectionLost(errors.New("transport reset"))
	m.onConnect()

	if len(client.subscribeCalls) != 2 {
		t.Errorf("expected subscription re-issued on reconnect, got %d subscribe calls", len(client.subscribeCalls))
	}
	if got := m.State(); got != StateActive {
		t.Errorf("expected state %s after reconnect, got %s", StateActive, got)
	}
}

func TestManager_ConnectFailure(t *testing.T) {
	client := &fakeClient{connectError: errors.New("broker unreachable")}
	pub := testutil.NewCapturingPublisher()
	m := NewManagerWithClient(testBrokerConfig(), testLogger(), func(string, []byte) {}, pub, client)

	if err := m.Start(); err == nil {
		t.Fatal("expected error from Start, got nil")
	}

	var sawCritical bool
	for _, event := range pub.Snapshot() {
		if e, ok := event.(telemetry.BridgeError); ok && e.Severity == telemetry.ErrorSeverityCritical {
			sawCritical = true
		}
	}
	if !sawCritical {
		t.Error("expected a critical error event for the failed connect")
	}
}

func TestManager_SubscribeFailureLeavesNonActive(t *testing.T) {
	client := &fakeClient{subscribeError: errors.New("subscription rejected")}
	pub := testutil.NewCapturingPublisher()
	m := NewManagerWithClient(testBrokerConfig(), testLogger(), func(string, []byte) {}, pub, client)

	if err := m.Start(); err != nil {
		t.Fatalf("expected no error from Start, got %v", err)
	}
	m.onConnect()

	if got := m.State(); got == StateActive {
		t.Error("expected manager not to reach active after subscribe failure")
	}

	// The retry happens through the next connect callback
	client.subscribeError = nil
	m.onConnect()
	if got := m.State(); got != StateActive {
		t.Errorf("expected state %s after successful retry, got %s", StateActive, got)
	}
}

func TestManager_ConnectionLostEmitsStatus(t *testing.T) {
	client := &fakeClient{}
	pub := testutil.NewCapturingPublisher()
	m := NewManagerWithClient(testBrokerConfig(), testLogger(), func(string, []byte) {}, pub, client)

	if err := m.Start(); err != nil {
		t.Fatalf("expected no error from Start, got %v", err)
	}
	m.onConnect()
	m.onConnectionLost(errors.New("keepalive timeout"))

	if got := m.State(); got != StateReconnecting {
		t.Errorf("expected state %s, got %s", StateReconnecting, got)
	}

	var sawDisconnect bool
	for _, event := range pub.Snapshot() {
		if e, ok := event.(telemetry.ConnectionStatusChanged); ok && e.Endpoint == telemetry.EndpointBroker && !e.Connected {
			sawDisconnect = true
		}
	}
	if !sawDisconnect {
		t.Error("expected a broker-disconnected status event")
	}
}

func TestManager_CloseIsTerminal(t *testing.T) {
	client := &fakeClient{}
	m := NewManagerWithClient(testBrokerConfig(), testLogger(), func(string, []byte) {}, nil, client)

	if err := m.Start(); err != nil {
		t.Fatalf("expected no error from Start, got %v", err)
	}
	m.onConnect()

	m.Close()
	if !client.disconnectCalled {
		t.Error("expected Disconnect on the client")
	}
	if got := m.State(); got != StateClosed {
		t.Errorf("expected state %s, got %s", StateClosed, got)
	}

	// Callbacks after close must not resurrect the session
	m.onConnect()
	if got := m.State(); got != StateClosed {
		t.Errorf("expected state to stay %s after close, got %s", StateClosed, got)
	}

	// Close twice is a no-op
	m.Close()
}
