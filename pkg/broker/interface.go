package broker

// MessageHandler receives each inbound message in broker delivery order.
type MessageHandler func(topic string, payload []byte)

// Client abstracts the MQTT client so the connection manager can be
// tested without a live broker. The paho client satisfies it via the
// adapter in paho.go.
type Client interface {
	// Connect establishes the broker session. It blocks until the session
	// is up or the connect attempt fails.
	Connect() error

	// Subscribe issues one batch subscription for the given topic set and
	// routes every inbound message to handler.
	Subscribe(topics []string, qos byte, handler MessageHandler) error

	IsConnected() bool

	// Disconnect closes the session, waiting up to quiesce milliseconds
	// for in-flight work.
	Disconnect(quiesce uint)
}
