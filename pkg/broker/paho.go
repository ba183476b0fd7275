package broker

import (
	"fmt"
	"time"

	"sensor-bridge/pkg/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// pahoClient adapts the eclipse paho client to the Client interface.
type pahoClient struct {
	client mqtt.Client
}

// NewPahoClient builds an MQTT client from the broker config. The client
// ID gets a random suffix so concurrent bridge instances never collide on
// a broker session. Clean session is fixed on: no replay of queued
// messages after a reconnect.
func NewPahoClient(cfg config.BrokerConfig, onConnect func(), onConnectionLost func(error)) Client {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(instanceID(cfg.ClientIDPrefix)).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(time.Duration(cfg.ReconnectSeconds) * time.Second).
		SetMaxReconnectInterval(time.Duration(cfg.ReconnectSeconds) * time.Second).
		SetConnectTimeout(time.Duration(cfg.ConnectTimeoutSeconds) * time.Second).
		SetKeepAlive(time.Duration(cfg.KeepAliveSeconds) * time.Second).
		SetOnConnectHandler(func(mqtt.Client) { onConnect() }).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) { onConnectionLost(err) })

	return &pahoClient{client: mqtt.NewClient(opts)}
}

func (p *pahoClient) Connect() error {
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *pahoClient) Subscribe(topics []string, qos byte, handler MessageHandler) error {
	filters := make(map[string]byte, len(topics))
	for _, topic := range topics {
		filters[topic] = qos
	}

	token := p.client.SubscribeMultiple(filters, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *pahoClient) IsConnected() bool {
	return p.client.IsConnected()
}

func (p *pahoClient) Disconnect(quiesce uint) {
	p.client.Disconnect(quiesce)
}

func instanceID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}
