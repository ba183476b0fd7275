package config

import "fmt"

func (c *Config) validate() error {
	if c.Broker.URL == "" {
		return fmt.Errorf("BROKER_URL is required")
	}
	if c.Broker.TopicTemperature == "" {
		return fmt.Errorf("TOPIC_TEMPERATURE is required")
	}
	if c.Broker.TopicBrightness == "" {
		return fmt.Errorf("TOPIC_BRIGHTNESS is required")
	}
	if c.Broker.TopicTemperature == c.Broker.TopicBrightness {
		return fmt.Errorf("TOPIC_TEMPERATURE and TOPIC_BRIGHTNESS must differ")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be positive")
	}
	if c.Database.WriteTimeoutSeconds <= 0 {
		return fmt.Errorf("DATABASE_WRITE_TIMEOUT_SECONDS must be positive")
	}
	if c.Broker.ReconnectSeconds <= 0 {
		return fmt.Errorf("BROKER_RECONNECT_SECONDS must be positive")
	}
	if c.Broker.ConnectTimeoutSeconds <= 0 {
		return fmt.Errorf("BROKER_CONNECT_TIMEOUT_SECONDS must be positive")
	}
	if c.Broker.KeepAliveSeconds <= 0 {
		return fmt.Errorf("BROKER_KEEPALIVE_SECONDS must be positive")
	}
	return nil
}
