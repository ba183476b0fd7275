package config

type Config struct {
	HTTPPort string
	Broker   BrokerConfig
	Database DatabaseConfig
	Cache    CacheConfig
}

type BrokerConfig struct {
	URL                   string
	ClientIDPrefix        string
	TopicTemperature      string
	TopicBrightness       string
	ReconnectSeconds      int
	ConnectTimeoutSeconds int
	KeepAliveSeconds      int
}

type DatabaseConfig struct {
	URL                 string
	MaxConns            int
	WriteTimeoutSeconds int
}

type CacheConfig struct {
	RedisAddr  string
	TTLSeconds int
}

// Topics returns the fixed topic set for the batch subscription.
func (b BrokerConfig) Topics() []string {
	return []string{b.TopicTemperature, b.TopicBrightness}
}

// Load loads configuration from CLI flags, environment variables and an
// optional YAML config file. CLI flags take precedence over environment
// variables, which take precedence over the file.
func Load() (*Config, error) {
	// Parse CLI flags
	flagSource, showHelp := parseCLIFlags()

	if showHelp {
		printUsage()
		return nil, nil // Return nil to indicate help was shown
	}

	fileSource, err := NewFileSource()
	if err != nil {
		return nil, err
	}

	// Create resolver with precedence: CLI flags > Environment variables > File
	resolver := NewConfigResolver(flagSource, &EnvSource{}, fileSource)

	// Build configuration using resolver
	cfg := &Config{
		HTTPPort: resolver.ResolveString(KeyHTTPPort, DefaultHTTPPort),
		Broker: BrokerConfig{
			URL:                   resolver.ResolveString(KeyBrokerURL, DefaultBrokerURL),
			ClientIDPrefix:        resolver.ResolveString(KeyBrokerClientIDPrefix, DefaultBrokerClientIDPrefix),
			TopicTemperature:      resolver.ResolveString(KeyTopicTemperature, DefaultTopicTemperature),
			TopicBrightness:       resolver.ResolveString(KeyTopicBrightness, DefaultTopicBrightness),
			ReconnectSeconds:      resolver.ResolveInt(KeyBrokerReconnectSeconds, DefaultBrokerReconnectSeconds),
			ConnectTimeoutSeconds: resolver.ResolveInt(KeyBrokerConnectTimeoutSeconds, DefaultBrokerConnectTimeoutSeconds),
			KeepAliveSeconds:      resolver.ResolveInt(KeyBrokerKeepAliveSeconds, DefaultBrokerKeepAliveSeconds),
		},
		Database: DatabaseConfig{
			URL:                 resolver.ResolveString(KeyDatabaseURL, DefaultDatabaseURL),
			MaxConns:            resolver.ResolveInt(KeyDatabaseMaxConns, DefaultDatabaseMaxConns),
			WriteTimeoutSeconds: resolver.ResolveInt(KeyDatabaseWriteTimeoutSeconds, DefaultDatabaseWriteTimeoutSeconds),
		},
		Cache: CacheConfig{
			RedisAddr:  resolver.ResolveString(KeyRedisAddr, DefaultRedisAddr),
			TTLSeconds: resolver.ResolveInt(KeyCacheTTLSeconds, DefaultCacheTTLSeconds),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
