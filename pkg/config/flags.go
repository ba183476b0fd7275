package config

import (
	"flag"
	"fmt"
)

// parseCLIFlags parses command-line flags and returns a FlagSource and help flag
func parseCLIFlags() (*FlagSource, bool) {
	flagSource := NewFlagSource()

	// Define CLI flags
	httpPort := flag.String(FlagHTTPPort, "", HelpHTTPPort)
	brokerURL := flag.String(FlagBrokerURL, "", HelpBrokerURL)
	clientIDPrefix := flag.String(FlagBrokerClientIDPrefix, "", HelpBrokerClientIDPrefix)
	topicTemperature := flag.String(FlagTopicTemperature, "", HelpTopicTemperature)
	topicBrightness := flag.String(FlagTopicBrightness, "", HelpTopicBrightness)
	brokerReconnectSeconds := flag.Int(FlagBrokerReconnectSeconds, 0, HelpBrokerReconnectSeconds)
	brokerConnectTimeoutSeconds := flag.Int(FlagBrokerConnectTimeoutSeconds, 0, HelpBrokerConnectTimeoutSeconds)
	brokerKeepAliveSeconds := flag.Int(FlagBrokerKeepAliveSeconds, 0, HelpBrokerKeepAliveSeconds)
	databaseURL := flag.String(FlagDatabaseURL, "", HelpDatabaseURL)
	databaseMaxConns := flag.Int(FlagDatabaseMaxConns, 0, HelpDatabaseMaxConns)
	databaseWriteTimeoutSeconds := flag.Int(FlagDatabaseWriteTimeoutSeconds, 0, HelpDatabaseWriteTimeoutSeconds)
	redisAddr := flag.String(FlagRedisAddr, "", HelpRedisAddr)
	cacheTTLSeconds := flag.Int(FlagCacheTTLSeconds, 0, HelpCacheTTLSeconds)
	help := flag.Bool(FlagHelp, false, HelpShowHelp)

	flag.Parse()

	if *help {
		return flagSource, true
	}

	// Store non-zero/non-empty values in flag source
	if *httpPort != "" {
		flagSource.Set(KeyHTTPPort, *httpPort)
	}
	if *brokerURL != "" {
		flagSource.Set(KeyBrokerURL, *brokerURL)
	}
	if *clientIDPrefix != "" {
		flagSource.Set(KeyBrokerClientIDPrefix, *clientIDPrefix)
	}
	if *topicTemperature != "" {
		flagSource.Set(KeyTopicTemperature, *topicTemperature)
	}
	if *topicBrightness != "" {
		flagSource.Set(KeyTopicBrightness, *topicBrightness)
	}
	if *brokerReconnectSeconds != 0 {
		flagSource.Set(KeyBrokerReconnectSeconds, *brokerReconnectSeconds)
	}
	if *brokerConnectTimeoutSeconds != 0 {
		flagSource.Set(KeyBrokerConnectTimeoutSeconds, *brokerConnectTimeoutSeconds)
	}
	if *brokerKeepAliveSeconds != 0 {
		flagSource.Set(KeyBrokerKeepAliveSeconds, *brokerKeepAliveSeconds)
	}
	if *databaseURL != "" {
		flagSource.Set(KeyDatabaseURL, *databaseURL)
	}
	if *databaseMaxConns != 0 {
		flagSource.Set(KeyDatabaseMaxConns, *databaseMaxConns)
	}
	if *databaseWriteTimeoutSeconds != 0 {
		flagSource.Set(KeyDatabaseWriteTimeoutSeconds, *databaseWriteTimeoutSeconds)
	}
	if *redisAddr != "" {
		flagSource.Set(KeyRedisAddr, *redisAddr)
	}
	if *cacheTTLSeconds != 0 {
		flagSource.Set(KeyCacheTTLSeconds, *cacheTTLSeconds)
	}

	return flagSource, false
}

// printUsage prints the usage message
func printUsage() {
	fmt.Printf("%s - %s\n", AppName, AppDescription)
	fmt.Println()
	fmt.Printf("%s\n", HelpUsage)
	fmt.Printf("  %s\n", UsageFormat)
	fmt.Println()
	fmt.Printf("%s\n", HelpOptions)
	fmt.Printf("  --%s string                      %s (default: %s)\n", FlagHTTPPort, HelpHTTPPort, DefaultHTTPPort)
	fmt.Printf("  --%s string                %s (default: %s)\n", FlagBrokerURL, HelpBrokerURL, DefaultBrokerURL)
	fmt.Printf("  --%s string          %s (default: %s)\n", FlagBrokerClientIDPrefix, HelpBrokerClientIDPrefix, DefaultBrokerClientIDPrefix)
	fmt.Printf("  --%s string         %s (default: %s)\n", FlagTopicTemperature, HelpTopicTemperature, DefaultTopicTemperature)
	fmt.Printf("  --%s string          %s (default: %s)\n", FlagTopicBrightness, HelpTopicBrightness, DefaultTopicBrightness)
	fmt.Printf("  --%s int     %s (default: %d)\n", FlagBrokerReconnectSeconds, HelpBrokerReconnectSeconds, DefaultBrokerReconnectSeconds)
	fmt.Printf("  --%s int %s (default: %d)\n", FlagBrokerConnectTimeoutSeconds, HelpBrokerConnectTimeoutSeconds, DefaultBrokerConnectTimeoutSeconds)
	fmt.Printf("  --%s int     %s (default: %d)\n", FlagBrokerKeepAliveSeconds, HelpBrokerKeepAliveSeconds, DefaultBrokerKeepAliveSeconds)
	fmt.Printf("  --%s string              %s\n", FlagDatabaseURL, HelpDatabaseURL)
	fmt.Printf("  --%s int            %s (default: %d)\n", FlagDatabaseMaxConns, HelpDatabaseMaxConns, DefaultDatabaseMaxConns)
	fmt.Printf("  --%s int %s (default: %d)\n", FlagDatabaseWriteTimeoutSeconds, HelpDatabaseWriteTimeoutSeconds, DefaultDatabaseWriteTimeoutSeconds)
	fmt.Printf("  --%s string                %s\n", FlagRedisAddr, HelpRedisAddr)
	fmt.Printf("  --%s int             %s (default: %d)\n", FlagCacheTTLSeconds, HelpCacheTTLSeconds, DefaultCacheTTLSeconds)
	fmt.Printf("  --%s                              %s\n", FlagHelp, HelpShowHelp)
	fmt.Println()
	fmt.Printf("%s\n", HelpEnvironmentVars)
	fmt.Printf("  %-36s %s\n", KeyHTTPPort, HelpHTTPPort)
	fmt.Printf("  %-36s %s\n", KeyBrokerURL, HelpBrokerURL)
	fmt.Printf("  %-36s %s\n", KeyBrokerClientIDPrefix, HelpBrokerClientIDPrefix)
	fmt.Printf("  %-36s %s\n", KeyTopicTemperature, HelpTopicTemperature)
	fmt.Printf("  %-36s %s\n", KeyTopicBrightness, HelpTopicBrightness)
	fmt.Printf("  %-36s %s\n", KeyBrokerReconnectSeconds, HelpBrokerReconnectSeconds)
	fmt.Printf("  %-36s %s\n", KeyBrokerConnectTimeoutSeconds, HelpBrokerConnectTimeoutSeconds)
	fmt.Printf("  %-36s %s\n", KeyBrokerKeepAliveSeconds, HelpBrokerKeepAliveSeconds)
	fmt.Printf("  %-36s %s\n", KeyDatabaseURL, HelpDatabaseURL)
	fmt.Printf("  %-36s %s\n", KeyDatabaseMaxConns, HelpDatabaseMaxConns)
	fmt.Printf("  %-36s %s\n", KeyDatabaseWriteTimeoutSeconds, HelpDatabaseWriteTimeoutSeconds)
	fmt.Printf("  %-36s %s\n", KeyRedisAddr, HelpRedisAddr)
	fmt.Printf("  %-36s %s\n", KeyCacheTTLSeconds, HelpCacheTTLSeconds)
	fmt.Println()
	fmt.Printf("%s\n", HelpNote)
}
