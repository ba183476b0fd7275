package config

import (
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// ConfigSource represents a source of configuration values
type ConfigSource interface {
	GetString(key string) (string, bool)
	GetInt(key string) (int, bool)
}

// EnvSource implements ConfigSource for environment variables
type EnvSource struct{}

func (e *EnvSource) GetString(key string) (string, bool) {
	value := os.Getenv(key)
	return value, value != ""
}

func (e *EnvSource) GetInt(key string) (int, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i, true
	}
	return 0, false
}

// FlagSource implements ConfigSource for command-line flags
type FlagSource struct {
	values map[string]interface{}
}

func NewFlagSource() *FlagSource {
	return &FlagSource{values: make(map[string]interface{})}
}

func (f *FlagSource) Set(key string, value interface{}) {
	f.values[key] = value
}

func (f *FlagSource) GetString(key string) (string, bool) {
	if value, exists := f.values[key]; exists {
		if str, ok := value.(string); ok && str != "" {
			return str, true
		}
	}
	return "", false
}

func (f *FlagSource) GetInt(key string) (int, bool) {
	if value, exists := f.values[key]; exists {
		if i, ok := value.(int); ok {
			return i, true
		}
	}
	return 0, false
}

// FileSource implements ConfigSource for an optional YAML config file.
// Keys are matched case-insensitively, so BROKER_URL resolves from a
// `broker_url:` entry in bridge.yaml.
type FileSource struct {
	v *viper.Viper
}

// NewFileSource looks for bridge.yaml in the working directory, ./config
// and /etc/sensor-bridge/. A missing file is not an error; any other read
// failure is.
func NewFileSource() (*FileSource, error) {
	v := viper.New()
	v.SetConfigName("bridge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/sensor-bridge/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return &FileSource{v: v}, nil
}

func (f *FileSource) GetString(key string) (string, bool) {
	if f.v == nil || !f.v.IsSet(key) {
		return "", false
	}
	return f.v.GetString(key), true
}

func (f *FileSource) GetInt(key string) (int, bool) {
	if f.v == nil || !f.v.IsSet(key) {
		return 0, false
	}
	return f.v.GetInt(key), true
}
