package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Event sink selectors for EventsConfig.Sink.
const (
	SinkNone  = "none"
	SinkLog   = "log"
	SinkKafka = "kafka"
)

// Config holds all configuration for toy-pay
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Events  EventsConfig  `toml:"events"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// EventsConfig selects where stream events (accepted/rejected operations)
// are published.
type EventsConfig struct {
	Sink  string      `toml:"sink"` // none, log or kafka
	Kafka KafkaConfig `toml:"kafka"`
}

// KafkaConfig holds broker settings for the kafka event sink.
type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Events: EventsConfig{
			Sink: SinkLog,
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "toypay_stream_events",
			},
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Missing files are skipped; a .env file in the working directory is loaded
// first so its variables participate in the override pass.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// .env is optional; ignore absence.
	_ = godotenv.Load()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validateEventSink(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if level := os.Getenv("TOYPAY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if sink := os.Getenv("TOYPAY_EVENT_SINK"); sink != "" {
		config.Events.Sink = strings.ToLower(sink)
	}

	if brokers := os.Getenv("TOYPAY_KAFKA_BROKERS"); brokers != "" {
		config.Events.Kafka.Brokers = strings.Split(brokers, ",")
	}

	if topic := os.Getenv("TOYPAY_KAFKA_TOPIC"); topic != "" {
		config.Events.Kafka.Topic = topic
	}
}

func validateEventSink(config *Config) error {
	switch config.Events.Sink {
	case SinkNone, SinkLog, SinkKafka:
		return nil
	}
	return fmt.Errorf("unknown event sink %q", config.Events.Sink)
}
