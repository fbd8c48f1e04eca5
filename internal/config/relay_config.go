package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the outbox relay process. Minimal on
// purpose: the relay only needs the database, the broker and a health port.
type RelayConfig struct {
	DatabaseURL       string `env:"DB_CONNECTION_STRING,required"`
	RabbitMQURL       string `env:"RABBITMQ_URL,required"`
	AnnouncementQueue string `env:"ANNOUNCEMENT_QUEUE_NAME" envDefault:"announcements"`
	HealthAddress     string `env:"RELAY_HEALTH_ADDRESS" envDefault:":8090"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
}

func LoadRelayConfig() (*RelayConfig, error) {
	_ = godotenv.Load()

	cfg := &RelayConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
