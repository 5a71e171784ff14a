package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	Address         string        `env:"FOODFLOW_ADDRESS" envDefault:":7000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURI     string        `env:"DATABASE_URI"`
	RabbitMQURL     string        `env:"RABBITMQ_URL"`
	StreamHeartbeat time.Duration `env:"STREAM_HEARTBEAT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// New reads the environment first, then lets flags override it.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	address := flag.String("a", cfg.Address, "{host:port} to listen on")
	logLevel := flag.String("l", cfg.LogLevel, "log level")
	databaseURI := flag.String("d", cfg.DatabaseURI, "Postgres connection string")
	rabbitURL := flag.String("r", cfg.RabbitMQURL, "RabbitMQ URL for the event relay (empty disables it)")
	heartbeat := flag.Duration("hb", cfg.StreamHeartbeat, "SSE heartbeat interval")
	flag.Parse()

	cfg.Address = *address
	cfg.LogLevel = *logLevel
	cfg.DatabaseURI = *databaseURI
	cfg.RabbitMQURL = *rabbitURL
	cfg.StreamHeartbeat = *heartbeat

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("DATABASE_URI must be set")
	}
	return cfg, nil
}
