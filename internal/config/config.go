// Package config содержит логику чтения конфигурации клиента shopfront.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации клиента shopfront.
type Config struct {
	RunAddress     string `env:"RUN_ADDRESS"`
	GatewayAddress string `env:"GATEWAY_ADDRESS"`
	SessionFile    string `env:"SESSION_FILE"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envGatewayAddress := cfg.GatewayAddress
	envSessionFile := cfg.SessionFile

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8090", "address and port for the local control API")
	flag.StringVar(&cfg.GatewayAddress, "g", "localhost:8000", "shopfront gateway address")
	flag.StringVar(&cfg.SessionFile, "f", "shopfront-session.json", "path to the persisted session file")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envGatewayAddress != "" {
		cfg.GatewayAddress = envGatewayAddress
	}
	if envSessionFile != "" {
		cfg.SessionFile = envSessionFile
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8090"
	}

	return cfg, nil
}
