package config

import (
	"fmt"
	"time"

	env "dsjobs/common/config"
)

type Config struct {
	LogDevelopment   bool
	OTELCollectorURL string
	MetricsAddr      string

	InputPath      string
	PublishWorkers int

	NATSURL         string
	NATSConnTimeout time.Duration
	RawSubject      string
}

func LoadConfig() (*Config, error) {
	if err := env.LoadDotEnv(env.GetString("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	config := &Config{
		LogDevelopment:   env.GetBool("LOG_DEVELOPMENT", false),
		OTELCollectorURL: env.GetString("OTEL_COLLECTOR_URL", ""),
		MetricsAddr:      env.GetString("METRICS_ADDR", ""),

		InputPath:      env.GetString("INPUT_PATH", ""),
		PublishWorkers: env.GetInt("PUBLISH_WORKERS", 4),

		NATSURL:         env.GetString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: env.GetDuration("NATS_CONN_TIMEOUT", 10*time.Second),
		RawSubject:      env.GetString("RAW_SUBJECT", "jobs.raw"),
	}

	if config.InputPath == "" {
		return nil, fmt.Errorf("INPUT_PATH is required")
	}
	if config.PublishWorkers < 1 {
		config.PublishWorkers = 1
	}

	return config, nil
}
