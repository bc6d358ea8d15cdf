package config

import (
	"fmt"
	"time"

	env "dsjobs/common/config"
	"dsjobs/services/processing/internal/cleaner"
)

// FailurePolicy decides what happens to a record with underivable fields.
type FailurePolicy string

const (
	// PolicySkip drops the record and emits a rejection per failed field.
	PolicySkip FailurePolicy = "skip"
	// PolicyNullFill stores the record with the failed fields null and still emits rejections.
	PolicyNullFill FailurePolicy = "nullfill"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case PolicySkip, PolicyNullFill:
		return p, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (want %s or %s)", s, PolicySkip, PolicyNullFill)
	}
}

type Config struct {
	LogDevelopment   bool
	OTELCollectorURL string
	MetricsAddr      string

	NATSURL         string
	NATSConnTimeout time.Duration
	RawSubject      string
	RejectSubject   string
	QueueGroup      string

	ClickHouseDSN          string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	BatchSize         int
	BatchWait         time.Duration
	Workers           int
	ProcessingTimeout time.Duration

	CurrentYear   int
	RulesFile     string
	FailurePolicy FailurePolicy
}

// LoadConfig reads the environment (after ENV_FILE, default ".env"). The current
// year defaults to the wall clock at load time; the cleaner itself never reads it.
func LoadConfig() (*Config, error) {
	if err := env.LoadDotEnv(env.GetString("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	policy, err := ParseFailurePolicy(env.GetString("FAILURE_POLICY", string(PolicySkip)))
	if err != nil {
		return nil, err
	}

	config := &Config{
		LogDevelopment:   env.GetBool("LOG_DEVELOPMENT", false),
		OTELCollectorURL: env.GetString("OTEL_COLLECTOR_URL", ""),
		MetricsAddr:      env.GetString("METRICS_ADDR", ":9102"),

		NATSURL:         env.GetString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: env.GetDuration("NATS_CONN_TIMEOUT", 10*time.Second),
		RawSubject:      env.GetString("RAW_SUBJECT", "jobs.raw"),
		RejectSubject:   env.GetString("REJECT_SUBJECT", "jobs.rejected"),
		QueueGroup:      env.GetString("QUEUE_GROUP", "processing-service"),

		ClickHouseDSN:          env.GetString("CLICKHOUSE_DSN", "localhost:9000"),
		ClickHouseMaxOpenConns: env.GetInt("CLICKHOUSE_MAX_OPEN_CONNS", 10),
		ClickHouseMaxIdleConns: env.GetInt("CLICKHOUSE_MAX_IDLE_CONNS", 5),
		ClickHouseConnMaxLife:  env.GetDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     env.GetString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     env.GetString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     env.GetString("CLICKHOUSE_DATABASE", "dsjobs"),

		RedisAddr:     env.GetString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: env.GetString("REDIS_PASSWORD", ""),
		RedisDB:       env.GetInt("REDIS_DB", 0),
		CacheTTL:      env.GetDuration("CACHE_TTL", 24*time.Hour),

		BatchSize:         env.GetInt("BATCH_SIZE", 100),
		BatchWait:         env.GetDuration("BATCH_WAIT", time.Second),
		Workers:           env.GetInt("WORKERS", 8),
		ProcessingTimeout: env.GetDuration("PROCESSING_TIMEOUT", 5*time.Minute),

		CurrentYear:   env.GetInt("CURRENT_YEAR", time.Now().Year()),
		RulesFile:     env.GetString("CLEANER_RULES_FILE", ""),
		FailurePolicy: policy,
	}

	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}

	return config, nil
}

// CleanerConfig builds the cleaner reference data: stock rules for CurrentYear,
// overlaid with RulesFile when one is set.
func (c *Config) CleanerConfig() (cleaner.Config, error) {
	return cleaner.ApplyRulesFile(c.RulesFile, cleaner.DefaultConfig(c.CurrentYear))
}
