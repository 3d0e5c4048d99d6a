package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config is centralized process configuration. Values come from the
// environment under the COPANY_ prefix; keep infra values here and pass
// typed config into builders.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"copany"`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	// ZeroScorePolicy selects how a month with revenue but no scored work
	// is split: owner_takes_all or baseline_split.
	ZeroScorePolicy string `envconfig:"ZERO_SCORE_POLICY" default:"owner_takes_all"`

	// WorkerInterval is how often the historical recompute job sweeps all
	// copanies, in minutes.
	WorkerIntervalMinutes int `envconfig:"WORKER_INTERVAL_MINUTES" default:"60"`

	// OutboxBatchSize caps how many pending events one relay pass drains.
	OutboxBatchSize int `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`

	// LockTTLSeconds bounds how long a crashed recompute can hold a copany
	// lease before another process may reclaim it.
	LockTTLSeconds int `envconfig:"LOCK_TTL_SECONDS" default:"120"`
}

const envPrefix = "COPANY"

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config from environment: %w", err)
	}
	cfg.ZeroScorePolicy = strings.ToLower(strings.TrimSpace(cfg.ZeroScorePolicy))
	switch cfg.ZeroScorePolicy {
	case "owner_takes_all", "baseline_split":
	default:
		return Config{}, fmt.Errorf("unknown zero score policy %q", cfg.ZeroScorePolicy)
	}
	return cfg, nil
}
