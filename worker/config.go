package worker

import (
	"time"

	"github.com/domino14/guobiao/config"
)

// WorkerConfig holds configuration for the scoring worker
type WorkerConfig struct {
	// Base URL of the job queue service
	QueueURL string

	// API key sent with every request
	APIKey string

	// How often to poll for new jobs when idle
	PollInterval time.Duration

	// How often to send heartbeats while processing
	HeartbeatInterval time.Duration

	// Attempts made to submit a result before giving up
	SubmitAttempts uint

	// Configuration for the analyzer
	Config *config.Config
}

// WorkerConfigFrom reads the worker keys of cfg.
func WorkerConfigFrom(cfg *config.Config) *WorkerConfig {
	return &WorkerConfig{
		QueueURL:          cfg.GetString(config.ConfigWorkerURL),
		APIKey:            cfg.GetString(config.ConfigWorkerAPIKey),
		PollInterval:      cfg.GetDuration(config.ConfigWorkerPollInterval),
		HeartbeatInterval: cfg.GetDuration(config.ConfigWorkerHeartbeatInterval),
		SubmitAttempts:    5,
		Config:            cfg,
	}
}

// DefaultWorkerConfig creates a WorkerConfig from the default configuration
// plus the environment.
func DefaultWorkerConfig() *WorkerConfig {
	return WorkerConfigFrom(config.DefaultConfig())
}
