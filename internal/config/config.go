package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the coflow service
type Config struct {
	// Server configuration
	HTTPPort int    `env:"COFLOW_HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock data source configuration
	Source SourceConfig

	// Workflow timing configuration
	Workflows WorkflowConfig

	// Output channel configuration
	Channels ChannelConfig

	// Worker configuration
	Workers WorkerConfig

	// History configuration
	HistoryLimit int `env:"COFLOW_HISTORY_LIMIT" envDefault:"64"`

	// Timeouts
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"10s"`
}

// SourceConfig holds simulated latencies of the mock data source
type SourceConfig struct {
	FetchLatency time.Duration `env:"SOURCE_FETCH_LATENCY" envDefault:"1s"`
	RetryBackoff time.Duration `env:"SOURCE_RETRY_BACKOFF" envDefault:"500ms"`
}

// WorkflowConfig holds the timing knobs of the orchestrated workflows
type WorkflowConfig struct {
	BasicLaunchDelay  time.Duration `env:"WORKFLOW_BASIC_LAUNCH_DELAY" envDefault:"1s"`
	RetryAttempts     int           `env:"WORKFLOW_RETRY_ATTEMPTS" envDefault:"3"`
	RetryBackoff      time.Duration `env:"WORKFLOW_RETRY_BACKOFF" envDefault:"500ms"`
	LongTaskSteps     int           `env:"WORKFLOW_LONG_TASK_STEPS" envDefault:"5"`
	LongTaskStepDelay time.Duration `env:"WORKFLOW_LONG_TASK_STEP_DELAY" envDefault:"1s"`
	TimeoutBound      time.Duration `env:"WORKFLOW_TIMEOUT_BOUND" envDefault:"3s"`
	TimeoutWork       time.Duration `env:"WORKFLOW_TIMEOUT_WORK" envDefault:"4s"`
	ChainDelay        time.Duration `env:"WORKFLOW_CHAIN_DELAY" envDefault:"500ms"`
	DebounceWindow    time.Duration `env:"WORKFLOW_DEBOUNCE_WINDOW" envDefault:"300ms"`
}

// ChannelConfig holds buffer sizes for the output channels
type ChannelConfig struct {
	BroadcastBuffer int `env:"CHANNEL_BROADCAST_BUFFER" envDefault:"16"`
	QueueBuffer     int `env:"CHANNEL_QUEUE_BUFFER" envDefault:"0"`
}

// WorkerConfig holds worker pool configuration
type WorkerConfig struct {
	PoolSize            int           `env:"WORKER_POOL_SIZE" envDefault:"8"`
	QueueDepth          int           `env:"WORKER_QUEUE_DEPTH" envDefault:"16"`
	HealthCheckInterval time.Duration `env:"WORKER_HEALTH_CHECK_INTERVAL" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.Workflows.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	if c.Workflows.LongTaskSteps < 1 {
		return fmt.Errorf("long task must have at least 1 step")
	}
	if c.Workflows.TimeoutBound <= 0 || c.Workflows.TimeoutWork <= 0 {
		return fmt.Errorf("timeout bound and work duration must be positive")
	}

	if c.Channels.BroadcastBuffer < 1 {
		return fmt.Errorf("broadcast buffer must be at least 1")
	}
	if c.Channels.QueueBuffer < 0 {
		return fmt.Errorf("queue buffer must not be negative")
	}

	if c.Workers.PoolSize < 1 {
		return fmt.Errorf("worker pool size must be at least 1")
	}

	if c.HistoryLimit < 1 {
		return fmt.Errorf("history limit must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
