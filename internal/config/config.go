package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker" validate:"required"`
}

// Process roles selectable with server.mode.
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Mode selects which roles this process runs: the HTTP API, the task
	// poller, or both.
	Mode string `mapstructure:"mode" validate:"required,oneof=all api worker"`
}

// RunsAPI reports whether the HTTP API should be served.
func (c ServerConfig) RunsAPI() bool {
	return c.Mode == ModeAll || c.Mode == ModeAPI
}

// RunsWorker reports whether the task poller should run.
func (c ServerConfig) RunsWorker() bool {
	return c.Mode == ModeAll || c.Mode == ModeWorker
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	// AutoMigrate applies pending migrations at startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// LLMConfig contains the Gemini generator settings.
// The API key is checked when the generator is built, since API-only
// processes never call the model.
type LLMConfig struct {
	GeminiAPIKey      string  `mapstructure:"gemini_api_key"`
	ModelName         string  `mapstructure:"model_name" validate:"required"`
	Temperature       float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"gte=1"`
	// RequestsPerMinute throttles outbound model calls. Zero disables throttling.
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=0"`
}

// WorkerConfig contains the task poller settings.
type WorkerConfig struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" validate:"gte=1"`
	// Instances is the number of independent sequential poll loops in this process.
	Instances int `mapstructure:"instances" validate:"gte=1,lte=64"`
	// StaleTaskMinutes is how long a task may stay processing before it is
	// returned to pending. Zero disables reclaiming.
	StaleTaskMinutes          int `mapstructure:"stale_task_minutes" validate:"gte=0"`
	StaleCheckIntervalSeconds int `mapstructure:"stale_check_interval_seconds" validate:"gte=1"`
	// TaskTimeoutSeconds bounds one generation call.
	TaskTimeoutSeconds int `mapstructure:"task_timeout_seconds" validate:"gte=1"`
}

// PollInterval returns the delay between empty polls.
func (c WorkerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// StaleTaskAge returns the reclaim threshold; zero means disabled.
func (c WorkerConfig) StaleTaskAge() time.Duration {
	return time.Duration(c.StaleTaskMinutes) * time.Minute
}

// StaleCheckInterval returns how often stale claims are looked for.
func (c WorkerConfig) StaleCheckInterval() time.Duration {
	return time.Duration(c.StaleCheckIntervalSeconds) * time.Second
}

// TaskTimeout returns the generation deadline for a single task.
func (c WorkerConfig) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutSeconds) * time.Second
}
