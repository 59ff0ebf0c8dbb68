package config

import (
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type AppConfig struct {
	ListenAddr      string          `yaml:"listen_addr" env:"ITSM_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	AppEnv          string          `yaml:"app_env" env:"ITSM_APP_ENV"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" env:"ITSM_SHUTDOWN_TIMEOUT" env-default:"10s"`
	Storage         StorageConfig   `yaml:"storage"`
	Security        SecurityConfig  `yaml:"security"`
	Assistant       AssistantConfig `yaml:"assistant"`
	Reports         ReportsConfig   `yaml:"reports"`
	Events          EventsConfig    `yaml:"events"`
	Logging         LoggingConfig   `yaml:"logging"`
}

type StorageConfig struct {
	Driver   string `yaml:"driver" env:"ITSM_STORAGE_DRIVER" env-default:"memory"`
	URL      string `yaml:"url" env:"ITSM_STORAGE_URL"`
	SeedData bool   `yaml:"seed_data" env:"ITSM_STORAGE_SEED_DATA" env-default:"true"`
}

type SecurityConfig struct {
	EnforceRoles        bool     `yaml:"enforce_roles" env:"ITSM_SECURITY_ENFORCE_ROLES" env-default:"false"`
	DefaultRole         string   `yaml:"default_role" env:"ITSM_SECURITY_DEFAULT_ROLE" env-default:"user"`
	TrustedProxies      []string `yaml:"trusted_proxies" env:"ITSM_SECURITY_TRUSTED_PROXIES" env-separator:","`
	AssistantRatePerMin int      `yaml:"assistant_rate_per_min" env:"ITSM_SECURITY_ASSISTANT_RATE_PER_MIN" env-default:"20"`
	MaxPayloadBytes     int64    `yaml:"max_payload_bytes" env:"ITSM_SECURITY_MAX_PAYLOAD_BYTES" env-default:"1048576"`
}

type AssistantConfig struct {
	Provider string        `yaml:"provider" env:"ITSM_ASSISTANT_PROVIDER" env-default:"openai"`
	APIKey   string        `yaml:"api_key" env:"ITSM_ASSISTANT_API_KEY"`
	BaseURL  string        `yaml:"base_url" env:"ITSM_ASSISTANT_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model    string        `yaml:"model" env:"ITSM_ASSISTANT_MODEL" env-default:"gpt-3.5-turbo"`
	Timeout  time.Duration `yaml:"timeout" env:"ITSM_ASSISTANT_TIMEOUT" env-default:"30s"`
	Retries  int           `yaml:"retries" env:"ITSM_ASSISTANT_RETRIES" env-default:"1"`
}

type ReportsConfig struct {
	SimulatedDelay time.Duration `yaml:"simulated_delay" env:"ITSM_REPORTS_SIMULATED_DELAY" env-default:"0s"`
	Schedule       string        `yaml:"schedule" env:"ITSM_REPORTS_SCHEDULE"`
	OutputDir      string        `yaml:"output_dir" env:"ITSM_REPORTS_OUTPUT_DIR" env-default:"data/reports"`
	DefaultPeriod  string        `yaml:"default_period" env:"ITSM_REPORTS_DEFAULT_PERIOD" env-default:"month"`
	DefaultFormat  string        `yaml:"default_format" env:"ITSM_REPORTS_DEFAULT_FORMAT" env-default:"pdf"`
	Metrics        []string      `yaml:"metrics" env:"ITSM_REPORTS_METRICS" env-separator:"," env-default:"availability,incidents,resolution,satisfaction,sla,services"`
}

type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url" env:"ITSM_EVENTS_AMQP_URL"`
	Exchange string `yaml:"exchange" env:"ITSM_EVENTS_EXCHANGE" env-default:"itsm.records"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"ITSM_LOG_LEVEL" env-default:"info"`
	JSON  bool   `yaml:"json" env:"ITSM_LOG_JSON" env-default:"false"`
}

func (c *StorageConfig) EffectiveDriver() string {
	if c == nil {
		return DriverMemory
	}
	switch driver := strings.ToLower(strings.TrimSpace(c.Driver)); driver {
	case DriverSQLite, DriverPostgres:
		return driver
	case "sqlite3":
		return DriverSQLite
	case "pgx", "postgresql":
		return DriverPostgres
	default:
		return DriverMemory
	}
}

func (c *AssistantConfig) Configured() bool {
	return c != nil && strings.TrimSpace(c.APIKey) != ""
}

const (
	defaultAssistantTimeout = 30 * time.Second
	maxAssistantRetries     = 1
)

func (c *AssistantConfig) EffectiveTimeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return defaultAssistantTimeout
	}
	return c.Timeout
}

// EffectiveRetries caps retries at one extra attempt.
func (c *AssistantConfig) EffectiveRetries() int {
	if c == nil || c.Retries <= 0 {
		return 0
	}
	if c.Retries > maxAssistantRetries {
		return maxAssistantRetries
	}
	return c.Retries
}

func (c *AssistantConfig) EffectiveProvider() string {
	if c != nil && strings.EqualFold(strings.TrimSpace(c.Provider), ProviderGemini) {
		return ProviderGemini
	}
	return ProviderOpenAI
}
