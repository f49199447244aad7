package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds the full runtime configuration of both binaries.
// Values come from flags, then environment, then defaults.
type Config struct {
	Port     int
	LogLevel string

	DB          DB
	TariffStore TariffStore
	Classifier  Classifier
	Kafka       Kafka
	RateLimit   RateLimit
	Pprof       Pprof
}

// DB is the Postgres connection configuration.
type DB struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// TariffStore configures the external spreadsheet-backed tariff store.
type TariffStore struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Retry bounds the classifier retry policy.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Classifier selects and configures the classification provider.
// Provider is one of "keyword", "gemini", "tnved-api".
type Classifier struct {
	Provider string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	TNVEDAPIKey  string
	TNVEDBaseURL string

	CacheSize int
	Retry     Retry
}

// Kafka configures the quote-request consumer of the worker binary.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// RateLimit configures the per-client token bucket on the HTTP API.
type RateLimit struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// Pprof configures the private diagnostics listener.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Load reads .env if present, then builds the configuration from flags and
// environment variables. Flags win over environment.
func Load(args []string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	fs := pflag.NewFlagSet("logihub", pflag.ContinueOnError)
	port := fs.Int("port", 0, "HTTP listen port")
	logLevel := fs.String("log-level", "", "log level (debug|info|warn|error)")
	envFile := fs.String("env-file", "", "extra env file to load")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	if *envFile != "" {
		if err := godotenv.Overload(*envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", *envFile, err)
		}
	}

	applyEnv(&cfg)

	if *port != 0 {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envInt("PORT", &cfg.Port)
	envStr("LOG_LEVEL", &cfg.LogLevel)

	envStr("DB_HOST", &cfg.DB.Host)
	envInt("DB_PORT", &cfg.DB.Port)
	envStr("DB_USER", &cfg.DB.User)
	envStr("DB_PASSWORD", &cfg.DB.Password)
	envStr("DB_NAME", &cfg.DB.Name)
	envStr("DB_SSLMODE", &cfg.DB.SSLMode)

	envStr("TARIFF_STORE_URL", &cfg.TariffStore.BaseURL)
	envStr("TARIFF_STORE_TOKEN", &cfg.TariffStore.Token)
	envDur("TARIFF_STORE_TIMEOUT", &cfg.TariffStore.Timeout)

	envStr("CLASSIFIER_PROVIDER", &cfg.Classifier.Provider)
	envStr("GEMINI_API_KEY", &cfg.Classifier.GeminiAPIKey)
	envStr("GEMINI_BASE_URL", &cfg.Classifier.GeminiBaseURL)
	envStr("GEMINI_MODEL", &cfg.Classifier.GeminiModel)
	envStr("TNVED_API_KEY", &cfg.Classifier.TNVEDAPIKey)
	envStr("TNVED_BASE_URL", &cfg.Classifier.TNVEDBaseURL)
	envInt("CLASSIFIER_CACHE_SIZE", &cfg.Classifier.CacheSize)
	envInt("CLASSIFIER_RETRY_ATTEMPTS", &cfg.Classifier.Retry.MaxAttempts)
	envDur("CLASSIFIER_RETRY_BASE_DELAY", &cfg.Classifier.Retry.BaseDelay)
	envDur("CLASSIFIER_RETRY_MAX_DELAY", &cfg.Classifier.Retry.MaxDelay)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	envStr("KAFKA_TOPIC", &cfg.Kafka.Topic)
	envStr("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)

	envBool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	envFloat("RATE_LIMIT_RPS", &cfg.RateLimit.RPS)
	envInt("RATE_LIMIT_BURST", &cfg.RateLimit.Burst)

	envBool("PPROF_ENABLED", &cfg.Pprof.Enabled)
	envStr("PPROF_ADDR", &cfg.Pprof.Addr)
	envStr("PPROF_USER", &cfg.Pprof.User)
	envStr("PPROF_PASS", &cfg.Pprof.Pass)
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	switch c.Classifier.Provider {
	case ProviderKeyword, ProviderGemini, ProviderTNVEDAPI:
	default:
		return fmt.Errorf("unknown classifier provider %q", c.Classifier.Provider)
	}
	if c.Classifier.Provider == ProviderGemini && c.Classifier.GeminiAPIKey == "" {
		return fmt.Errorf("gemini provider requires GEMINI_API_KEY")
	}
	if c.Classifier.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envDur(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
