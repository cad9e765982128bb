package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by AUGSELF_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("AUGSELF_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// MigrationsPath returns a directory of .sql files to apply instead of the
// embedded migrations. Empty means embedded.
func MigrationsPath() string {
	return os.Getenv("MIGRATIONS_PATH")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func CerebrasAPIKey() string {
	return os.Getenv("CEREBRAS_API_KEY")
}

// LLMProvider returns the configured LLM provider.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, gemini, cerebras, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// LLMModel returns the model override. Empty selects the provider default.
func LLMModel() string {
	return os.Getenv("LLM_MODEL")
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "gemini":
		return GeminiAPIKey()
	case "cerebras":
		return CerebrasAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// LLMTimeout bounds a single completion attempt. Defaults to 30s.
func LLMTimeout() time.Duration {
	return durationOr("LLM_TIMEOUT", 30*time.Second)
}

// LLMMaxRetries is the number of retries after a failed completion.
// Defaults to 1. Zero disables retries.
func LLMMaxRetries() int {
	n, err := strconv.Atoi(os.Getenv("LLM_MAX_RETRIES"))
	if err != nil || n < 0 {
		return 1
	}
	return n
}

func LLMMaxTokens() int {
	n, err := strconv.Atoi(os.Getenv("LLM_MAX_TOKENS"))
	if err != nil || n <= 0 {
		return 2000
	}
	return n
}

func LLMTemperature() float64 {
	t, err := strconv.ParseFloat(os.Getenv("LLM_TEMPERATURE"), 64)
	if err != nil || t < 0 || t > 2 {
		return 0.7
	}
	return t
}

// JournalMaxChars caps journal content sent to the model, in characters.
func JournalMaxChars() int {
	n, err := strconv.Atoi(os.Getenv("JOURNAL_MAX_CHARS"))
	if err != nil || n <= 0 {
		return 3000
	}
	return n
}

func JWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

// TokenTTL is the lifetime of issued access tokens. Defaults to 30 days.
func TokenTTL() time.Duration {
	return durationOr("TOKEN_TTL", 720*time.Hour)
}

// NATSURL returns the NATS server URL. Empty disables event publishing.
func NATSURL() string {
	return os.Getenv("NATS_URL")
}

func NATSToken() string {
	return os.Getenv("NATS_TOKEN")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

func durationOr(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
