package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// StoreBackend selects the progress store implementation.
type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StorePostgres StoreBackend = "postgres"
	StoreRedis    StoreBackend = "redis"
)

// LLMConfig holds provider selection and credentials for the AI generator.
type LLMConfig struct {
	Provider        string
	Model           string
	AnthropicAPIKey string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	CLIPath         string
}

// Config is the full server configuration, built from the environment.
type Config struct {
	Port         string
	CORSOrigins  []string
	StoreBackend StoreBackend

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RabbitMQURL   string

	JWTSecret string

	QuizWindowSize   int
	QuizMinQuestions int
	QuizMaxQuestions int

	LLM LLMConfig
}

// Load reads configuration from the environment, after a best-effort .env
// load. Missing values fall back to development defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using environment")
	}

	cfg := &Config{
		Port:         envOr("PORT", "8080"),
		CORSOrigins:  splitCSV(envOr("CORS_ORIGINS", "*")),
		StoreBackend: StoreBackend(envOr("STORE_BACKEND", string(StoreMemory))),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntOr("REDIS_DB", 0),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),

		JWTSecret: envOr("JWT_SECRET", "nayi-disha-dev-signing-key"),

		QuizWindowSize:   envIntOr("QUIZ_WINDOW_SIZE", 3),
		QuizMinQuestions: envIntOr("QUIZ_MIN_QUESTIONS", 10),
		QuizMaxQuestions: envIntOr("QUIZ_MAX_QUESTIONS", 20),

		LLM: LLMConfig{
			Provider:        os.Getenv("LLM_PROVIDER"),
			Model:           os.Getenv("LLM_MODEL"),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			CLIPath:         envOr("CLAUDE_CLI_PATH", "claude"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		// DATABASE_URL is optional — discrete DB_* vars are also accepted.
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: must be memory, postgres, or redis", c.StoreBackend)
	}

	if c.QuizWindowSize < 1 {
		return fmt.Errorf("QUIZ_WINDOW_SIZE must be at least 1, got %d", c.QuizWindowSize)
	}
	if c.QuizMinQuestions < 1 || c.QuizMaxQuestions < c.QuizMinQuestions {
		return fmt.Errorf("quiz bounds invalid: min=%d max=%d", c.QuizMinQuestions, c.QuizMaxQuestions)
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("[config] WARN: %s=%q is not an integer, using %d", key, s, fallback)
		return fallback
	}
	return v
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
