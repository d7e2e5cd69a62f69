package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	LLM      LLMConfig
	Advisor  AdvisorConfig
	Charts   ChartsConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// LLMConfig selects exactly one backend at process start. Provider is one of
// "ollama", "openai" or "gemini"; anything else falls back to ollama.
type LLMConfig struct {
	Provider      string
	OllamaBaseURL string
	OllamaModel   string
	OllamaTimeout time.Duration
	OpenAIAPIKey  string
	OpenAITimeout time.Duration
	GeminiAPIKey  string
	GeminiTimeout time.Duration
}

// AdvisorConfig holds the prompt-budget thresholds. TokenCeiling gates
// truncation of the transaction listing, TruncationWindow is the number of
// most-recent lines kept when over the ceiling, and CompactRecentWindow is the
// listing size used by the compact (hosted-provider) prompt.
type AdvisorConfig struct {
	TokenCeiling        int
	TruncationWindow    int
	CompactRecentWindow int
}

type ChartsConfig struct {
	Dir string
}

func Load() (*Config, error) {
	// .env is optional; environment variables alone are fine for Docker/K8s.
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	ollamaTimeout, _ := strconv.Atoi(getEnv("OLLAMA_TIMEOUT", "240"))
	openaiTimeout, _ := strconv.Atoi(getEnv("OPENAI_TIMEOUT", "60"))
	geminiTimeout, _ := strconv.Atoi(getEnv("GEMINI_TIMEOUT", "60"))
	tokenCeiling, _ := strconv.Atoi(getEnv("ADVISOR_TOKEN_CEILING", "7500"))
	truncationWindow, _ := strconv.Atoi(getEnv("ADVISOR_TRUNCATION_WINDOW", "600"))
	recentWindow, _ := strconv.Atoi(getEnv("ADVISOR_COMPACT_RECENT_WINDOW", "20"))

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			BaseURL:      getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "expense_advisor"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		LLM: LLMConfig{
			Provider:      getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "gemma3:1b"),
			OllamaTimeout: time.Duration(ollamaTimeout) * time.Second,
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAITimeout: time.Duration(openaiTimeout) * time.Second,
			GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
			GeminiTimeout: time.Duration(geminiTimeout) * time.Second,
		},
		Advisor: AdvisorConfig{
			TokenCeiling:        tokenCeiling,
			TruncationWindow:    truncationWindow,
			CompactRecentWindow: recentWindow,
		},
		Charts: ChartsConfig{
			Dir: getEnv("CHARTS_DIR", "static"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate catches configuration that would otherwise only fail deep inside a
// request.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port '%s': must be a number", c.Server.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.Advisor.TokenCeiling <= 0 {
		return fmt.Errorf("invalid token ceiling %d: must be positive", c.Advisor.TokenCeiling)
	}
	if c.Advisor.TruncationWindow <= 0 {
		return fmt.Errorf("invalid truncation window %d: must be positive", c.Advisor.TruncationWindow)
	}
	if c.Advisor.CompactRecentWindow <= 0 {
		return fmt.Errorf("invalid compact recent window %d: must be positive", c.Advisor.CompactRecentWindow)
	}
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER is openai but OPENAI_API_KEY is empty")
		}
	case "gemini":
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER is gemini but GEMINI_API_KEY is empty")
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
