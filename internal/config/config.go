package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"startup-sim/internal/utils"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the simulation server.
type Config struct {
	// Server settings
	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Env      string `envconfig:"ENV" default:"development"`

	// Comma-separated list of allowed CORS origins.
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Session settings. The engine is single-session by design; the
	// session ID only namespaces the persisted state key.
	SessionID string `envconfig:"SESSION_ID" default:"default"`

	// Redis settings (state persistence)
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	StateKeyPrefix string `envconfig:"STATE_KEY_PREFIX" default:"startup_sim:state"`
	// Secret field WITHOUT an envconfig tag
	RedisPassword string

	// AI settings (Scenario Oracle backend)
	AIProvider string        `envconfig:"AI_PROVIDER" default:"openai"` // openai or ollama
	AIBaseURL  string        `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AIModel    string        `envconfig:"AI_MODEL" default:"deepseek/deepseek-chat"`
	AITimeout  time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	// Secret field WITHOUT an envconfig tag
	AIAPIKey string

	// Simulation settings
	SurpriseEventChance float64 `envconfig:"SURPRISE_EVENT_CHANCE" default:"0.1"`
}

// GetAllowedOrigins splits the configured CORS origins list.
func (c *Config) GetAllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// LoadConfig loads the configuration from environment variables and secrets.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.SurpriseEventChance < 0 || cfg.SurpriseEventChance > 1 {
		return nil, fmt.Errorf("SURPRISE_EVENT_CHANCE must be within [0,1], got %v", cfg.SurpriseEventChance)
	}

	// The AI key is mandatory for the openai provider; ollama runs locally
	// without one.
	var loadErr error
	if cfg.AIProvider == "openai" {
		cfg.AIAPIKey, loadErr = utils.ReadSecret("ai_api_key")
		if loadErr != nil {
			return nil, loadErr
		}
	}

	cfg.RedisPassword, loadErr = utils.ReadOptionalSecret("redis_password")
	if loadErr != nil {
		return nil, loadErr
	}

	log.Printf("Configuration loaded (secrets from files):")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  Env: %s", cfg.Env)
	log.Printf("  Session ID: %s", cfg.SessionID)
	log.Printf("  Redis Addr: %s (db %d)", cfg.RedisAddr, cfg.RedisDB)
	log.Printf("  State Key Prefix: %s", cfg.StateKeyPrefix)
	log.Printf("  AI Provider: %s", cfg.AIProvider)
	log.Printf("  AI Base URL: %s", cfg.AIBaseURL)
	log.Printf("  AI Model: %s", cfg.AIModel)
	log.Printf("  AI Timeout: %v", cfg.AITimeout)
	log.Printf("  Surprise Event Chance: %v", cfg.SurpriseEventChance)
	if cfg.AIAPIKey != "" {
		log.Println("  AI API Key: [LOADED]")
	}

	return &cfg, nil
}
