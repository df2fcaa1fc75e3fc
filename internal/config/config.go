package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Vault    VaultConfig
	Reveal   RevealConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port                string
	Environment         string
	LogFilePath         string
	SecurityLogFilePath string
	CorsAllowedOrigins  string
	NatsURL             string
	NatsEnabled         bool
	RedisURL            string
}

type DatabaseConfig struct {
	Connection string
}

// VaultConfig configures master key derivation. Salt is deployment-scoped:
// changing it makes every previously wrapped session key unrecoverable.
type VaultConfig struct {
	Secret string
	Salt   string
}

// RevealConfig bounds the per-session decrypt budget.
type RevealConfig struct {
	MaxAttempts int
	WindowHours int
}

type ChatConfig struct {
	ContextWindow        int
	TopK                 int
	TranscriptBackend    string // "memory" or "redis"
	TranscriptTTLMinutes int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                getEnv("APP_PORT", "3000"),
			Environment:         getEnv("GO_ENV", "development"),
			LogFilePath:         getEnv("LOG_FILE_PATH", "logs/app.log"),
			SecurityLogFilePath: getEnv("SECURITY_LOG_FILE_PATH", "logs/security.log"),
			CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:             getEnv("NATS_URL", "nats://localhost:4222"),
			NatsEnabled:         getEnvAsBool("NATS_ENABLED", false),
			RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Vault: VaultConfig{
			Secret: getEnv("VAULT_SECRET", ""),
			Salt:   getEnv("VAULT_SALT", "pii-vault-v1"),
		},
		Reveal: RevealConfig{
			MaxAttempts: getEnvAsInt("REVEAL_MAX_ATTEMPTS", 3),
			WindowHours: getEnvAsInt("REVEAL_WINDOW_HOURS", 1),
		},
		Chat: ChatConfig{
			ContextWindow:        getEnvAsInt("CHAT_CONTEXT_WINDOW", 200),
			TopK:                 getEnvAsInt("CHAT_TOP_K", 5),
			TranscriptBackend:    getEnv("CHAT_TRANSCRIPT_BACKEND", "memory"),
			TranscriptTTLMinutes: getEnvAsInt("CHAT_TRANSCRIPT_TTL_MINUTES", 120),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
