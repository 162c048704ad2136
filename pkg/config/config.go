package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Classifier ClassifierConfig
	Search     SearchConfig
	Extractor  ExtractorConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
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

// AuthConfig holds the static API key clients must present. The service is
// single-tenant; there are no user accounts.
type AuthConfig struct {
	APIKey string
}

// ClassifierConfig configures the chat-messages classification endpoint.
// Attivita is the recipient's own declared business activity, invariant
// across a run and sent with every classification request.
type ClassifierConfig struct {
	URL         string
	APIKey      string
	User        string
	Attivita    string
	Concurrency int
}

// SearchConfig configures the supplier question-answering provider. When
// Enabled is false no supplier context is resolved and classification
// requests omit the info_fornitore input.
type SearchConfig struct {
	URL     string
	APIKey  string
	Enabled bool
}

// ExtractorConfig controls how the supplier locality chain (Sede -> Comune)
// behaves. With LocalityRequired an absent step fails extraction; otherwise
// the locality stays empty. ResolveLocality mirrors SUPPLIER_LOOKUP_ENABLED:
// when the supplier lookup is off the chain is never walked at all.
type ExtractorConfig struct {
	ResolveLocality  bool
	LocalityRequired bool
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine, environment variables are used directly
	// (useful for Docker/K8s)

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	concurrency, _ := strconv.Atoi(getEnv("CLASSIFIER_CONCURRENCY", "1"))
	if concurrency < 1 {
		concurrency = 1
	}
	lookupEnabled := getEnv("SUPPLIER_LOOKUP_ENABLED", "true") == "true"
	localityRequired := getEnv("SUPPLIER_LOCALITY_REQUIRED", "false") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "contai"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Classifier: ClassifierConfig{
			URL:         getEnv("CLASSIFIER_URL", "http://localhost/v1/chat-messages"),
			APIKey:      getEnv("CLASSIFIER_API_KEY", ""),
			User:        getEnv("CLASSIFIER_USER", "ContAI"),
			Attivita:    getEnv("ATTIVITA_SVOLTA", ""),
			Concurrency: concurrency,
		},
		Search: SearchConfig{
			URL:     getEnv("SEARCH_URL", ""),
			APIKey:  getEnv("SEARCH_API_KEY", ""),
			Enabled: lookupEnabled,
		},
		Extractor: ExtractorConfig{
			ResolveLocality:  lookupEnabled,
			LocalityRequired: localityRequired,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
