package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string
	JWTSecret       string
	GroqAPIKey      string
	UploadDir       string
	Engine          EngineConfig
}

// EngineConfig describes how the external processing engine is invoked.
type EngineConfig struct {
	Python        string
	Dir           string
	Timeout       time.Duration
	MaxConcurrent int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "5000"),
		Env:             env,
		DatabaseURL:     dbURL,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		Engine: EngineConfig{
			Python:        getEnv("ENGINE_PYTHON", "python3"),
			Dir:           getEnv("ENGINE_DIR", "./rag_engine"),
			Timeout:       getEnvDuration("ENGINE_TIMEOUT", 10*time.Minute),
			MaxConcurrent: getEnvInt("ENGINE_MAX_CONCURRENT", 4),
		},
	}
}

// IngestScript returns the path of the ingestion entrypoint.
func (e EngineConfig) IngestScript() string {
	return filepath.Join(e.Dir, "document_ingestor.py")
}

// QueryScript returns the path of the query entrypoint.
func (e EngineConfig) QueryScript() string {
	return filepath.Join(e.Dir, "query_faiss.py")
}

// ChunksDir returns the directory the engine writes chunk artifacts into.
func (e EngineConfig) ChunksDir() string {
	return filepath.Join(e.Dir, "data", "chunks")
}

// IndexPath returns the location of the retrieval index.
func (e EngineConfig) IndexPath() string {
	return filepath.Join(e.Dir, "data", "index.faiss")
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
