package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"resume-editor/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	DatabaseURL     string
	SQLitePath      string
	RedisURL        string
	Env             string
	JWTSecret       string

	// Editing sessions.
	AutosaveDelay      time.Duration
	SaveTimeout        time.Duration
	SessionIdleTTL     time.Duration
	SessionReaperSpec  string
	ProjectionCacheTTL time.Duration
	ProjectionCacheMax int

	// TemplateCatalog optionally points at a YAML file replacing the built-in template catalog.
	TemplateCatalog string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:        dbURL,
		SQLitePath:         getEnv("SQLITE_PATH", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		Env:                env,
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AutosaveDelay:      getDuration("AUTOSAVE_DELAY", 3*time.Second),
		SaveTimeout:        getDuration("SAVE_TIMEOUT", 10*time.Second),
		SessionIdleTTL:     getDuration("EDIT_SESSION_TTL", 30*time.Minute),
		SessionReaperSpec:  getEnv("EDIT_SESSION_REAPER", "@every 1m"),
		ProjectionCacheTTL: getDuration("PROJECTION_CACHE_TTL", 10*time.Minute),
		ProjectionCacheMax: getInt("PROJECTION_CACHE_MAX", 512),
		TemplateCatalog:    getEnv("TEMPLATE_CATALOG", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw})
		return def
	}
	return d
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw})
		return def
	}
	return n
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

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
