package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	MongoURI             string
	MongoDBName          string
	JWTSecret            string
	JWTIssuer            string
	UploadDir            string
	MetricsDiskPath      string
	MetricsSampleSeconds int
	MetricsHistoryLimit  int
	CorsOrigins          []string
}

func Load() Config {
	return Config{
		MongoURI:             mustEnv("MONGODB_URI"),
		MongoDBName:          envOr("MONGODB_DB_NAME", "fitness_platform"),
		JWTSecret:            mustEnv("JWT_SECRET"),
		JWTIssuer:            envOr("JWT_ISSUER", "run2rejuvenate"),
		UploadDir:            envOr("UPLOAD_DIR", "uploads/photos"),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", "uploads"),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 5),
		MetricsHistoryLimit:  envOrInt("METRICS_HISTORY_LIMIT", 120),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
	}
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
