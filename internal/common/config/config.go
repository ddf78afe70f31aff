package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  []string

	// Projects service
	DBPath         string
	MigrationsPath string
	UploadsDir     string
	MaxUploadMB    int

	// Image import
	ImportCanvasWidth  float64
	ImportCanvasHeight float64
	ImportScale        float64

	// Gateway / editor
	ProjectsURL  string
	ProxyTimeout int
	OpenAPIPath  string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 30),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),

		DBPath:         getEnv("DB_PATH", "data/db/projects.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_init_projects.sql"),
		UploadsDir:     getEnv("UPLOADS_DIR", "data/uploads"),
		MaxUploadMB:    getEnvAsInt("MAX_UPLOAD_MB", 20),

		ImportCanvasWidth:  getEnvAsFloat("IMPORT_CANVAS_WIDTH", 1200),
		ImportCanvasHeight: getEnvAsFloat("IMPORT_CANVAS_HEIGHT", 900),
		ImportScale:        getEnvAsFloat("IMPORT_SCALE", 0.4),

		ProjectsURL:  getEnv("PROJECTS_URL", "http://localhost:3001"),
		ProxyTimeout: getEnvAsInt("PROXY_TIMEOUT", 90),
		OpenAPIPath:  getEnv("OPENAPI_PATH", "docs/projects.openapi.yaml"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
