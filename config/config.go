package config

import (
	"github.com/joho/godotenv"
	"log/slog"
	"os"
	"strconv"
)

type Config struct {
	// Remote source selection: "smb" (default) or "s3".
	SourceBackend string

	// SMB share connection.
	SMBServer   string
	SMBShare    string
	SMBUser     string
	SMBPassword string
	SMBDomain   string

	// S3-compatible source.
	ApiURL     string
	AccessKey  string
	SecretKey  string
	BucketName string
	Region     string

	// Ingestion endpoint.
	PostURL              string
	CFAccessClientID     string
	CFAccessClientSecret string
	HTTPTimeoutSeconds   int

	// Watermark persistence. Empty means a file next to the executable.
	WatermarkFile string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		SourceBackend:        getEnv("SOURCE_BACKEND", "smb"),
		SMBServer:            getEnv("SMB_SERVER", ""),
		SMBShare:             getEnv("SMB_SHARE", ""),
		SMBUser:              getEnv("SMB_USER", ""),
		SMBPassword:          getEnv("SMB_PASSWORD", ""),
		SMBDomain:            getEnv("SMB_DOMAIN", ""),
		ApiURL:               getEnv("API_URL", ""),
		AccessKey:            getEnv("ACCESS_KEY", ""),
		SecretKey:            getEnv("SECRET_KEY", ""),
		BucketName:           getEnv("BUCKET_NAME", ""),
		Region:               getEnv("REGION", ""),
		PostURL:              getEnv("POST_URL", ""),
		CFAccessClientID:     getEnv("CF_ACCESS_CLIENT_ID", ""),
		CFAccessClientSecret: getEnv("CF_ACCESS_CLIENT_SECRET", ""),
		HTTPTimeoutSeconds:   getEnvInt("HTTP_TIMEOUT_SECONDS", 60),
		WatermarkFile:        getEnv("WATERMARK_FILE", ""),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment variable, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}
