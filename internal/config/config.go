package config

import (
	"os"
	"strconv"
)

type Config struct {
	ListenAddr    string
	DBPath        string
	PhotoBackend  string
	PhotoPath     string
	PhotoMaxDim   int
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	SessionSecret string
	AuthHeader    string
	AuthLoginURL  string
	AuthDevUser   string
	LogLevel      string
	LogFile       string
}

func Load() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		DBPath:        getEnv("DB_PATH", "/data/travelwish.db"),
		PhotoBackend:  getEnv("PHOTO_BACKEND", "local"),
		PhotoPath:     getEnv("PHOTO_LOCAL_PATH", "/data/photos"),
		PhotoMaxDim:   getEnvInt("PHOTO_MAX_DIMENSION", 2048),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		AuthHeader:    getEnv("AUTH_HEADER", "X-Forwarded-User"),
		AuthLoginURL:  getEnv("AUTH_LOGIN_URL", "/oauth2/sign_in"),
		AuthDevUser:   getEnv("AUTH_DEV_USER", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// getEnvInt falls back to defaultVal when the variable is unset or not a
// positive integer.
func getEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
