package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	APP_ENV     string
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string

	ADMIN_USERNAME      string
	ADMIN_PASSWORD_HASH string
	ADMIN_EMAILS        []string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	STORAGE_DRIVER     string
	S3_BUCKET          string
	S3_REGION          string
	S3_ENDPOINT        string
	S3_ACCESS_KEY      string
	S3_SECRET_KEY      string
	S3_PUBLIC_BASE_URL string
	LOCAL_STORAGE_PATH string
	LOCAL_STORAGE_URL  string

	UPLOAD_COMPRESS  bool
	UPLOAD_MAX_WIDTH int
	UPLOAD_QUALITY   float64
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	APP_ENV = getEnv("APP_ENV", "development")
	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")

	ADMIN_USERNAME = getEnv("ADMIN_USERNAME", "admin")
	ADMIN_PASSWORD_HASH = getEnv("ADMIN_PASSWORD_HASH", "")
	ADMIN_EMAILS = splitList(getEnv("ADMIN_EMAILS", ""))

	// Google sign-in is optional; the routes answer 503 when unset.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	STORAGE_DRIVER = getEnv("STORAGE_DRIVER", "local")
	S3_BUCKET = getEnv("S3_BUCKET", "project-images")
	S3_REGION = getEnv("S3_REGION", "auto")
	S3_ENDPOINT = getEnv("S3_ENDPOINT", "")
	S3_ACCESS_KEY = getEnv("S3_ACCESS_KEY", "")
	S3_SECRET_KEY = getEnv("S3_SECRET_KEY", "")
	S3_PUBLIC_BASE_URL = getEnv("S3_PUBLIC_BASE_URL", "")
	LOCAL_STORAGE_PATH = getEnv("LOCAL_STORAGE_PATH", "./uploads")
	LOCAL_STORAGE_URL = getEnv("LOCAL_STORAGE_URL", "/files")

	UPLOAD_COMPRESS = getEnvBool("UPLOAD_COMPRESS", true)
	UPLOAD_MAX_WIDTH = getEnvInt("UPLOAD_MAX_WIDTH", 2400)
	UPLOAD_QUALITY = getEnvFloat("UPLOAD_QUALITY", 0.85)

	if STORAGE_DRIVER == "s3" && S3_ACCESS_KEY != "" && S3_SECRET_KEY == "" {
		log.Fatal("S3_SECRET_KEY is required when S3_ACCESS_KEY is set")
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
