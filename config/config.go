package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings read from the environment
type Config struct {
	Env         string
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	JWTExpiry   time.Duration
	FrontendURL string
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PaystackSecretKey  string
	PaystackBaseURL    string
	PaymentCallbackURL string
	Currency           string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	AdminEmail string

	SuperAdminEmail    string
	SuperAdminPassword string

	AWSRegion  string
	S3Bucket   string
	S3Endpoint string

	FirebaseCredentialsBase64 string
	FirebaseCredentialsFile   string
	FirebaseProjectID         string

	MinWithdrawal float64
}

// Load reads .env (if present) and the process environment
func Load() *Config {
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = os.Getenv("MONGODB_URI")
	}

	frontendURL := strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/")

	return &Config{
		Env:         getEnv("ENV", "production"),
		Port:        getEnv("PORT", "8080"),
		MongoURI:    mongoURI,
		DBName:      getEnv("DB_NAME", "academy"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTExpiry:   7 * 24 * time.Hour,
		FrontendURL: frontendURL,
		CORSOrigins: append([]string{frontendURL}, splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))...),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		PaystackSecretKey:  os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:    getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaymentCallbackURL: os.Getenv("PAYMENT_CALLBACK_URL"),
		Currency:           getEnv("CURRENCY", "GHS"),

		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),

		SuperAdminEmail:    os.Getenv("SUPER_ADMIN_EMAIL"),
		SuperAdminPassword: os.Getenv("SUPER_ADMIN_PASSWORD"),

		AWSRegion:  getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:   os.Getenv("S3_BUCKET"),
		S3Endpoint: os.Getenv("S3_ENDPOINT"),

		FirebaseCredentialsBase64: os.Getenv("FIREBASE_CREDENTIALS_BASE64"),
		FirebaseCredentialsFile:   os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirebaseProjectID:         os.Getenv("FIREBASE_PROJECT_ID"),

		MinWithdrawal: getEnvFloat("MIN_WITHDRAWAL", 20),
	}
}

// IsDevelopment reports whether ENV names a development environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma separated variable, dropping blanks
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
