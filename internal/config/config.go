package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	RequestTimeout time.Duration

	DefaultCountryCode string
	WhatsAppWebHost    string

	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	DatabaseURL string
	DBDriver    string

	RabbitMQURL string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	SessionCheckInterval time.Duration
	DemoSessionTTL       time.Duration
	LoginRateLimit       int
}

// Load lê o .env (se existir) e depois as variáveis de ambiente.
func Load(files ...string) Config {
	if err := godotenv.Load(files...); err != nil {
		log.Printf("⚠️ .env não carregado: %v", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),

		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "55"),
		WhatsAppWebHost:    getEnv("WHATSAPP_WEB_HOST", "web.whatsapp.com"),

		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:   os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBDriver:    getEnv("DB_DRIVER", "pgx"),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: getInt("MAIL_PORT", 587),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: os.Getenv("MAIL_FROM"),

		SessionCheckInterval: getDuration("SESSION_CHECK_INTERVAL", 30*time.Second),
		DemoSessionTTL:       getDuration("DEMO_SESSION_TTL", time.Hour),
		LoginRateLimit:       getInt("LOGIN_RATE_LIMIT", 10),
	}
}

func (c Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s inválido (%q), usando %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ %s inválido (%q), usando %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
