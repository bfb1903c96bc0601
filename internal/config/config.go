package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	DBMaxConns  int32
	AutoMigrate bool

	JWTSecret   string
	JWTTTLHours int

	LogLevel  string
	LogPretty bool

	CORSOrigins []string

	// bounds the wait on stock row locks during order confirmation
	CheckoutLockTimeout time.Duration

	MidtransServerKey string
	MidtransEnv       string

	MailFrom     string
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string

	RabbitURL      string
	RabbitExchange string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AutoMigrate:       getEnv("AUTO_MIGRATE", "true") == "true",
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-please-change"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogPretty:         getEnv("LOG_PRETTY", "false") == "true",
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		MidtransServerKey: os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransEnv:       getEnv("MIDTRANS_ENV", "sandbox"),
		MailFrom:          getEnv("MAIL_FROM", "Rincón del Friki <pedidos@rincondelfriki.es>"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		RabbitURL:         os.Getenv("RABBIT_URL"),
		RabbitExchange:    getEnv("RABBIT_EXCHANGE", "shop_events"),
	}

	var err error
	if cfg.DBMaxConns, err = getInt32("DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.JWTTTLHours, err = getInt("JWT_TTL_HOURS", 24); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.CheckoutLockTimeout, err = time.ParseDuration(getEnv("CHECKOUT_LOCK_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("CHECKOUT_LOCK_TIMEOUT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTTTLHours <= 0 {
		errs = append(errs, errors.New("JWT_TTL_HOURS must be > 0"))
	}
	if c.DBMaxConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be > 0"))
	}
	if c.CheckoutLockTimeout < 0 {
		errs = append(errs, errors.New("CHECKOUT_LOCK_TIMEOUT must not be negative"))
	}
	if c.MidtransEnv != "sandbox" && c.MidtransEnv != "production" {
		errs = append(errs, fmt.Errorf("MIDTRANS_ENV must be sandbox or production, got %q", c.MidtransEnv))
	}
	return errors.Join(errs...)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getInt32(k string, def int32) (int32, error) {
	n, err := getInt(k, int(def))
	return int32(n), err
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
