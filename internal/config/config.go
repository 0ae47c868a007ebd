package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Environment    string
	LogLevel       string
	Storage        string
	DBDSN          string
	MigrationsDir  string
	SeedFile       string
	HTTPAddr       string
	JWTSecret      string
	TokenTTL       time.Duration
	TelegramToken  string
	Location       *time.Location
	RateLimitRPS   float64
	RateLimitBurst int
	Booking        BookingPolicy
}

// BookingPolicy настраиваемые ограничения записей. Переопределяется YAML файлом из CONFIG_FILE.
type BookingPolicy struct {
	// Допустимая длительность занятия в минутах. Пустой список: любая положительная.
	AllowedDurations []int `yaml:"allowed_durations"`
	MaxMessageLength int   `yaml:"max_message_length"`
	MaxSearchLength  int   `yaml:"max_search_length"`
}

// DefaultBookingPolicy политика по умолчанию
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		AllowedDurations: []int{30, 60, 90},
		MaxMessageLength: 500,
		MaxSearchLength:  30,
	}
}

// DurationAllowed проверяет длительность занятия
func (p BookingPolicy) DurationAllowed(minutes int) bool {
	if minutes <= 0 {
		return false
	}
	if len(p.AllowedDurations) == 0 {
		return true
	}
	for _, d := range p.AllowedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

func Load() (*Config, error) {
	// Загружаем .env файл (если есть)
	if err := godotenv.Load(".env"); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:   getEnv("ENV", "development"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		Storage:       strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DBDSN:         os.Getenv("DB_DSN"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		SeedFile:      os.Getenv("SEED_FILE"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Booking:       DefaultBookingPolicy(),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "UTC")); err != nil {
		return nil, fmt.Errorf("parse TIMEZONE: %w", err)
	}
	if v := os.Getenv("BOOKING_DURATIONS"); v != "" {
		if cfg.Booking.AllowedDurations, err = parseDurations(v); err != nil {
			return nil, err
		}
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadPolicyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadPolicyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	var file struct {
		Booking *BookingPolicy `yaml:"booking"`
	}
	file.Booking = &c.Booking

	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	for _, d := range c.Booking.AllowedDurations {
		if d <= 0 {
			return fmt.Errorf("allowed durations must be positive, got %d", d)
		}
	}
	if c.Booking.MaxSearchLength <= 0 {
		return fmt.Errorf("max search length must be positive")
	}
	if c.Booking.MaxMessageLength <= 0 {
		return fmt.Errorf("max message length must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

// parseDurations читает "30,60,90", "any" очищает список
func parseDurations(v string) ([]int, error) {
	if strings.EqualFold(strings.TrimSpace(v), "any") {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse BOOKING_DURATIONS: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}
