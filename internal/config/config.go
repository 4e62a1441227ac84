package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        DatabaseConfig    `toml:"database"`
	Logs            LogsConfig        `toml:"logs"`
	Metrics         MetricsConfig     `toml:"metrics"`
	Auth            AuthConfig        `toml:"auth"`
	MatchingService IntegrationConfig `toml:"matching_service"`
	PaymentService  IntegrationConfig `toml:"payment_service"`
	FileService     IntegrationConfig `toml:"file_service"`
	Booking         BookingConfig     `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки проверки JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// IntegrationConfig адрес и таймаут внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// TimeoutDuration таймаут запроса к сервису
func (c IntegrationConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// BookingConfig настройки фазы подбора
type BookingConfig struct {
	SessionTTL    Duration `toml:"session_ttl"`
	SweepInterval Duration `toml:"sweep_interval"`
	SweepBatch    uint64   `toml:"sweep_batch"`
	UnloadTimeout Duration `toml:"unload_timeout"`
	FlowRoutes    []string `toml:"flow_routes"` // Префиксы страниц, уход на которые не отменяет бронирование
}

// Duration time.Duration, читаемый из строки вида "15m"
type Duration struct {
	time.Duration
}

// UnmarshalText реализует encoding.TextUnmarshaler для toml
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Load загружает конфигурацию из TOML файла
// Секреты можно переопределить переменными окружения (в том числе из .env)
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "reservation-service",
		},
		Booking: BookingConfig{
			SessionTTL:    Duration{domain.DefaultMatchingTTL},
			SweepInterval: Duration{time.Minute},
			SweepBatch:    100,
			UnloadTimeout: Duration{3 * time.Second},
			FlowRoutes:    []string{"/booking"},
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (or JWT_SECRET env)")
	}
	if c.Booking.SessionTTL.Duration <= 0 {
		return fmt.Errorf("booking.session_ttl must be positive")
	}
	if c.Booking.SweepInterval.Duration <= 0 {
		return fmt.Errorf("booking.sweep_interval must be positive")
	}
	for name, integration := range map[string]IntegrationConfig{
		"matching_service": c.MatchingService,
		"payment_service":  c.PaymentService,
		"file_service":     c.FileService,
	} {
		if integration.URL == "" {
			return fmt.Errorf("%s.url is required", name)
		}
	}
	return nil
}
