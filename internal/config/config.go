package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Переменные окружения с секретами (перекрывают значения из файла)
const (
	EnvDBPassword        = "DB_PASSWORD"
	EnvNotificationToken = "NOTIFICATION_SERVICE_TOKEN"
	EnvHTTPPort          = "HTTP_PORT"
)

// Режимы хранилища
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при ошибке валидации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig              `toml:"server"`
	Database            DatabaseConfig            `toml:"database"`
	Storage             StorageConfig             `toml:"storage"`
	Logs                LogsConfig                `toml:"logs"`
	Metrics             MetricsConfig             `toml:"metrics"`
	Clinic              ClinicConfig              `toml:"clinic"`
	Refund              RefundConfig              `toml:"refund"`
	PatientService      PatientServiceConfig      `toml:"patient_service"`
	NotificationService NotificationServiceConfig `toml:"notification_service"`
	Reminders           RemindersConfig           `toml:"reminders"`
}

// ServerConfig HTTP сервер (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"required,min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=0"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=0"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=0"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=0"`
}

// DatabaseConfig подключение к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host" validate:"required_if=Mode postgres"`
	Port            int    `toml:"port" validate:"min=0,max=65535"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"min=0"` // секунды
	TxMaxRetries    int    `toml:"tx_max_retries" validate:"min=0"`

	// Mode копия storage.mode для условной валидации
	Mode string `toml:"-"`
}

// DSN строка подключения lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// StorageConfig выбор хранилища
type StorageConfig struct {
	Mode string `toml:"mode" validate:"required,oneof=postgres memory"`
}

// LogsConfig логирование (пустой file - консоль)
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// MetricsConfig Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"required_if=Enabled true"`
	ServiceName string `toml:"service_name" validate:"required_if=Enabled true"`
}

// ClinicConfig параметры клиники
type ClinicConfig struct {
	Timezone          string `toml:"timezone" validate:"required"`
	DefaultCapacity   int    `toml:"default_capacity" validate:"min=1"`
	BookingWindowDays int    `toml:"booking_window_days" validate:"min=1"`
	SideEffectTimeout int    `toml:"side_effect_timeout" validate:"min=1"` // секунды
}

// Location часовой пояс клиники
func (c ClinicConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// RefundConfig политика комиссии за позднюю отмену
type RefundConfig struct {
	FeePolicy  string       `toml:"fee_policy" validate:"omitempty,oneof=none flat proportional tiered"`
	FlatAmount float64      `toml:"flat_amount" validate:"min=0"`
	Rate       float64      `toml:"rate" validate:"min=0,max=1"`
	Tiers      []TierConfig `toml:"tiers" validate:"required_if=FeePolicy tiered,dive"`
}

// TierConfig ступень tiered-политики
type TierConfig struct {
	WithinHours float64 `toml:"within_hours" validate:"gt=0"`
	Rate        float64 `toml:"rate" validate:"min=0,max=1"`
}

// PatientServiceConfig справочник пациентов
type PatientServiceConfig struct {
	URL     string `toml:"url" validate:"required_if=Mode postgres,omitempty,url"`
	Timeout int    `toml:"timeout" validate:"min=0"` // секунды

	Mode string `toml:"-"`
}

// NotificationServiceConfig сервис уведомлений
type NotificationServiceConfig struct {
	URL     string `toml:"url" validate:"required_if=Mode postgres,omitempty,url"`
	Token   string `toml:"token"`
	Timeout int    `toml:"timeout" validate:"min=0"` // секунды

	Mode string `toml:"-"`
}

// RemindersConfig планировщик напоминаний
type RemindersConfig struct {
	Enabled   bool   `toml:"enabled"`
	Schedule  string `toml:"schedule" validate:"required_if=Enabled true"` // cron-выражение
	DaysAhead int    `toml:"days_ahead" validate:"min=0"`
}

// Load читает TOML, подмешивает секреты из окружения (.env опционален) и валидирует
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrReadConfig, err)
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет теги validate
func (c *Config) Validate() error {
	c.Database.Mode = c.Storage.Mode
	c.PatientService.Mode = c.Storage.Mode
	c.NotificationService.Mode = c.Storage.Mode

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Clinic.Location(); err != nil {
		return fmt.Errorf("%w: clinic.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			TxMaxRetries:    3,
		},
		Storage: StorageConfig{Mode: StoragePostgres},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "clinic_booking"},
		Clinic: ClinicConfig{
			Timezone:          "UTC",
			DefaultCapacity:   1,
			BookingWindowDays: 7,
			SideEffectTimeout: 5,
		},
		Refund:              RefundConfig{FeePolicy: "none"},
		PatientService:      PatientServiceConfig{Timeout: 5},
		NotificationService: NotificationServiceConfig{Timeout: 5},
		Reminders:           RemindersConfig{Schedule: "0 18 * * *", DaysAhead: 1},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDBPassword); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv(EnvNotificationToken); v != "" {
		cfg.NotificationService.Token = v
	}
	if v := os.Getenv(EnvHTTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
}
