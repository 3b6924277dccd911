package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig ошибка чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Storage       StorageConfig       `toml:"storage"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Notifications NotificationsConfig `toml:"notifications"`
	Booking       BookingConfig       `toml:"booking"`
	RefundPolicy  RefundPolicyConfig  `toml:"refund_policy"`
	Jobs          JobsConfig          `toml:"jobs"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

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
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type StorageConfig struct {
	// Driver postgres или memory (in-process хранилище для локального запуска)
	Driver string `toml:"driver"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	AMQPURL string `toml:"amqp_url"`
	Queue   string `toml:"queue"`
}

// BookingConfig правила приема бронирований
type BookingConfig struct {
	MaxActiveCashBookings        int     `toml:"max_active_cash_bookings"`
	CancellationCheckMinBookings int     `toml:"cancellation_check_min_bookings"`
	MaxCancellationRatePercent   float64 `toml:"max_cancellation_rate_percent"`
	DayStartHour                 int     `toml:"day_start_hour"`
	DayEndHour                   int     `toml:"day_end_hour"`
	HoldMinutes                  int     `toml:"hold_minutes"`
}

// HoldDuration время удержания неоплаченной брони за наличные
func (b BookingConfig) HoldDuration() time.Duration {
	return time.Duration(b.HoldMinutes) * time.Minute
}

// RefundTier ступень политики возврата: отмена не позже чем за MinHoursBefore
// часов до начала возвращает Percentage процентов
type RefundTier struct {
	MinHoursBefore float64 `toml:"min_hours_before"`
	Percentage     int     `toml:"percentage"`
}

type RefundPolicyConfig struct {
	Tiers []RefundTier `toml:"tiers"`
}

type JobsConfig struct {
	Enabled                  bool `toml:"enabled"`
	HoldSweepIntervalSeconds int  `toml:"hold_sweep_interval_seconds"`
	ReconcileIntervalSeconds int  `toml:"reconcile_interval_seconds"`
}

func (j JobsConfig) HoldSweepInterval() time.Duration {
	return time.Duration(j.HoldSweepIntervalSeconds) * time.Second
}

func (j JobsConfig) ReconcileInterval() time.Duration {
	return time.Duration(j.ReconcileIntervalSeconds) * time.Second
}

// Load читает TOML-файл, затем .env и переменные окружения поверх него
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	// .env необязателен
	_ = godotenv.Load()

	applyEnv(cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 15)
	setInt(&c.Server.WriteTimeout, 15)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 10)

	setString(&c.Database.Host, "localhost")
	setInt(&c.Database.Port, 5432)
	setString(&c.Database.SSLMode, "disable")
	setInt(&c.Database.MaxOpenConns, 25)
	setInt(&c.Database.MaxIdleConns, 5)
	setInt(&c.Database.ConnMaxLifetime, 300)

	setString(&c.Storage.Driver, StoragePostgres)

	setString(&c.Logs.Level, "info")

	setString(&c.Metrics.Path, "/metrics")
	setString(&c.Metrics.ServiceName, "space_booking")

	setString(&c.Notifications.Queue, "reservation_events")

	setInt(&c.Booking.MaxActiveCashBookings, 2)
	setInt(&c.Booking.CancellationCheckMinBookings, 5)
	if c.Booking.MaxCancellationRatePercent == 0 {
		c.Booking.MaxCancellationRatePercent = 50
	}
	setInt(&c.Booking.DayStartHour, 9)
	setInt(&c.Booking.DayEndHour, 24)
	setInt(&c.Booking.HoldMinutes, 60)

	if len(c.RefundPolicy.Tiers) == 0 {
		c.RefundPolicy.Tiers = DefaultRefundTiers()
	}

	setInt(&c.Jobs.HoldSweepIntervalSeconds, 60)
	setInt(&c.Jobs.ReconcileIntervalSeconds, 300)
}

// DefaultRefundTiers ≥24ч → 100%, ≥12ч → 50%, ≥0ч → 25%, после начала → 0%
func DefaultRefundTiers() []RefundTier {
	return []RefundTier{
		{MinHoursBefore: 24, Percentage: 100},
		{MinHoursBefore: 12, Percentage: 50},
		{MinHoursBefore: 0, Percentage: 25},
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Storage.Driver != StoragePostgres && c.Storage.Driver != StorageMemory {
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Booking.DayStartHour < 0 || c.Booking.DayEndHour > 24 || c.Booking.DayStartHour >= c.Booking.DayEndHour {
		return fmt.Errorf("%w: booking day window %d-%d", ErrInvalidConfig, c.Booking.DayStartHour, c.Booking.DayEndHour)
	}

	tiers := append([]RefundTier(nil), c.RefundPolicy.Tiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinHoursBefore > tiers[j].MinHoursBefore })

	for i, t := range tiers {
		if t.Percentage < 0 || t.Percentage > 100 {
			return fmt.Errorf("%w: refund percentage %d out of range", ErrInvalidConfig, t.Percentage)
		}
		if t.MinHoursBefore < 0 {
			return fmt.Errorf("%w: refund tier threshold must not be negative", ErrInvalidConfig)
		}
		// чем раньше отмена, тем больше возврат
		if i > 0 && t.Percentage > tiers[i-1].Percentage {
			return fmt.Errorf("%w: refund tiers must not increase as start approaches", ErrInvalidConfig)
		}
	}

	if c.Notifications.Enabled && c.Notifications.AMQPURL == "" {
		return fmt.Errorf("%w: notifications enabled without amqp_url", ErrInvalidConfig)
	}

	return nil
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
