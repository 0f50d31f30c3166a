// Package config описывает стартовую конфигурацию сервиса.
//
// Значения читаются через viper в порядке приоритета: флаги командной строки,
// переменные окружения (префикс BLOG_, а также PORT, DB_PATH, DATABASE_URL и JWT_SECRET),
// файл конфигурации, значения по умолчанию.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Окружения запуска.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Типы хранилища.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageInMemory = "in-memory"
)

// InsecureSigningKey - ключ по умолчанию. Допустим только в development.
const InsecureSigningKey = "your_jwt_secret"

// Ключи viper.
const (
	KeyEnv             = "env"
	KeyPort            = "port"
	KeyLogLevel        = "log_level"
	KeyStorageDriver   = "storage.driver"
	KeyStorageDSN      = "storage.dsn"
	KeySigningKey      = "auth.signing_key"
	KeyTokenTTL        = "auth.token_ttl"
	KeyAllowedOrigins  = "http.allowed_origins"
	KeyShutdownTimeout = "http.shutdown_timeout"
	KeySeed            = "seed"
)

// Config - полная конфигурация сервиса.
type Config struct {
	Env      string
	Port     string
	LogLevel string
	// Seed заполняет пустое хранилище демонстрационными данными.
	Seed    bool
	Storage StorageConfig
	Auth    AuthConfig
	HTTP    HTTPConfig
}

// StorageConfig выбирает хранилище.
type StorageConfig struct {
	Driver string
	DSN    string
}

// AuthConfig - параметры токенов.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// HTTPConfig - параметры HTTP-сервера.
type HTTPConfig struct {
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// SetDefaults регистрирует значения по умолчанию и привязку к окружению.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnv, EnvDevelopment)
	v.SetDefault(KeyPort, "3000")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyStorageDriver, StorageSQLite)
	v.SetDefault(KeyStorageDSN, "./database.sqlite")
	v.SetDefault(KeySigningKey, InsecureSigningKey)
	v.SetDefault(KeyTokenTTL, time.Hour)
	v.SetDefault(KeyAllowedOrigins, []string{"*"})
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
	v.SetDefault(KeySeed, false)

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Привычные имена переменных окружения
	_ = v.BindEnv(KeyPort, "BLOG_PORT", "PORT")
	_ = v.BindEnv(KeyStorageDSN, "BLOG_STORAGE_DSN", "DB_PATH", "DATABASE_URL")
	_ = v.BindEnv(KeySigningKey, "BLOG_AUTH_SIGNING_KEY", "JWT_SECRET")
}

// Load читает конфигурацию из viper и проверяет ее.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Env:      strings.ToLower(v.GetString(KeyEnv)),
		Port:     v.GetString(KeyPort),
		LogLevel: v.GetString(KeyLogLevel),
		Seed:     v.GetBool(KeySeed),
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString(KeyStorageDriver)),
			DSN:    v.GetString(KeyStorageDSN),
		},
		Auth: AuthConfig{
			SigningKey: v.GetString(KeySigningKey),
			TokenTTL:   v.GetDuration(KeyTokenTTL),
		},
		HTTP: HTTPConfig{
			AllowedOrigins:  v.GetStringSlice(KeyAllowedOrigins),
			ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment сообщает, запущен ли сервис в режиме разработки.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// UsesInsecureSigningKey сообщает, остался ли ключ подписи по умолчанию.
func (c *Config) UsesInsecureSigningKey() bool {
	return c.Auth.SigningKey == InsecureSigningKey
}

// Validate проверяет обязательные поля. Вне development ключ по умолчанию запрещен.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("unknown env %q", c.Env))
	}

	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}

	switch c.Storage.Driver {
	case StorageInMemory:
	case StorageSQLite, StoragePostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage dsn is required for %s", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	if c.Auth.SigningKey == "" {
		errs = append(errs, errors.New("auth signing key is required"))
	} else if c.UsesInsecureSigningKey() && !c.IsDevelopment() {
		errs = append(errs, fmt.Errorf("auth signing key must be changed from the default in %s", c.Env))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth token ttl must be positive"))
	}

	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("http shutdown timeout must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
