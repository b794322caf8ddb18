package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Поддерживаемые хранилища пользователей
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	// "postgres" или "memory" (локальный запуск без БД)
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SecretKey     string `env:"SECRET_KEY,required,notEmpty"`

	// Используются, только если DATABASE_URL не задан
	Postgres struct {
		User     string `env:"POSTGRES_USER" envDefault:"postgres"`
		Password string `env:"POSTGRES_PASSWORD" envDefault:"password"`
		DB       string `env:"POSTGRES_DB" envDefault:"mydatabase"`
		Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	}

	ServerPort     string        `env:"SERVER_PORT"`
	APIPrefix      string        `env:"API_PREFIX" envDefault:"/api/v1"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Пул соединений и стартовые повторы подключения к БД
	DB struct {
		ConnectRetries  int           `env:"DB_CONNECT_RETRIES" envDefault:"5"`
		ConnectDelay    time.Duration `env:"DB_CONNECT_DELAY" envDefault:"5s"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	}

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"user_events"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8000"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = cfg.postgresURL()
	}
	cfg.DatabaseURL = normalizeDatabaseURL(cfg.DatabaseURL)

	switch cfg.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("неизвестный STORAGE_DRIVER: %q (используйте %q или %q)",
			cfg.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}

	if cfg.DB.ConnectRetries < 1 {
		return nil, fmt.Errorf("DB_CONNECT_RETRIES должен быть >= 1, получено %d", cfg.DB.ConnectRetries)
	}

	cfg.APIPrefix = "/" + strings.Trim(cfg.APIPrefix, "/")
	if cfg.APIPrefix == "/" {
		cfg.APIPrefix = ""
	}

	return &cfg, nil
}

// EventsEnabled сообщает, нужно ли публиковать события пользователей в RabbitMQ.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}

func (c *Config) postgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:     net.JoinHostPort(c.Postgres.Host, c.Postgres.Port),
		Path:     "/" + c.Postgres.DB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// normalizeDatabaseURL приводит DSN в стиле SQLAlchemy (postgresql+asyncpg://)
// к схеме, которую понимают lib/pq и golang-migrate.
func normalizeDatabaseURL(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	if base, _, hasDriver := strings.Cut(scheme, "+"); hasDriver {
		scheme = base
	}
	if scheme == "postgresql" {
		scheme = "postgres"
	}
	return scheme + "://" + rest
}
