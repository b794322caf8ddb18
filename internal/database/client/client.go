package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/veganum/userapi/internal/config"
)

// Client представляет клиент для взаимодействия с PostgreSQL.
// Его пул соединений используется и GORM, и миграциями.
type Client struct {
	DB     *sqlx.DB
	logger *slog.Logger
}

// Connect устанавливает соединение с PostgreSQL и применяет миграции,
// повторяя попытки cfg.DB.ConnectRetries раз с паузой cfg.DB.ConnectDelay.
// Если все попытки исчерпаны, возвращает ошибку: запуск приложения невозможен.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	var c *Client

	err := retry(ctx, cfg.DB.ConnectRetries, cfg.DB.ConnectDelay, logger, func(ctx context.Context) error {
		attempt, err := NewClient(ctx, cfg, logger)
		if err != nil {
			return err
		}
		if err := applyMigrations(cfg.DatabaseURL, logger); err != nil {
			_ = attempt.Close()
			return err
		}
		c = attempt
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("соединение с базой данных не установлено: %w", err)
	}
	return c, nil
}

// NewClient открывает пул соединений и проверяет доступность БД
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения с БД: %w", err)
	}

	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	version, err := serverVersion(ctx, db)
	if err != nil {
		_ = db.Close()
		logger.Error("failed to query server version", "error", err)
		return nil, fmt.Errorf("не удалось получить версию PostgreSQL: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully",
		"server_version", version,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: db, logger: logger}, nil
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// serverVersion возвращает версию сервера PostgreSQL
func serverVersion(ctx context.Context, db *sqlx.DB) (string, error) {
	var version string
	if err := db.GetContext(ctx, &version, "SHOW server_version"); err != nil {
		return "", err
	}
	return version, nil
}
