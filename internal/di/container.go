package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/veganum/userapi/internal/app"
	"github.com/veganum/userapi/internal/config"
	"github.com/veganum/userapi/internal/core/ports"
	"github.com/veganum/userapi/internal/database/client"
	"github.com/veganum/userapi/internal/database/memory"
	"github.com/veganum/userapi/internal/database/postgres"
	"github.com/veganum/userapi/internal/logger"
	"github.com/veganum/userapi/internal/rabbitmq"
	"github.com/veganum/userapi/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Хранилище пользователей
	userStorage, db, err := buildUserStorage(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. RabbitMQ (опционально). Интерфейсы остаются nil, если события выключены.
	var (
		publisher    ports.UserEventPublisher
		consumer     ports.UserEventConsumer
		eventsClient io.Closer
	)
	if cfg.EventsEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			if db != nil {
				_ = db.Close()
			}
			return nil, err
		}
		publisher = rabbitMQClient
		consumer = rabbitMQClient
		eventsClient = rabbitMQClient
	} else {
		slogger.Info("RABBITMQ_URL not set, user events disabled")
	}

	// 4. Бизнес-логика
	userUseCase := usecase.NewUserUseCase(userStorage, publisher, slogger)

	// 5. Сборка итогового приложения
	application := app.NewApp(cfg, slogger, db, userUseCase, consumer, eventsClient)

	slogger.Info("all dependencies initialized", "storage_driver", cfg.StorageDriver)
	return application, nil
}

// buildUserStorage выбирает реализацию хранилища по STORAGE_DRIVER.
// Для postgres возвращает также Closer пула соединений.
func buildUserStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.UserStorage, io.Closer, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory user storage, data is lost on restart")
		return memory.NewUserStorage(), nil, nil
	case config.StorageDriverPostgres:
		// повторные попытки подключения и миграции
		dbClient, err := client.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}

		// gorm работает поверх того же пула, что и sqlx
		gormDB, err := postgres.NewGormDB(dbClient.DB.DB, logger)
		if err != nil {
			_ = dbClient.Close()
			return nil, nil, err
		}
		return postgres.NewGormUserStorage(gormDB, logger), dbClient, nil
	default:
		return nil, nil, fmt.Errorf("неизвестный STORAGE_DRIVER: %s", cfg.StorageDriver)
	}
}
