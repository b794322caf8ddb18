package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/veganum/userapi/internal/config"
	"github.com/veganum/userapi/internal/core/ports"
	"github.com/veganum/userapi/internal/usecase"
)

// Режимы запуска
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

type App struct {
	Config            *config.Config
	logger            *slog.Logger
	db                io.Closer
	userUseCase       usecase.UserUseCase
	userEventConsumer ports.UserEventConsumer
	eventsClient      io.Closer
}

// NewApp собирает приложение. db и eventsClient могут быть nil
// (хранилище в памяти / события отключены).
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	db io.Closer,
	userUseCase usecase.UserUseCase,
	userEventConsumer ports.UserEventConsumer,
	eventsClient io.Closer,
) *App {
	return &App{
		Config:            cfg,
		logger:            logger,
		db:                db,
		userUseCase:       userUseCase,
		userEventConsumer: userEventConsumer,
		eventsClient:      eventsClient,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context, mode string) error {
	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.userUseCase, a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.userEventConsumer, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте '%s' или '%s')", mode, ModeServer, ModeWorker)
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
		if err == nil {
			err = closeErr
		}
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	if a.eventsClient != nil {
		if err := a.eventsClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия RabbitMQ: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия БД: %w", err))
		}
	}
	return errors.Join(errs...)
}
