package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/veganum/userapi/internal/core/ports"
	"github.com/veganum/userapi/internal/messaging/payloads"
)

// runWorker запускает потребителя RabbitMQ и пишет аудит-лог по каждому событию
func runWorker(ctx context.Context, consumer ports.UserEventConsumer, logger *slog.Logger) error {
	if consumer == nil {
		return errors.New("режим worker требует RABBITMQ_URL")
	}

	logger.Info("worker started, waiting for user events")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := consumer.StartConsumingUserEvents(workerCtx, auditUserEvent(logger)); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-ctx.Done()
	logger.Info("worker stopped")
	return nil
}

// auditUserEvent возвращает обработчик, который пишет событие в структурированный лог
func auditUserEvent(logger *slog.Logger) func(context.Context, payloads.UserEvent) error {
	return func(_ context.Context, event payloads.UserEvent) error {
		switch event.Type {
		case payloads.UserCreated, payloads.UserUpdated, payloads.UserDeleted:
		default:
			// неизвестный тип не исправится повторной доставкой
			logger.Warn("skipping unknown user event type", "event_id", event.EventID, "event_type", event.Type)
			return nil
		}

		attrs := []any{
			"event_id", event.EventID,
			"event_type", event.Type,
			"user_id", event.UserID,
			"occurred_at", event.OccurredAt,
		}
		if event.User != nil {
			attrs = append(attrs, "first_name", event.User.FirstName, "last_name", event.User.LastName)
		}
		logger.Info("user event audited", attrs...)
		return nil
	}
}
