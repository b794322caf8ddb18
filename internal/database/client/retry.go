package client

import (
	"context"
	"log/slog"
	"time"
)

// retry вызывает op до attempts раз, выдерживая delay между попытками.
// Возвращает последнюю ошибку op либо ошибку контекста, если ожидание прервано.
func retry(ctx context.Context, attempts int, delay time.Duration, logger *slog.Logger, op func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			logger.Info("database connection ready", "attempt", attempt)
			return nil
		}

		logger.Warn("database connection attempt failed",
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err,
		)
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	logger.Error("could not connect to database after retries", "attempts", attempts, "error", err)
	return err
}
