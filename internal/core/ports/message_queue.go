package ports

import (
	"context"

	"github.com/veganum/userapi/internal/messaging/payloads"
)

// UserEventPublisher публикует события жизненного цикла пользователя.
// Используется usecase после успешного коммита.
type UserEventPublisher interface {
	PublishUserEvent(ctx context.Context, event payloads.UserEvent) error
}

// UserEventConsumer потребляет события пользователей, используется воркером.
type UserEventConsumer interface {
	// StartConsumingUserEvents начинает прослушивание очереди и вызывает handler
	// для каждого сообщения, пока ctx не отменён
	StartConsumingUserEvents(ctx context.Context, handler func(context.Context, payloads.UserEvent) error) error
}
