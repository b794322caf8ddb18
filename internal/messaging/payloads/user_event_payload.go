package payloads

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий пользователя
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// UserSnapshot — состояние пользователя на момент события.
type UserSnapshot struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Address   *string   `json:"address"`
	Phone     int64     `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// UserEvent представляет сообщение о создании, изменении или удалении
// пользователя, передаваемое через RabbitMQ.
type UserEvent struct {
	EventID    uuid.UUID     `json:"event_id"`
	Type       string        `json:"type"`
	UserID     int64         `json:"user_id"`
	User       *UserSnapshot `json:"user,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewUserEvent создаёт событие с новым event_id и текущим временем.
func NewUserEvent(eventType string, userID int64, user *UserSnapshot) UserEvent {
	return UserEvent{
		EventID:    uuid.New(),
		Type:       eventType,
		UserID:     userID,
		User:       user,
		OccurredAt: time.Now().UTC(),
	}
}
