package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veganum/userapi/internal/core/ports"
	"github.com/veganum/userapi/internal/domain"
	"github.com/veganum/userapi/internal/messaging/payloads"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	userStorage ports.UserStorage
	publisher   ports.UserEventPublisher
	logger      *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase.
// publisher может быть nil: тогда события не публикуются.
func NewUserUseCase(
	userStorage ports.UserStorage,
	publisher ports.UserEventPublisher,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		userStorage: userStorage,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *userUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := uc.userStorage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: list users: %w", err)
	}
	return users, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := uc.userStorage.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: get user %d: %w", id, err)
	}
	return user, nil
}

func (uc *userUseCase) CreateUser(ctx context.Context, fields domain.UserFields) (*domain.User, error) {
	user, err := uc.userStorage.CreateUser(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("usecase: create user: %w", err)
	}
	uc.publish(ctx, payloads.UserCreated, user.ID, user)
	return user, nil
}

func (uc *userUseCase) UpdateUser(ctx context.Context, id int64, fields domain.UserFields) (*domain.User, error) {
	user, err := uc.userStorage.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("usecase: update user %d: %w", id, err)
	}
	uc.publish(ctx, payloads.UserUpdated, user.ID, user)
	return user, nil
}

func (uc *userUseCase) DeleteUser(ctx context.Context, id int64) error {
	if err := uc.userStorage.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("usecase: delete user %d: %w", id, err)
	}
	uc.publish(ctx, payloads.UserDeleted, id, nil)
	return nil
}

// publish вызывается только после коммита; ошибка публикации не влияет на ответ
func (uc *userUseCase) publish(ctx context.Context, eventType string, userID int64, user *domain.User) {
	if uc.publisher == nil {
		return
	}

	var snapshot *payloads.UserSnapshot
	if user != nil {
		snapshot = &payloads.UserSnapshot{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Address:   user.Address,
			Phone:     user.Phone,
			CreatedAt: user.CreatedAt,
		}
	}

	event := payloads.NewUserEvent(eventType, userID, snapshot)
	if err := uc.publisher.PublishUserEvent(ctx, event); err != nil {
		uc.logger.Error("failed to publish user event",
			"event_type", eventType,
			"user_id", userID,
			"error", err,
		)
	}
}
