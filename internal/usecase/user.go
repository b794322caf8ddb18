package usecase

import (
	"context"

	"github.com/veganum/userapi/internal/domain"
)

// UserUseCase определяет интерфейс бизнес-логики работы с пользователями
type UserUseCase interface {
	// ListUsers возвращает всех пользователей
	ListUsers(ctx context.Context) ([]domain.User, error)

	// GetUser возвращает пользователя по ID или nil, если его нет
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// CreateUser сохраняет нового пользователя и публикует user.created
	CreateUser(ctx context.Context, fields domain.UserFields) (*domain.User, error)

	// UpdateUser полностью перезаписывает поля пользователя и публикует user.updated
	UpdateUser(ctx context.Context, id int64, fields domain.UserFields) (*domain.User, error)

	// DeleteUser удаляет пользователя и публикует user.deleted
	DeleteUser(ctx context.Context, id int64) error
}
