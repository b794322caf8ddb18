package ports

import (
	"context"

	"github.com/veganum/userapi/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Ошибки БД возвращаются как *domain.StorageError.
type UserStorage interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	// GetUserByID возвращает nil, nil, если пользователя нет
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, fields domain.UserFields) (*domain.User, error)
	// UpdateUser и DeleteUser возвращают domain.ErrUserNotFound, если строки нет
	UpdateUser(ctx context.Context, id int64, fields domain.UserFields) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
