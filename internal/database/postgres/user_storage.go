package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/veganum/userapi/internal/domain"
	"gorm.io/gorm"
)

// колонки, которые перезаписывает update; id и created_at сюда не входят
var updatableColumns = []string{"first_name", "last_name", "address", "phone"}

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{
		db:     db,
		logger: logger,
		now:    nowMicro,
	}
}

// nowMicro обрезает время до микросекунд: точнее TIMESTAMPTZ не хранит,
// и ответ на create должен совпадать с последующим чтением.
func nowMicro() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ListUsers возвращает всех пользователей в естественном порядке БД
func (s *GormUserStorage) ListUsers(ctx context.Context) ([]domain.User, error) {
	start := time.Now()

	users := make([]domain.User, 0)
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, domain.NewStorageError("list users", err)
	}

	s.logger.Info("users listed",
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// GetUserByID получает пользователя по ID; nil, nil если его нет
func (s *GormUserStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	start := time.Now()

	user, err := findUser(s.db.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("user not found by id", "user_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, domain.NewStorageError("get user", err)
	}

	s.logger.Info("user retrieved by id",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return user, nil
}

// CreateUser сохраняет нового пользователя; created_at выставляется здесь.
// При ошибке транзакция откатывается и строки в БД не остаётся.
func (s *GormUserStorage) CreateUser(ctx context.Context, fields domain.UserFields) (*domain.User, error) {
	start := time.Now()

	user := &domain.User{CreatedAt: s.now()}
	user.Apply(fields)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	if err != nil {
		s.logger.Error("failed to create user, transaction rolled back", "error", err)
		return nil, domain.NewStorageError("create user", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return user, nil
}

// UpdateUser полностью перезаписывает изменяемые поля пользователя
func (s *GormUserStorage) UpdateUser(ctx context.Context, id int64, fields domain.UserFields) (*domain.User, error) {
	start := time.Now()

	var user *domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findUser(tx, id)
		if err != nil {
			return err
		}
		found.Apply(fields)

		res := tx.Model(found).Select(updatableColumns).Updates(found)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, s.writeError("update user", id, err)
	}

	s.logger.Info("user updated successfully",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return user, nil
}

// DeleteUser удаляет пользователя без возможности восстановления
func (s *GormUserStorage) DeleteUser(ctx context.Context, id int64) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findUser(tx, id)
		if err != nil {
			return err
		}

		res := tx.Delete(found)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return s.writeError("delete user", id, err)
	}

	s.logger.Info("user deleted successfully",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormUserStorage) writeError(op string, id int64, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("user not found", "op", op, "user_id", id)
		return fmt.Errorf("%s %d: %w", op, id, domain.ErrUserNotFound)
	}
	s.logger.Error("storage failure, transaction rolled back", "op", op, "user_id", id, "error", err)
	return domain.NewStorageError(op, err)
}

func findUser(db *gorm.DB, id int64) (*domain.User, error) {
	var user domain.User
	if err := db.Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
