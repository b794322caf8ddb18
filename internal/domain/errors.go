package domain

import (
	"errors"
	"fmt"
)

// ErrUserNotFound возвращается, когда пользователя с указанным ID нет в БД.
var ErrUserNotFound = errors.New("user not found")

// StorageError — ошибка хранилища (БД): нарушение ограничений, потеря
// соединения, таймаут. Клиенту детали не отдаются.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError оборачивает ошибку драйвера. nil остаётся nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError сообщает, есть ли в цепочке ошибка хранилища.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
