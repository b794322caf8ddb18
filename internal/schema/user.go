package schema

import (
	"time"

	"github.com/veganum/userapi/internal/domain"
)

// UserBase — общий набор полей пользователя. Используется как тело PUT /update/{id}.
type UserBase struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Address   *string `json:"address"`
	Phone     *int64  `json:"phone" validate:"required"`
}

// UserCreate — тело POST /create. Поле id от клиента не принимается.
type UserCreate struct {
	UserBase
}

// Fields переводит провалидированную схему в изменяемые поля модели.
func (b UserBase) Fields() domain.UserFields {
	f := domain.UserFields{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Address:   b.Address,
	}
	if b.Phone != nil {
		f.Phone = *b.Phone
	}
	return f
}

// UserResponse — представление сохранённого пользователя в ответах API.
type UserResponse struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Address   *string   `json:"address"`
	Phone     int64     `json:"phone"`
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse строит ответ из сохранённой модели.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Address:   u.Address,
		Phone:     u.Phone,
		ID:        u.ID,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

// NewUserResponses никогда не возвращает nil, чтобы пустой список сериализовался в [].
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
