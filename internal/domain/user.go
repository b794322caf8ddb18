package domain

import (
	"time"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID        int64     `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	FirstName string    `json:"first_name" db:"first_name" gorm:"column:first_name;not null"`
	LastName  string    `json:"last_name" db:"last_name" gorm:"column:last_name;not null"`
	Address   *string   `json:"address" db:"address" gorm:"column:address"`
	Phone     int64     `json:"phone" db:"phone" gorm:"column:phone;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (User) TableName() string {
	return "users"
}

// UserFields — изменяемые поля пользователя. Используется и при создании,
// и при полной перезаписи в update.
type UserFields struct {
	FirstName string
	LastName  string
	Address   *string
	Phone     int64
}

// Apply перезаписывает все изменяемые поля; ID и CreatedAt не трогает.
func (u *User) Apply(f UserFields) {
	u.FirstName = f.FirstName
	u.LastName = f.LastName
	u.Address = f.Address
	u.Phone = f.Phone
}
