package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/veganum/userapi/internal/core/ports"
	"github.com/veganum/userapi/internal/domain"
)

// UserStorage — хранилище пользователей в памяти процесса.
// Используется для локального запуска без PostgreSQL (STORAGE_DRIVER=memory) и в тестах.
type UserStorage struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]domain.User
	now    func() time.Time
}

var _ ports.UserStorage = (*UserStorage)(nil)

func NewUserStorage() *UserStorage {
	return &UserStorage{
		nextID: 1,
		store:  make(map[int64]domain.User),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// ListUsers возвращает пользователей в порядке возрастания ID
func (s *UserStorage) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.store))
	for _, u := range s.store {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.store[id]
	if !ok {
		return nil, nil
	}
	u = copyUser(u)
	return &u, nil
}

func (s *UserStorage) CreateUser(ctx context.Context, fields domain.UserFields) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := domain.User{ID: s.nextID, CreatedAt: s.now()}
	u.Apply(fields)
	u = copyUser(u)
	s.nextID++
	s.store[u.ID] = u

	out := copyUser(u)
	return &out, nil
}

func (s *UserStorage) UpdateUser(ctx context.Context, id int64, fields domain.UserFields) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Apply(fields)
	u = copyUser(u)
	s.store[id] = u

	out := copyUser(u)
	return &out, nil
}

func (s *UserStorage) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.store, id)
	return nil
}

// copyUser не даёт вызывающему коду разделять указатель Address с хранилищем
func copyUser(u domain.User) domain.User {
	if u.Address != nil {
		addr := *u.Address
		u.Address = &addr
	}
	return u
}
