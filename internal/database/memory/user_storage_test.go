package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veganum/userapi/internal/domain"
)

func TestUserStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewUserStorage()

	addr := "Calle 1"
	first, err := s.CreateUser(ctx, domain.UserFields{FirstName: "Ana", LastName: "Ruiz", Address: &addr, Phone: 5551234})
	require.NoError(t, err)
	second, err := s.CreateUser(ctx, domain.UserFields{FirstName: "Luis", LastName: "Gil", Phone: 5550000})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	// изменение возвращённого значения не должно менять хранилище
	*first.Address = "changed"
	got, err := s.GetUserByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Calle 1", *got.Address)

	updated, err := s.UpdateUser(ctx, first.ID, domain.UserFields{FirstName: "Ana", LastName: "Ruiz", Phone: 5559999})
	require.NoError(t, err)
	assert.Nil(t, updated.Address)
	assert.Equal(t, got.CreatedAt, updated.CreatedAt)

	require.NoError(t, s.DeleteUser(ctx, first.ID))
	gone, err := s.GetUserByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, second.ID, users[0].ID)
}

func TestUserStorage_CreatedAtMicrosecondPrecision(t *testing.T) {
	s := NewUserStorage()
	for i := 0; i < 20; i++ {
		u, err := s.CreateUser(context.Background(), domain.UserFields{FirstName: "Ana", LastName: "Ruiz", Phone: 1})
		require.NoError(t, err)
		assert.Equal(t, u.CreatedAt.Truncate(time.Microsecond), u.CreatedAt)
	}
}

func TestUserStorage_MissingRows(t *testing.T) {
	ctx := context.Background()
	s := NewUserStorage()

	_, err := s.UpdateUser(ctx, 7, domain.UserFields{FirstName: "A", LastName: "B", Phone: 1})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, 7), domain.ErrUserNotFound)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserStorage_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := NewUserStorage()

	a, _ := s.CreateUser(ctx, domain.UserFields{FirstName: "A", LastName: "A", Phone: 1})
	require.NoError(t, s.DeleteUser(ctx, a.ID))
	b, _ := s.CreateUser(ctx, domain.UserFields{FirstName: "B", LastName: "B", Phone: 2})
	assert.Greater(t, b.ID, a.ID)
}
