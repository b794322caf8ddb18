package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageError_WrapsCause(t *testing.T) {
	cause := context.DeadlineExceeded
	err := fmt.Errorf("update user 3: %w", NewStorageError("update", cause))

	assert.True(t, IsStorageError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "storage error during update")
}

func TestNewStorageError_Nil(t *testing.T) {
	assert.NoError(t, NewStorageError("get", nil))
}

func TestIsStorageError_OtherErrors(t *testing.T) {
	assert.False(t, IsStorageError(ErrUserNotFound))
	assert.False(t, IsStorageError(errors.New("boom")))
	assert.False(t, IsStorageError(nil))
}

func TestUserApply_KeepsIdentity(t *testing.T) {
	addr := "Calle 1"
	u := User{ID: 4, FirstName: "Ana", LastName: "Ruiz", Address: &addr, Phone: 5551234}
	created := u.CreatedAt

	u.Apply(UserFields{FirstName: "Eva", LastName: "Gil", Phone: 5559999})

	assert.EqualValues(t, 4, u.ID)
	assert.Equal(t, created, u.CreatedAt)
	assert.Equal(t, "Eva", u.FirstName)
	assert.Equal(t, "Gil", u.LastName)
	assert.Nil(t, u.Address)
	assert.EqualValues(t, 5559999, u.Phone)
}
