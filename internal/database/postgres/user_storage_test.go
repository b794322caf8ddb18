package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veganum/userapi/internal/domain"
	"github.com/veganum/userapi/internal/logger"
)

var (
	userColumns = []string{"id", "first_name", "last_name", "address", "phone", "created_at"}
	createdAt   = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	selectAll  = regexp.QuoteMeta(`SELECT * FROM "users"`)
	selectByID = regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)
	insertUser = regexp.QuoteMeta(`INSERT INTO "users"`)
	updateUser = regexp.QuoteMeta(`UPDATE "users" SET "first_name"=$1,"last_name"=$2,"address"=$3,"phone"=$4 WHERE`)
	deleteUser = regexp.QuoteMeta(`DELETE FROM "users"`)
)

func newTestStorage(t *testing.T) (*GormUserStorage, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := NewGormDB(sqlDB, logger.Discard())
	require.NoError(t, err)

	s := NewGormUserStorage(gdb, logger.Discard())
	s.now = func() time.Time { return createdAt }
	return s, mock
}

func anaRow() *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).AddRow(1, "Ana", "Ruiz", nil, 5551234, createdAt)
}

func TestListUsers(t *testing.T) {
	s, mock := newTestStorage(t)

	rows := anaRow().AddRow(2, "Luis", "Gil", "Calle 2", 5550000, createdAt)
	mock.ExpectQuery(selectAll).WillReturnRows(rows)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana", users[0].FirstName)
	assert.Nil(t, users[0].Address)
	require.NotNil(t, users[1].Address)
	assert.Equal(t, "Calle 2", *users[1].Address)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers_Empty(t *testing.T) {
	s, mock := newTestStorage(t)
	mock.ExpectQuery(selectAll).WillReturnRows(sqlmock.NewRows(userColumns))

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers_StorageFault(t *testing.T) {
	s, mock := newTestStorage(t)
	mock.ExpectQuery(selectAll).WillReturnError(errors.New("connection refused"))

	_, err := s.ListUsers(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsStorageError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID(t *testing.T) {
	s, mock := newTestStorage(t)
	mock.ExpectQuery(selectByID).WillReturnRows(anaRow())

	user, err := s.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.EqualValues(t, 1, user.ID)
	assert.EqualValues(t, 5551234, user.Phone)
	assert.True(t, createdAt.Equal(user.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID_NotFoundIsNotAnError(t *testing.T) {
	s, mock := newTestStorage(t)
	mock.ExpectQuery(selectByID).WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := s.GetUserByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID_StorageFault(t *testing.T) {
	s, mock := newTestStorage(t)
	mock.ExpectQuery(selectByID).WillReturnError(errors.New("timeout"))

	user, err := s.GetUserByID(context.Background(), 1)
	assert.Nil(t, user)
	assert.True(t, domain.IsStorageError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertUser).
		WithArgs("Ana", "Ruiz", sqlmock.AnyArg(), int64(5551234), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	user, err := s.CreateUser(context.Background(), domain.UserFields{FirstName: "Ana", LastName: "Ruiz", Phone: 5551234})
	require.NoError(t, err)
	assert.EqualValues(t, 1, user.ID)
	assert.Nil(t, user.Address)
	assert.Equal(t, createdAt, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// capturedTime запоминает переданный в запрос time.Time
type capturedTime struct{ v time.Time }

func (c *capturedTime) Match(v driver.Value) bool {
	t, ok := v.(time.Time)
	if ok {
		c.v = t
	}
	return ok
}

func TestCreateUser_CreatedAtMatchesStoredPrecision(t *testing.T) {
	s, mock := newTestStorage(t)
	s.now = nowMicro

	for i := 1; i <= 20; i++ {
		stored := &capturedTime{}
		mock.ExpectBegin()
		mock.ExpectQuery(insertUser).
			WithArgs("Ana", "Ruiz", sqlmock.AnyArg(), int64(5551234), stored).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(i))
		mock.ExpectCommit()

		user, err := s.CreateUser(context.Background(), domain.UserFields{FirstName: "Ana", LastName: "Ruiz", Phone: 5551234})
		require.NoError(t, err)

		assert.Equal(t, user.CreatedAt.Truncate(time.Microsecond), user.CreatedAt)
		assert.True(t, stored.v.Equal(user.CreatedAt))
		assert.Equal(t, time.UTC, user.CreatedAt.Location())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_RollsBackOnFault(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertUser).WillReturnError(errors.New("null value in column \"first_name\""))
	mock.ExpectRollback()

	user, err := s.CreateUser(context.Background(), domain.UserFields{LastName: "Ruiz", Phone: 1})
	assert.Nil(t, user)
	assert.True(t, domain.IsStorageError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_OverwritesFieldsOnly(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectByID).WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow(1, "Ana", "Ruiz", "Calle 1", 5551234, createdAt))
	mock.ExpectExec(updateUser).
		WithArgs("Ana", "Ruiz", sqlmock.AnyArg(), int64(5559999), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, err := s.UpdateUser(context.Background(), 1, domain.UserFields{FirstName: "Ana", LastName: "Ruiz", Phone: 5559999})
	require.NoError(t, err)
	assert.EqualValues(t, 1, user.ID)
	assert.EqualValues(t, 5559999, user.Phone)
	assert.Nil(t, user.Address, "missing address overwrites the stored one")
	assert.True(t, createdAt.Equal(user.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NotFound(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectByID).WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectRollback()

	_, err := s.UpdateUser(context.Background(), 9, domain.UserFields{FirstName: "A", LastName: "B", Phone: 1})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.False(t, domain.IsStorageError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_RollsBackOnFault(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectByID).WillReturnRows(anaRow())
	mock.ExpectExec(updateUser).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := s.UpdateUser(context.Background(), 1, domain.UserFields{FirstName: "Ana", LastName: "Ruiz", Phone: 1})
	assert.True(t, domain.IsStorageError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectByID).WillReturnRows(anaRow())
	mock.ExpectExec(deleteUser).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteUser(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_NotFound(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectByID).WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectRollback()

	err := s.DeleteUser(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_VanishedBetweenReadAndDelete(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectByID).WillReturnRows(anaRow())
	mock.ExpectExec(deleteUser).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteUser(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
