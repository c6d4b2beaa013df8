package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/blog-lite/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), GormConfig())
	require.NoError(t, err)

	return NewDatabase(gdb), mock
}

func TestDatabase_SaveUser(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u := &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, d.SaveUser(context.Background(), u))

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, models.DefaultImageFile, u.ImageFile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_SaveUser_DuplicateKey(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := d.SaveUser(context.Background(), &models.User{Username: "alice", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_FindUserByEmail(t *testing.T) {
	d, mock := newMockDatabase(t)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "image_file", "created_at"}).
		AddRow(id.String(), "alice", "a@x.com", "hash", "default.png", time.Now())
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).WillReturnRows(rows)

	u, err := d.FindUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_FindUserByEmail_NotFound(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := d.FindUserByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDatabase_UpdateUser(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u := &models.User{ID: uuid.New(), Username: "alice", Email: "a@x.com", ImageFile: "0123456789abcdef.png"}
	require.NoError(t, d.UpdateUser(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_UpdateUser_Missing(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := d.UpdateUser(context.Background(), &models.User{ID: uuid.New(), Username: "x", Email: "x@x.com"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDatabase_ListPosts_PreloadsAuthor(t *testing.T) {
	d, mock := newMockDatabase(t)
	userID := uuid.New()
	postID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "posts" ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "user_id", "created_at"}).
			AddRow(postID.String(), "Hello", "World", userID.String(), time.Now()))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "image_file", "created_at"}).
			AddRow(userID.String(), "alice", "a@x.com", "hash", "default.png", time.Now()))

	posts, err := d.ListPosts(context.Background(), models.PostOrderNewest)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello", posts[0].Title)
	assert.Equal(t, "alice", posts[0].Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
