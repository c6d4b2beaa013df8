package services

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/blog-lite/internal/models"
	"github.com/thereayou/blog-lite/internal/pictures"
)

func pngUpload(t *testing.T, w, h int) *PictureUpload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.White), imaging.PNG))
	return &PictureUpload{Filename: "me.png", Body: &buf}
}

func newUserService(t *testing.T, f *fixture) (*UserService, string) {
	t.Helper()
	dir := t.TempDir()
	mgr := pictures.NewManager(pictures.NewLocalStorage(dir, "/static/imgs"), pictures.DefaultSize, 0, f.logger)
	require.NoError(t, mgr.EnsureDefault(context.Background()))
	return NewUserService(f.db, mgr, f.logger), dir
}

func TestUserService_UpdateAccount_ReplacesPicture(t *testing.T) {
	f := newFixture(t)
	svc, dir := newUserService(t, f)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateAccount(ctx, user, UpdateAccountRequest{
		Username: "alice", Email: "a@x.com", Picture: pngUpload(t, 300, 300),
	}))
	first := user.ImageFile
	assert.NotEqual(t, models.DefaultImageFile, first)
	assert.FileExists(t, filepath.Join(dir, first))
	assert.FileExists(t, filepath.Join(dir, models.DefaultImageFile), "default survives replacement")

	require.NoError(t, svc.UpdateAccount(ctx, user, UpdateAccountRequest{
		Username: "alice", Email: "a@x.com", Picture: pngUpload(t, 80, 40),
	}))
	second := user.ImageFile
	assert.NotEqual(t, first, second)
	assert.FileExists(t, filepath.Join(dir, second))
	_, err = os.Stat(filepath.Join(dir, first))
	assert.True(t, os.IsNotExist(err), "old picture removed")

	stored, err := f.db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second, stored.ImageFile)
}

func TestUserService_UpdateAccount_FieldsOnly(t *testing.T) {
	f := newFixture(t)
	svc, _ := newUserService(t, f)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateAccount(ctx, user, UpdateAccountRequest{Username: "alicia", Email: "alicia@x.com"}))
	assert.Equal(t, models.DefaultImageFile, user.ImageFile)

	stored, err := f.db.FindUserByEmail(ctx, "alicia@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alicia", stored.Username)
}

func TestUserService_UpdateAccount_TakenFields(t *testing.T) {
	f := newFixture(t)
	svc, _ := newUserService(t, f)
	ctx := context.Background()

	alice, err := f.auth.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, RegisterRequest{Username: "bob", Email: "b@x.com", Password: "pw"})
	require.NoError(t, err)

	err = svc.UpdateAccount(ctx, alice, UpdateAccountRequest{Username: "bob", Email: "b@x.com"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, msgUsernameTaken, verr.Fields["username"])
	assert.Equal(t, msgEmailTaken, verr.Fields["email"])
	assert.Equal(t, "alice", alice.Username, "user untouched on failure")
}

func TestUserService_UpdateAccount_BadImage(t *testing.T) {
	f := newFixture(t)
	svc, dir := newUserService(t, f)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	err = svc.UpdateAccount(ctx, user, UpdateAccountRequest{
		Username: "alice", Email: "a@x.com",
		Picture: &PictureUpload{Filename: "x.png", Body: bytes.NewReader([]byte("nope"))},
	})
	assert.ErrorIs(t, err, pictures.ErrInvalidImage)
	assert.Equal(t, models.DefaultImageFile, user.ImageFile)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the default picture")
}

func TestUserService_UpdateAccount_LengthAfterTrim(t *testing.T) {
	f := newFixture(t)
	svc, _ := newUserService(t, f)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	err = svc.UpdateAccount(ctx, user, UpdateAccountRequest{Username: " b ", Email: "a@x.com"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
	assert.Contains(t, verr.Fields, "username")

	stored, err := f.db.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, "alice", user.Username)
}
