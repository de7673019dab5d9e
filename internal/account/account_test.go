package account

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motocare/motocare/internal/database"
	"github.com/motocare/motocare/internal/photos"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return New(db, nil, nil)
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	first, emailSent, err := s.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin)
	assert.False(t, emailSent)

	second, _, err := s.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)
	assert.False(t, second.IsAdmin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, _, err := s.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = s.Register(ctx, "other", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// matching is case-sensitive, a different casing is a new account
	_, _, err = s.Register(ctx, "other", "Alice@example.com", "secret123")
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, _, err := s.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	user, err := s.Authenticate(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = s.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLimit(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	// first registration is already one admin
	admin, _, err := s.Register(ctx, "root", "root@example.com", "secret123")
	require.NoError(t, err)

	for i := 0; i < MaxAdmins-1; i++ {
		_, err := s.CreateAdmin(ctx, fmt.Sprintf("admin%d", i), fmt.Sprintf("admin%d@example.com", i), "secret123")
		require.NoError(t, err)
	}

	_, err = s.CreateAdmin(ctx, "onetoomany", "extra@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAdminLimitReached)

	// promotion past the limit is blocked too
	regular, _, err := s.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)
	_, err = s.ToggleAdmin(ctx, admin.ID, regular.ID)
	assert.ErrorIs(t, err, ErrAdminLimitReached)
}

func TestToggleAdmin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	admin, _, err := s.Register(ctx, "root", "root@example.com", "secret123")
	require.NoError(t, err)
	regular, _, err := s.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	promoted, err := s.ToggleAdmin(ctx, admin.ID, regular.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	demoted, err := s.ToggleAdmin(ctx, admin.ID, regular.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsAdmin)

	_, err = s.ToggleAdmin(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrForbiddenSelfAction)

	_, err = s.ToggleAdmin(ctx, admin.ID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteAccount(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	admin, _, err := s.Register(ctx, "root", "root@example.com", "secret123")
	require.NoError(t, err)
	regular, _, err := s.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteAccount(ctx, admin.ID, admin.ID), ErrForbiddenSelfAction)
	assert.ErrorIs(t, s.DeleteAccount(ctx, admin.ID, 9999), ErrUserNotFound)

	require.NoError(t, s.DeleteAccount(ctx, admin.ID, regular.ID))
	_, err = s.GetUser(ctx, regular.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteAccountRemovesPhotos(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	store, err := photos.NewStore(t.TempDir(), 100, 100, 85)
	require.NoError(t, err)
	s := New(db, nil, store)
	ctx := context.Background()

	admin, _, err := s.Register(ctx, "root", "root@example.com", "secret123")
	require.NoError(t, err)
	victim, _, err := s.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for x := 0; x < 120; x++ {
		for y := 0; y < 80; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	key, err := store.Save(buf.Bytes())
	require.NoError(t, err)

	vehicle := &database.Vehicle{Brand: "Honda", ModelName: "Vario 160", Year: 2023, OwnerID: victim.ID}
	require.NoError(t, db.CreateVehicle(ctx, vehicle))
	require.NoError(t, db.CreateServiceRecord(ctx, &database.ServiceRecord{
		ServiceDate: "2024-03-15",
		KMAtService: 1200,
		Description: "Oil change",
		PhotoKey:    key,
		VehicleID:   vehicle.ID,
	}))

	require.NoError(t, s.DeleteAccount(ctx, admin.ID, victim.ID))

	_, err = os.Stat(store.Path(key))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.ThumbPath(key))
	assert.True(t, os.IsNotExist(err))
}

func TestStats(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, _, err := s.Register(ctx, "root", "root@example.com", "secret123")
	require.NoError(t, err)
	_, _, err = s.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Users)
	assert.EqualValues(t, 1, stats.Admins)
	assert.EqualValues(t, 0, stats.Vehicles)
}
