package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AliCapone21/nonkabob-guliston/internal/telegram"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  telegram_id INTEGER PRIMARY KEY,
  full_name TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  address_text TEXT NOT NULL DEFAULT '',
  latitude REAL,
  longitude REAL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()

	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func userIdentity(id int64) telegram.Identity {
	return telegram.Identity{Availability: telegram.AvailabilityUser, UserID: id, FirstName: "Ali"}
}

func TestCheckCompleteNewUserPath(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	complete, profile, err := svc.CheckComplete(ctx, userIdentity(777))
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Nil(t, profile)
}

func TestCheckCompleteWithoutUserIdentity(t *testing.T) {
	svc, _ := newTestService(t)

	complete, profile, err := svc.CheckComplete(context.Background(), telegram.Identity{Availability: telegram.AvailabilityUnavailable})
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Nil(t, profile)
}

func TestSaveThenCheckComplete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, SaveProfileDTO{
		TelegramID:  777,
		FullName:    "Ali Valiyev",
		PhoneNumber: "+998901234567",
		AddressText: "Guliston, 4-mavze",
	})
	require.NoError(t, err)
	assert.Equal(t, "+998901234567", saved.PhoneNumber)

	complete, profile, err := svc.CheckComplete(ctx, userIdentity(777))
	require.NoError(t, err)
	assert.True(t, complete)
	require.NotNil(t, profile)
	assert.Equal(t, "Ali Valiyev", profile.FullName)
}

func TestSaveUpsertsExistingProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, SaveProfileDTO{TelegramID: 777, FullName: "Ali", PhoneNumber: "+998901234567"})
	require.NoError(t, err)

	updated, err := svc.Save(ctx, SaveProfileDTO{TelegramID: 777, FullName: "Ali Valiyev", PhoneNumber: "+998909998877"})
	require.NoError(t, err)
	assert.Equal(t, "+998909998877", updated.PhoneNumber)

	profile, err := svc.Get(ctx, 777)
	require.NoError(t, err)
	assert.Equal(t, "Ali Valiyev", profile.FullName)
	assert.Equal(t, "+998909998877", profile.PhoneNumber)
}

func TestSaveNormalizesSharedNumber(t *testing.T) {
	svc, _ := newTestService(t)

	saved, err := svc.Save(context.Background(), SaveProfileDTO{
		TelegramID:  778,
		FullName:    "Vali",
		PhoneNumber: "998 90 123 45 67",
	})
	require.NoError(t, err)
	assert.Equal(t, "+998901234567", saved.PhoneNumber)
}

func TestSaveRejectsForeignOrShortNumbers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, phone := range []string{"+79991234567", "+99890123456", "+9989012345678", "+998"} {
		_, err := svc.Save(ctx, SaveProfileDTO{TelegramID: 779, FullName: "Vali", PhoneNumber: phone})
		require.Error(t, err, "phone %q should be rejected", phone)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
}

func TestSaveEncodesLocationWhenAddressMissing(t *testing.T) {
	svc, _ := newTestService(t)

	lat, lng := 40.489711234, 68.784213456
	saved, err := svc.Save(context.Background(), SaveProfileDTO{
		TelegramID:  780,
		FullName:    "Vali",
		PhoneNumber: "+998901234567",
		Latitude:    &lat,
		Longitude:   &lng,
	})
	require.NoError(t, err)
	assert.Equal(t, "GPS: 40.48971, 68.78421", saved.AddressText)
}

func TestGetMissingProfile(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), 9999)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestIsCompletePhone(t *testing.T) {
	assert.True(t, IsCompletePhone("+998901234567"))
	assert.False(t, IsCompletePhone("998901234567"))
	assert.False(t, IsCompletePhone("+99890123456"))
	assert.False(t, IsCompletePhone("+998901234a67"))
	assert.False(t, IsCompletePhone(""))
}
