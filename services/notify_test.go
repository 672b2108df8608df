package services

import (
	"fmt"
	"testing"

	"github.com/DreamGlimmer/movinin-sub000/models"
	"github.com/DreamGlimmer/movinin-sub000/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var notifyTestSeq int

func setupNotifyDB(t *testing.T) *gorm.DB {
	t.Helper()
	notifyTestSeq++
	dsn := fmt.Sprintf("file:notify_test_%d?mode=memory&cache=shared", notifyTestSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.NotificationCounter{},
	))
	storage.DB = db
	return db
}

func TestNotifyCreatesRecordAndCounter(t *testing.T) {
	db := setupNotifyDB(t)

	user := models.User{Type: models.UserTypeUser, FullName: "Lena", Email: "lena@test.local", Language: "en"}
	require.NoError(t, db.Create(&user).Error)

	bookingID := uint(42)
	require.NoError(t, Notify(&user, &bookingID, "your booking moved"))

	var notification models.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&notification).Error)
	assert.Equal(t, "your booking moved", notification.Message)
	require.NotNil(t, notification.BookingID)
	assert.Equal(t, bookingID, *notification.BookingID)
	assert.False(t, notification.IsRead)

	var counter models.NotificationCounter
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&counter).Error)
	assert.EqualValues(t, 1, counter.Count)

	// Second notification bumps the same row.
	require.NoError(t, Notify(&user, nil, "another update"))
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&counter).Error)
	assert.EqualValues(t, 2, counter.Count)
}

func TestIncrementCounterNeverGoesNegative(t *testing.T) {
	db := setupNotifyDB(t)

	user := models.User{Type: models.UserTypeUser, FullName: "Omar", Email: "omar@test.local"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.NotificationCounter{UserID: user.ID, Count: 1}).Error)

	require.NoError(t, IncrementCounter(user.ID, -5))

	var counter models.NotificationCounter
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&counter).Error)
	assert.EqualValues(t, 0, counter.Count)
}

func TestIncrementCounterUpsertsOnFirstUse(t *testing.T) {
	db := setupNotifyDB(t)

	user := models.User{Type: models.UserTypeUser, FullName: "Pia", Email: "pia@test.local"}
	require.NoError(t, db.Create(&user).Error)

	// First call creates the row, later calls hit the increment branch
	// of the upsert.
	for i := 0; i < 8; i++ {
		require.NoError(t, IncrementCounter(user.ID, 1))
	}

	var counter models.NotificationCounter
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&counter).Error)
	assert.EqualValues(t, 8, counter.Count)

	var rows int64
	require.NoError(t, db.Model(&models.NotificationCounter{}).
		Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}
