package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/DreamGlimmer/movinin-sub000/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var storageTestSeq int

func setupSweeperDB(t *testing.T) *gorm.DB {
	t.Helper()
	storageTestSeq++
	dsn := fmt.Sprintf("file:storage_test_%d?mode=memory&cache=shared", storageTestSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Booking{}, &models.Token{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	DB = db
	return db
}

func TestSweepRemovesOnlyExpiredVoidBookings(t *testing.T) {
	db := setupSweeperDB(t)

	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	expiredVoid := models.Booking{Status: models.BookingStatusVoid, SessionID: "cs_old", ExpireAt: &past,
		AgencyID: 1, PropertyID: 1, LocationID: 1, RenterID: 1}
	liveVoid := models.Booking{Status: models.BookingStatusVoid, SessionID: "cs_live", ExpireAt: &future,
		AgencyID: 1, PropertyID: 1, LocationID: 1, RenterID: 1}
	paid := models.Booking{Status: models.BookingStatusPaid,
		AgencyID: 1, PropertyID: 1, LocationID: 1, RenterID: 1}
	for _, b := range []*models.Booking{&expiredVoid, &liveVoid, &paid} {
		if err := db.Create(b).Error; err != nil {
			t.Fatalf("failed to seed booking: %v", err)
		}
	}

	SweepExpired(now)

	var gone, survivingVoid, survivingPaid models.Booking
	if err := db.First(&gone, expiredVoid.ID).Error; err == nil {
		t.Fatal("expected the expired void booking to be swept")
	}
	if err := db.First(&survivingVoid, liveVoid.ID).Error; err != nil {
		t.Fatal("a void booking that has not expired must survive")
	}
	if err := db.First(&survivingPaid, paid.ID).Error; err != nil {
		t.Fatal("a paid booking must survive the sweeper")
	}
}

func TestSweepRemovesExpiredTokens(t *testing.T) {
	db := setupSweeperDB(t)

	now := time.Now()
	expired := models.Token{UserID: 1, Value: "aaaa", ExpireAt: now.Add(-time.Minute)}
	live := models.Token{UserID: 1, Value: "bbbb", ExpireAt: now.Add(time.Hour)}
	for _, tok := range []*models.Token{&expired, &live} {
		if err := db.Create(tok).Error; err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}

	SweepExpired(now)

	var gone models.Token
	if err := db.First(&gone, expired.ID).Error; err == nil {
		t.Fatal("expected the expired token to be swept")
	}
	if err := db.First(&gone, live.ID).Error; err != nil {
		t.Fatal("a live token must survive the sweeper")
	}
}

func TestExpiryConfigDefaults(t *testing.T) {
	if got := BookingExpireAfter(); got != 30*time.Minute {
		t.Fatalf("expected default booking expiry of 30m, got %s", got)
	}
	if got := TokenExpireAfter(); got != 24*time.Hour {
		t.Fatalf("expected default token expiry of 24h, got %s", got)
	}

	t.Setenv("BOOKING_EXPIRE_MINUTES", "5")
	if got := BookingExpireAfter(); got != 5*time.Minute {
		t.Fatalf("expected configured booking expiry of 5m, got %s", got)
	}
}
