package storage

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/DreamGlimmer/movinin-sub000/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.LocationValue{},
		&models.Property{},
		&models.Booking{},
		&models.Notification{},
		&models.NotificationCounter{},
		&models.Token{},
	)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}

// BookingExpireAfter is how long an unconfirmed checkout-session booking
// survives before the sweeper removes it.
func BookingExpireAfter() time.Duration {
	return envMinutes("BOOKING_EXPIRE_MINUTES", 30)
}

// TokenExpireAfter bounds the life of activation/reset tokens.
func TokenExpireAfter() time.Duration {
	return envMinutes("TOKEN_EXPIRE_MINUTES", 24*60)
}

func envMinutes(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return time.Duration(fallback) * time.Minute
}

// StartExpirySweeper periodically removes expired rows: void bookings
// whose payment session was abandoned, and stale activation/reset
// tokens. This stands in for the TTL indexes a document store would
// maintain on its own. The goroutine stops when ctx is cancelled.
func StartExpirySweeper(ctx context.Context) {
	interval := envMinutes("SWEEP_INTERVAL_MINUTES", 1)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				SweepExpired(time.Now())
			}
		}
	}()
}

// SweepExpired runs one sweep pass against the given reference time.
func SweepExpired(now time.Time) {
	res := DB.Where("status = ? AND expire_at IS NOT NULL AND expire_at < ?",
		models.BookingStatusVoid, now).Delete(&models.Booking{})
	if res.Error != nil {
		log.Printf("sweeper: failed to delete expired bookings: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("sweeper: removed %d expired temp bookings", res.RowsAffected)
	}

	res = DB.Where("expire_at < ?", now).Delete(&models.Token{})
	if res.Error != nil {
		log.Printf("sweeper: failed to delete expired tokens: %v", res.Error)
	}
}
