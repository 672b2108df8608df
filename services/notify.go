package services

import (
	"log"

	"github.com/DreamGlimmer/movinin-sub000/models"
	"github.com/DreamGlimmer/movinin-sub000/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Notify records an in-app notification for the user, bumps their unread
// counter, and emails them when they opted in. The counter bump is a
// single SQL upsert-increment, so concurrent fan-outs to the same user
// cannot lose updates.
func Notify(user *models.User, bookingID *uint, message string) error {
	notification := models.Notification{
		UserID:    user.ID,
		BookingID: bookingID,
		Message:   message,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		return err
	}

	if err := IncrementCounter(user.ID, 1); err != nil {
		return err
	}

	if user.NotificationsEnabled() {
		if err := SendMail(user.Email, "Movin' In", message, ""); err != nil {
			// Email is best-effort; the notification itself is recorded.
			log.Printf("notify: email to user %d failed: %v", user.ID, err)
		}
	}
	return nil
}

// IncrementCounter adjusts the user's unread counter by delta, creating
// the row on first use. Negative deltas never take the count below zero.
func IncrementCounter(userID uint, delta int64) error {
	if delta == 0 {
		return nil
	}
	if delta > 0 {
		counter := models.NotificationCounter{UserID: userID, Count: delta}
		return storage.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + ?", delta)}),
		}).Create(&counter).Error
	}
	return storage.DB.Model(&models.NotificationCounter{}).
		Where("user_id = ?", userID).
		Update("count", gorm.Expr("CASE WHEN count + ? < 0 THEN 0 ELSE count + ? END", delta, delta)).Error
}
