package models

import "time"

// Notification is an in-app message for one user, optionally referencing
// the booking it is about. Only IsRead is ever mutated.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Message   string    `json:"message" gorm:"size:500"`
	BookingID *uint     `json:"bookingId" gorm:"index"`
	IsRead    bool      `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotificationCounter is a denormalized unread count per user, adjusted
// with atomic SQL increments so concurrent fan-outs cannot lose updates.
type NotificationCounter struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex"`
	Count     int64     `json:"count" gorm:"default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
