package models

import "time"

// Token is a short-lived credential for account activation or password
// reset. Expired rows are removed by the storage sweeper.
type Token struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Value     string    `json:"value" gorm:"size:64;index"`
	ExpireAt  time.Time `json:"expireAt" gorm:"index"`
	CreatedAt time.Time `json:"createdAt"`
}
