package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses. "void" marks an unconfirmed checkout-session booking
// that the expiry sweeper may remove; every other status is permanent
// until changed by an agency or admin.
const (
	BookingStatusVoid      = "void"
	BookingStatusPending   = "pending"
	BookingStatusDeposit   = "deposit"
	BookingStatusPaid      = "paid"
	BookingStatusReserved  = "reserved"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	gorm.Model
	AgencyID   uint     `json:"agencyId" gorm:"not null;index"`
	Agency     User     `json:"agency" gorm:"foreignKey:AgencyID"`
	PropertyID uint     `json:"propertyId" gorm:"not null;index"`
	Property   Property `json:"property" gorm:"foreignKey:PropertyID"`
	LocationID uint     `json:"locationId" gorm:"not null;index"`
	Location   Location `json:"location" gorm:"foreignKey:LocationID"`
	RenterID   uint     `json:"renterId" gorm:"not null;index"`
	Renter     User     `json:"renter" gorm:"foreignKey:RenterID"`

	From  time.Time `json:"from" gorm:"column:from_date"`
	To    time.Time `json:"to" gorm:"column:to_date"`
	Price float64   `json:"price"`

	Status        string `json:"status" gorm:"type:varchar(16);index"`
	Cancellation  bool   `json:"cancellation"`  // booking was sold with the cancellation option
	CancelRequest bool   `json:"cancelRequest"` // renter asked to cancel, pending agency review

	// Set only for bookings created through a hosted checkout session.
	SessionID       string `json:"sessionId" gorm:"index"`
	PaymentIntentID string `json:"paymentIntentId"`

	// Non-nil only while Status is void and the payment session may still
	// be abandoned; cleared once the booking is paid or confirmed.
	ExpireAt *time.Time `json:"expireAt" gorm:"index"`
}
