package models

import "gorm.io/gorm"

type Property struct {
	gorm.Model
	Name         string   `json:"name"`
	Type         string   `json:"type" gorm:"type:varchar(20);index"` // apartment, house, plot...
	AgencyID     uint     `json:"agencyId" gorm:"not null;index"`
	Agency       User     `json:"agency" gorm:"foreignKey:AgencyID"`
	LocationID   uint     `json:"locationId" gorm:"index"`
	Location     Location `json:"location" gorm:"foreignKey:LocationID"`
	Description  string   `json:"description" gorm:"size:2000"`
	Image        string   `json:"image"` // stored file name under the images dir
	Price        float64  `json:"price"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	Cancellation bool     `json:"cancellation"` // rentals may be cancelled by the renter
	Hidden       bool     `json:"hidden"`
}
