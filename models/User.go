package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User types. Renters are plain "user" accounts; an agency account owns
// properties and receives booking notifications for them.
const (
	UserTypeAdmin  = "admin"
	UserTypeAgency = "agency"
	UserTypeUser   = "user"
)

type User struct {
	gorm.Model
	Type                     string         `json:"type" gorm:"type:varchar(20);default:user;index"`
	FullName                 string         `json:"fullName"`
	Email                    string         `json:"email" gorm:"uniqueIndex"`
	Password                 string         `json:"-"`
	Phone                    string         `json:"phone"`
	Language                 string         `json:"language" gorm:"type:varchar(2);default:en"`
	Verified                 *bool          `json:"verified"`
	Active                   *bool          `json:"active"`
	Blacklisted              bool           `json:"blacklisted"`
	EnableEmailNotifications *bool          `json:"enableEmailNotifications"`
	AllowsPush               *bool          `json:"allowsPush"`
	PushTokens               datatypes.JSON `json:"pushTokens"`
	Avatar                   string         `json:"avatar"`
	Bio                      string         `json:"bio"`
	CustomerID               string         `json:"customerId"` // payment-processor customer reference
	AgencyID                 *uint          `json:"agencyId" gorm:"index"`
	Agency                   *User          `json:"agency,omitempty" gorm:"foreignKey:AgencyID"`
}

// PushTokenList parses the PushTokens JSON column; an unset column is an
// empty list, not an error.
func (u *User) PushTokenList() []string {
	if u.PushTokens == nil {
		return nil
	}
	var tokens []string
	if err := json.Unmarshal(u.PushTokens, &tokens); err != nil {
		return nil
	}
	return tokens
}

// NotificationsEnabled reports whether the user opted into email
// notifications.
func (u *User) NotificationsEnabled() bool {
	return u.EnableEmailNotifications != nil && *u.EnableEmailNotifications
}

// PushEnabled reports whether push delivery is allowed and at least one
// device token is registered.
func (u *User) PushEnabled() bool {
	return u.AllowsPush != nil && *u.AllowsPush && len(u.PushTokenList()) > 0
}
