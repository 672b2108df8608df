package models

import "gorm.io/gorm"

// Location is a bookable place; its display name is language-dependent
// and lives in LocationValue rows, one per language.
type Location struct {
	gorm.Model
	Values []LocationValue `json:"values" gorm:"foreignKey:LocationID"`
}

type LocationValue struct {
	gorm.Model
	LocationID uint   `json:"locationId" gorm:"not null;index"`
	Language   string `json:"language" gorm:"type:varchar(2);index"`
	Value      string `json:"value"`
}

// Name returns the value for the requested language, falling back to the
// first value when the language has no entry.
func (l *Location) Name(language string) string {
	for _, v := range l.Values {
		if v.Language == language {
			return v.Value
		}
	}
	if len(l.Values) > 0 {
		return l.Values[0].Value
	}
	return ""
}
