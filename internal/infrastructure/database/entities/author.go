package entities

import "time"

// Author maps an external identity name to the numeric id photos reference.
type Author struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(128);uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Author) TableName() string {
	return "author"
}
