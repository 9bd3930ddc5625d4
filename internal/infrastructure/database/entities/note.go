package entities

import "time"

// Note is a free-form uploader comment recorded alongside a photo.
type Note struct {
	ID        uint   `gorm:"primaryKey"`
	PhotoID   uint   `gorm:"index;not null"`
	AuthorID  uint   `gorm:"not null"`
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (Note) TableName() string {
	return "note"
}
