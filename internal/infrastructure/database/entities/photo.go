package entities

import "time"

// Photo represents the persisted photo metadata. Csum is the sha256 of the
// original file content and carries the dedup unique index.
type Photo struct {
	ID         uint   `gorm:"primaryKey"`
	AuthorID   uint   `gorm:"index;not null"`
	FileName   string `gorm:"type:varchar(255);not null"`
	Ref        string `gorm:"type:varchar(128);not null;default:'none'"`
	PrimaryTag string `gorm:"type:varchar(64);not null"`
	Csum       string `gorm:"type:char(64);uniqueIndex;not null"`
	Lat        float64
	Lon        float64
	Created    time.Time `gorm:"not null"`
	IsEnabled  bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Tags []PhotoTag `gorm:"foreignKey:PhotoID"`
}

func (Photo) TableName() string {
	return "photo"
}

// PhotoTag is one secondary classification entry attached to a photo,
// ordered by submission position.
type PhotoTag struct {
	PhotoID  uint   `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(64);primaryKey"`
	Position int    `gorm:"not null;default:0"`
}

func (PhotoTag) TableName() string {
	return "photo_tag"
}
