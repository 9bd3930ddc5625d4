package entities

// Tag is one entry of the classification taxonomy. A NULL parent marks a
// primary tag; secondaries point at their primary via ParentID.
type Tag struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Description       string `gorm:"type:text;not null;default:''"`
	ReferenceRequired bool   `gorm:"not null;default:false"`
	ParentID          *uint  `gorm:"index"`
	Priority          int    `gorm:"not null;default:0"`
}

func (Tag) TableName() string {
	return "tag"
}
