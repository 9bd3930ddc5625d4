package taxonomy

// Tag is one entry of the classification taxonomy. A nil ParentID marks a
// primary tag; secondaries reference their primary.
type Tag struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	ReferenceRequired bool   `json:"reference_required"`
	ParentID          *uint  `json:"parent_id,omitempty"`
	Priority          int    `json:"priority"`
}

// PrimaryTag is a primary tag with its secondaries attached.
type PrimaryTag struct {
	Tag
	Secondaries []Tag `json:"secondaries"`
}
