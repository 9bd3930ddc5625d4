package photo

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// createdLayout is the display format of the capture timestamp in feature
// properties.
const createdLayout = "2006.01.02 15:04:05"

// RefNone is the sentinel reference code for photos without a usable one.
const RefNone = "none"

var refPattern = regexp.MustCompile(`^[a-zA-Z0-9/.; ]+$`)

// Photo represents a stored photo and its spatial metadata.
type Photo struct {
	ID         uint      `json:"id"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author"`
	FileName   string    `json:"file_name"`
	Ref        string    `json:"ref"`
	Tags       TagSet    `json:"tags"`
	Created    time.Time `json:"created"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Csum       string    `json:"csum"`
	Enabled    bool      `json:"enabled"`
}

// TagSet is a photo's classification: one primary tag plus ordered
// secondaries.
type TagSet struct {
	Primary     string   `json:"primary"`
	Secondaries []string `json:"secondaries,omitempty"`
}

// Display flattens the set for feature properties: entries joined with ";",
// each entry is the tag name followed by ":" (e.g. "rozcestnik:;konzolovy:").
func (t TagSet) Display() string {
	parts := make([]string, 0, 1+len(t.Secondaries))
	if t.Primary != "" {
		parts = append(parts, t.Primary+":")
	}
	for _, name := range t.Secondaries {
		parts = append(parts, name+":")
	}
	return strings.Join(parts, ";")
}

// SanitizeRef normalizes a submitted reference code. Codes are restricted to
// letters, digits and "/.; "; spaces are stripped from valid codes, anything
// else collapses to the sentinel RefNone.
func SanitizeRef(raw string) string {
	if raw == "" || !refPattern.MatchString(raw) {
		return RefNone
	}
	cleaned := strings.ReplaceAll(raw, " ", "")
	if cleaned == "" {
		return RefNone
	}
	return cleaned
}

// IngestRequest carries one upload through the pipeline.
type IngestRequest struct {
	Identity      string
	FileName      string
	Data          []byte
	Lat           float64
	Lon           float64
	PrimaryTag    string
	SecondaryTags []string
	Ref           string
	Note          string
}

// RelocateRequest moves an existing photo to corrected coordinates.
type RelocateRequest struct {
	Identity string
	PhotoID  uint
	Lat      float64
	Lon      float64
	Note     string
}

// Geometry is a GeoJSON point, coordinates ordered lon/lat.
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureProperties are the per-photo attributes exposed by queries.
type FeatureProperties struct {
	ID       uint     `json:"id"`
	Author   string   `json:"author"`
	Ref      string   `json:"ref"`
	Tags     string   `json:"tags"`
	Created  string   `json:"created"`
	Enabled  bool     `json:"enabled"`
	Distance *float64 `json:"distance,omitempty"`
}

// Feature is one photo as a GeoJSON feature.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureCollection is the query result envelope.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeature converts a photo into its GeoJSON representation.
func NewFeature(p Photo) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: [2]float64{p.Lon, p.Lat},
		},
		Properties: FeatureProperties{
			ID:      p.ID,
			Author:  p.AuthorName,
			Ref:     p.Ref,
			Tags:    p.Tags.Display(),
			Created: p.Created.Format(createdLayout),
			Enabled: p.Enabled,
		},
	}
}

// NewFeatureCollection builds a collection with a non-nil feature slice so
// empty results serialize as [].
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// OriginalKey is the storage key of the original photo bytes.
func OriginalKey(id uint) string {
	return fmt.Sprintf("photos/%d.jpg", id)
}

// ThumbnailKey is the storage key of the 250px derivative.
func ThumbnailKey(id uint) string {
	return fmt.Sprintf("photos/250px/%d.jpg", id)
}
