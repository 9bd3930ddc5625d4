// Package exifmeta extracts the two pieces of embedded photo metadata the
// ingestion pipeline depends on: the capture timestamp and, when the
// uploader supplied no coordinates, the GPS position.
package exifmeta

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// timestampLayout is the EXIF convention for DateTime fields.
const timestampLayout = "2006:01:02 15:04:05"

var (
	// ErrNoCaptureTime is returned when neither DateTime nor
	// DateTimeOriginal is present and parseable.
	ErrNoCaptureTime = errors.New("exifmeta: no capture timestamp in metadata")

	// ErrNoLocation is returned when the GPS fields are absent or malformed.
	ErrNoLocation = errors.New("exifmeta: no GPS position in metadata")
)

// Extractor reads metadata with goexif. The zero value is ready to use.
type Extractor struct{}

// CaptureTime returns the embedded capture timestamp, preferring the
// DateTime field and falling back to DateTimeOriginal.
func (Extractor) CaptureTime(data []byte) (time.Time, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return time.Time{}, ErrNoCaptureTime
	}

	for _, field := range []exif.FieldName{exif.DateTime, exif.DateTimeOriginal} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		if ts, err := parseTimestamp(raw); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, ErrNoCaptureTime
}

// Location returns the embedded GPS position in decimal degrees. The EXIF
// encoding is degree/minute/second rationals plus N/S/E/W hemisphere
// reference letters; southern and western hemispheres yield negative values.
func (Extractor) Location(data []byte) (float64, float64, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, ErrNoLocation
	}

	lat, err := coordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if err != nil {
		return 0, 0, err
	}
	lon, err := coordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if err != nil {
		return 0, 0, err
	}

	return lat, lon, nil
}

func coordinate(x *exif.Exif, field, refField exif.FieldName) (float64, error) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, ErrNoLocation
	}
	refTag, err := x.Get(refField)
	if err != nil {
		return 0, ErrNoLocation
	}
	ref, err := refTag.StringVal()
	if err != nil {
		return 0, ErrNoLocation
	}

	deg, err := ratComponent(tag, 0)
	if err != nil {
		return 0, err
	}
	min, err := ratComponent(tag, 1)
	if err != nil {
		return 0, err
	}
	sec, err := ratComponent(tag, 2)
	if err != nil {
		return 0, err
	}

	return applyRef(dmsToDegrees(deg, min, sec), ref)
}

func ratComponent(tag *tiff.Tag, index int) (float64, error) {
	num, den, err := tag.Rat2(index)
	if err != nil || den == 0 {
		return 0, ErrNoLocation
	}
	return float64(num) / float64(den), nil
}

func dmsToDegrees(deg, min, sec float64) float64 {
	return deg + (min*60+sec)/3600
}

func applyRef(value float64, ref string) (float64, error) {
	switch strings.ToUpper(strings.TrimSpace(ref)) {
	case "N", "E":
		return value, nil
	case "S", "W":
		return -value, nil
	default:
		return 0, fmt.Errorf("exifmeta: unknown hemisphere reference %q: %w", ref, ErrNoLocation)
	}
}

func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(timestampLayout, strings.TrimSpace(raw))
}
