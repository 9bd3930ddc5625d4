package requests

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/schmic75-gasos/fody/internal/domain/photo"
	"github.com/schmic75-gasos/fody/internal/utils/geodesy"
)

// ParseSearchFilter reads the browse filters from query values. Malformed
// bbox and limit values are silently ignored so sloppy clients get the
// unrestricted listing instead of an error.
func ParseSearchFilter(c *gin.Context) domain.SearchFilter {
	filter := domain.SearchFilter{}

	if box, ok := parseBBox(c.Query("bbox")); ok {
		filter.BBox = box
	}
	if raw := c.Query("id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			v := uint(id)
			filter.ID = &v
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if raw := c.Query("disabled"); raw == "1" || strings.EqualFold(raw, "true") {
		filter.IncludeDisabled = true
	}

	return filter
}

// ParseCloseArgs reads the radius query arguments. All three are required
// and must parse.
func ParseCloseArgs(c *gin.Context) (lat, lon, distance float64, err error) {
	lat, err = strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return 0, 0, 0, errors.New("lat is required and must be numeric")
	}
	lon, err = strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return 0, 0, 0, errors.New("lon is required and must be numeric")
	}
	distance, err = strconv.ParseFloat(c.Query("distance"), 64)
	if err != nil || distance <= 0 {
		return 0, 0, 0, errors.New("distance is required and must be a positive number of meters")
	}
	if !geodesy.ValidLat(lat) || !geodesy.ValidLon(lon) {
		return 0, 0, 0, errors.New("center coordinates out of range")
	}
	return lat, lon, distance, nil
}

// ParseCoordinate reads one form coordinate. Absent values are zero, which
// triggers the EXIF fallback downstream; present values must parse.
func ParseCoordinate(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New("coordinate must be numeric")
	}
	return value, nil
}

func parseBBox(raw string) (*geodesy.BBox, bool) {
	if raw == "" {
		return nil, false
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, false
	}
	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	box := &geodesy.BBox{West: values[0], South: values[1], East: values[2], North: values[3]}
	if !geodesy.ValidLon(box.West) || !geodesy.ValidLat(box.South) ||
		!geodesy.ValidLon(box.East) || !geodesy.ValidLat(box.North) {
		return nil, false
	}
	return box, true
}
