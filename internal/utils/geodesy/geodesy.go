// Package geodesy provides the spherical-earth math the query engine needs:
// great-circle distances compatible with PostGIS ST_DistanceSphere, WGS84
// coordinate bounds checks, and radius-to-envelope conversion for SQL
// pre-filtering of nearest-photo queries.
package geodesy

import "math"

// EarthRadiusMeters is the mean earth radius used for spherical distances.
const EarthRadiusMeters = 6371008.8

// BBox is a geographic envelope in degrees, west/south/east/north.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Contains reports whether the point lies inside the envelope (inclusive).
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North && lon >= b.West && lon <= b.East
}

// ValidLat reports whether lat is a valid WGS84 latitude.
func ValidLat(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLon reports whether lon is a valid WGS84 longitude.
func ValidLon(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// Distance returns the great-circle distance in meters between two
// lat/lon points, using the haversine formula on a sphere of
// EarthRadiusMeters.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Envelope returns a bounding box guaranteed to contain every point within
// radiusMeters of the center. Near the poles the longitude span degenerates,
// in which case the full longitude range is returned.
func Envelope(lat, lon, radiusMeters float64) BBox {
	latDelta := radiusMeters / EarthRadiusMeters * 180 / math.Pi

	box := BBox{
		South: math.Max(lat-latDelta, -90),
		North: math.Min(lat+latDelta, 90),
		West:  -180,
		East:  180,
	}

	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat > 1e-6 {
		lonDelta := latDelta / cosLat
		if lonDelta < 180 {
			box.West = math.Max(lon-lonDelta, -180)
			box.East = math.Min(lon+lonDelta, 180)
		}
	}

	return box
}
