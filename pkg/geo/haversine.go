package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// MetersPerDegreeLat is the length of one degree of latitude on the mean sphere.
const MetersPerDegreeLat = math.Pi / 180 * earthRadiusMeters

// Coordinates is a WGS84 point in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b Coordinates) float64 {
	return Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
}

// BoundingBox returns the degree box enclosing a circle of radiusMeters around
// (lat, lng). The box is widened near the poles and never exceeds the valid
// coordinate range.
func BoundingBox(lat, lng, radiusMeters float64) (minLat, minLng, maxLat, maxLng float64) {
	dLat := radiusMeters / MetersPerDegreeLat
	cosLat := math.Cos(lat * math.Pi / 180)
	dLng := 180.0
	if cosLat > 1e-9 {
		dLng = math.Min(180, dLat/cosLat)
	}
	minLat = math.Max(-90, lat-dLat)
	maxLat = math.Min(90, lat+dLat)
	minLng = math.Max(-180, lng-dLng)
	maxLng = math.Min(180, lng+dLng)
	return minLat, minLng, maxLat, maxLng
}
