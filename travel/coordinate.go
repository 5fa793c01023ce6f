package travel

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether the coordinate is usable: finite, in range, and
// not the (0,0) null island placeholder spreadsheets produce for missing
// data.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	if c.Lat == 0 || c.Lon == 0 {
		return false
	}

	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Haversine returns the great-circle distance between two coordinates in
// meters. Used as the offline fallback when no road-network matrix source
// is available; road distances are always at least this long.
func Haversine(a, b Coordinate) float64 {
	var (
		lat1 = a.Lat * math.Pi / 180
		lat2 = b.Lat * math.Pi / 180
		dLat = (b.Lat - a.Lat) * math.Pi / 180
		dLon = (b.Lon - a.Lon) * math.Pi / 180
	)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
