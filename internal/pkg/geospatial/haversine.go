package geospatial

import (
	"math"

	"github.com/samirrijal/dongne/internal/core/domain"
)

const earthRadiusKm = 6371.0

// KmPerDegree is the length of one degree of latitude on the haversine sphere.
const KmPerDegree = earthRadiusKm * math.Pi / 180

// IsValidCoordinate reports whether p is a physically possible WGS 84 point.
func IsValidCoordinate(p domain.GeoPoint) bool {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) ||
		math.IsInf(p.Latitude, 0) || math.IsInf(p.Longitude, 0) {
		return false
	}
	return math.Abs(p.Latitude) <= 90 && math.Abs(p.Longitude) <= 180
}

// HaversineKm calculates the great-circle distance in kilometres between two points.
func HaversineKm(a, b domain.GeoPoint) float64 {
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	h = math.Min(1, h)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// BoundingBox returns a box that fully encloses the circle of radiusKm around
// center. It is a pre-filter only: its corners lie farther than radiusKm from
// the centre, so candidates must still be checked with HaversineKm.
//
// The longitude span widens with latitude. When the circle reaches a pole the
// span covers all longitudes; when it crosses the antimeridian the returned box
// wraps (Southwest.Longitude > Northeast.Longitude).
func BoundingBox(center domain.GeoPoint, radiusKm float64) domain.BoundingBox {
	d := math.Max(0, radiusKm) / earthRadiusKm // angular radius
	latDelta := toDeg(d)

	minLat := center.Latitude - latDelta
	maxLat := center.Latitude + latDelta

	full := d >= math.Pi/2 || minLat <= -90 || maxLat >= 90
	minLat = math.Max(minLat, -90)
	maxLat = math.Min(maxLat, 90)

	var lonDelta float64
	if !full {
		ratio := math.Sin(d) / math.Cos(toRad(center.Latitude))
		if ratio >= 1 {
			full = true
		} else {
			lonDelta = toDeg(math.Asin(ratio))
		}
	}
	if full || lonDelta >= 180 {
		return domain.BoundingBox{
			Southwest: domain.GeoPoint{Latitude: minLat, Longitude: -180},
			Northeast: domain.GeoPoint{Latitude: maxLat, Longitude: 180},
		}
	}

	minLon := center.Longitude - lonDelta
	maxLon := center.Longitude + lonDelta
	if minLon < -180 {
		minLon += 360
	}
	if maxLon > 180 {
		maxLon -= 360
	}

	return domain.BoundingBox{
		Southwest: domain.GeoPoint{Latitude: minLat, Longitude: minLon},
		Northeast: domain.GeoPoint{Latitude: maxLat, Longitude: maxLon},
	}
}

// NearestRegion returns the name of the table entry closest to p, or "" for
// an empty table. The first entry wins a tie.
func NearestRegion(p domain.GeoPoint, table []domain.RegionEntry) string {
	name := ""
	best := math.Inf(1)
	for _, e := range table {
		if d := HaversineKm(p, e.Center); d < best {
			best = d
			name = e.Name
		}
	}
	return name
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
