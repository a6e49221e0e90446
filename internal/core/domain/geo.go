package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// BoundingBox is an axis-aligned lat/lng rectangle used as a pre-filter for a
// circular search area. When the box crosses the antimeridian,
// Southwest.Longitude is greater than Northeast.Longitude.
type BoundingBox struct {
	Southwest GeoPoint `json:"southwest"`
	Northeast GeoPoint `json:"northeast"`
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Wraps reports whether the box crosses the ±180° longitude seam.
func (b BoundingBox) Wraps() bool {
	return b.Southwest.Longitude > b.Northeast.Longitude
}

// LatitudeRange returns the latitude interval of the box.
func (b BoundingBox) LatitudeRange() Range {
	return Range{Min: b.Southwest.Latitude, Max: b.Northeast.Latitude}
}

// LongitudeRanges returns one interval, or two when the box wraps the seam.
func (b BoundingBox) LongitudeRanges() []Range {
	if !b.Wraps() {
		return []Range{{Min: b.Southwest.Longitude, Max: b.Northeast.Longitude}}
	}
	return []Range{
		{Min: b.Southwest.Longitude, Max: 180},
		{Min: -180, Max: b.Northeast.Longitude},
	}
}

// Contains reports whether p lies inside the box.
func (b BoundingBox) Contains(p GeoPoint) bool {
	if p.Latitude < b.Southwest.Latitude || p.Latitude > b.Northeast.Latitude {
		return false
	}
	for _, r := range b.LongitudeRanges() {
		if p.Longitude >= r.Min && p.Longitude <= r.Max {
			return true
		}
	}
	return false
}

// RegionEntry is a named administrative region with a reference centre.
type RegionEntry struct {
	Name   string   `json:"name" mapstructure:"name"`
	Center GeoPoint `json:"center" mapstructure:"center"`
}
