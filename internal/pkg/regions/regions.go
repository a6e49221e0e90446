// Package regions provides the static region table used to label listings
// with the administrative area they are nearest to.
package regions

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/pkg/geospatial"
)

var defaultTable = []domain.RegionEntry{
	{Name: "Seoul", Center: domain.GeoPoint{Latitude: 37.5665, Longitude: 126.9780}},
	{Name: "Busan", Center: domain.GeoPoint{Latitude: 35.1796, Longitude: 129.0756}},
	{Name: "Daegu", Center: domain.GeoPoint{Latitude: 35.8714, Longitude: 128.6014}},
	{Name: "Incheon", Center: domain.GeoPoint{Latitude: 37.4563, Longitude: 126.7052}},
	{Name: "Gwangju", Center: domain.GeoPoint{Latitude: 35.1595, Longitude: 126.8526}},
	{Name: "Daejeon", Center: domain.GeoPoint{Latitude: 36.3504, Longitude: 127.3845}},
	{Name: "Ulsan", Center: domain.GeoPoint{Latitude: 35.5384, Longitude: 129.3114}},
	{Name: "Sejong", Center: domain.GeoPoint{Latitude: 36.4800, Longitude: 127.2890}},
	{Name: "Gyeonggi", Center: domain.GeoPoint{Latitude: 37.2752, Longitude: 127.0095}},
	{Name: "Gangwon", Center: domain.GeoPoint{Latitude: 37.8813, Longitude: 127.7298}},
	{Name: "Chungbuk", Center: domain.GeoPoint{Latitude: 36.6424, Longitude: 127.4890}},
	{Name: "Chungnam", Center: domain.GeoPoint{Latitude: 36.6588, Longitude: 126.6728}},
	{Name: "Jeonbuk", Center: domain.GeoPoint{Latitude: 35.8242, Longitude: 127.1480}},
	{Name: "Jeonnam", Center: domain.GeoPoint{Latitude: 34.8161, Longitude: 126.4629}},
	{Name: "Gyeongbuk", Center: domain.GeoPoint{Latitude: 36.5760, Longitude: 128.5056}},
	{Name: "Gyeongnam", Center: domain.GeoPoint{Latitude: 35.2383, Longitude: 128.6924}},
	{Name: "Jeju", Center: domain.GeoPoint{Latitude: 33.4996, Longitude: 126.5312}},
}

// Default returns a copy of the built-in table of Korean metropolitan and
// provincial regions.
func Default() []domain.RegionEntry {
	out := make([]domain.RegionEntry, len(defaultTable))
	copy(out, defaultTable)
	return out
}

// Load reads a region table from a YAML or JSON file of the form
//
//	regions:
//	  - name: Seoul
//	    center: {latitude: 37.5665, longitude: 126.978}
//
// An empty path returns Default().
func Load(path string) ([]domain.RegionEntry, error) {
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read region table %s: %w", path, err)
	}

	var table []domain.RegionEntry
	if err := v.UnmarshalKey("regions", &table); err != nil {
		return nil, fmt.Errorf("decode region table: %w", err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("region table %s is empty", path)
	}
	for i, e := range table {
		if e.Name == "" {
			return nil, fmt.Errorf("region %d: name is required", i)
		}
		if !geospatial.IsValidCoordinate(e.Center) {
			return nil, fmt.Errorf("region %q: invalid centre %v", e.Name, e.Center)
		}
	}
	return table, nil
}
