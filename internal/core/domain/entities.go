package domain

import (
	"time"
)

// Category groups listings for browsing and filtering.
type Category string

const (
	CategoryDigital   Category = "digital"
	CategoryAppliance Category = "appliance"
	CategoryFurniture Category = "furniture"
	CategoryFashion   Category = "fashion"
	CategoryBeauty    Category = "beauty"
	CategoryKids      Category = "kids"
	CategorySports    Category = "sports"
	CategoryBooks     Category = "books"
	CategoryHobby     Category = "hobby"
	CategoryPet       Category = "pet"
	CategoryOther     Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryDigital, CategoryAppliance, CategoryFurniture, CategoryFashion, CategoryBeauty,
	CategoryKids, CategorySports, CategoryBooks, CategoryHobby, CategoryPet, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ListingStatus is the sale state of a listing.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusReserved  ListingStatus = "reserved"
	StatusSold      ListingStatus = "sold"
)

// Valid reports whether s is a known status.
func (s ListingStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

// ListingLocation is where the item can be picked up.
type ListingLocation struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	Region    string  `json:"region" bson:"region"`
}

// Point returns the location as a GeoPoint.
func (l ListingLocation) Point() GeoPoint {
	return GeoPoint{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Listing is an item offered for sale by a seller.
type Listing struct {
	ID          string          `json:"id" bson:"_id"`
	SellerID    string          `json:"seller_id" bson:"seller_id"`
	Title       string          `json:"title" bson:"title"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	Price       int             `json:"price" bson:"price"`
	Category    Category        `json:"category" bson:"category"`
	Status      ListingStatus   `json:"status" bson:"status"`
	Location    ListingLocation `json:"location" bson:"location"`
	ImageURLs   []string        `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

// ListingQuery is the filter a listing store can execute: equality on scalar
// fields and inclusive ranges on coordinates and price. Longitude ranges are
// OR-ed. Results are ordered by creation time, newest first. A zero Limit
// means no limit.
type ListingQuery struct {
	Status    *ListingStatus
	Category  *Category
	SellerID  string
	Latitude  *Range
	Longitude []Range
	PriceMin  *int
	PriceMax  *int
	Offset    int
	Limit     int
}

// SearchFilters is a proximity search request.
type SearchFilters struct {
	Center   GeoPoint  `json:"center"`
	RadiusKm float64   `json:"radius_km"`
	Category *Category `json:"category,omitempty"`
	PriceMin *int      `json:"price_min,omitempty"`
	PriceMax *int      `json:"price_max,omitempty"`
	Limit    int       `json:"limit,omitempty"`
}

// SearchResultItem is a listing annotated with its distance from the search
// centre. DistanceKm is nil when the centre was not a valid coordinate.
type SearchResultItem struct {
	Listing    Listing  `json:"listing"`
	DistanceKm *float64 `json:"distance_km,omitempty"` // computed field
}

// Listing event types.
const (
	EventListingCreated       = "created"
	EventListingStatusChanged = "status_changed"
)

// ListingEvent is published when a listing is created or changes status.
type ListingEvent struct {
	Type      string        `json:"type"`
	ListingID string        `json:"listing_id"`
	SellerID  string        `json:"seller_id"`
	Status    ListingStatus `json:"status"`
	Category  Category      `json:"category"`
	Location  GeoPoint      `json:"location"`
	Region    string        `json:"region,omitempty"`
	Time      time.Time     `json:"time"`
}
