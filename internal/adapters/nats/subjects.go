package natsadapter

import (
	"github.com/mmcloughlin/geohash"

	"github.com/samirrijal/dongne/internal/core/domain"
)

const (
	// StreamListings holds every listing event.
	StreamListings = "LISTINGS"

	// AllSubjects matches every listing event subject.
	AllSubjects = subjectPrefix + ">"

	subjectPrefix      = "listing."
	subjectCreatedRoot = subjectPrefix + "created."
	subjectStatusRoot  = subjectPrefix + "status."
	cellPrecision      = 5 // ~4.9 km x 4.9 km cells
)

// CreatedSubject partitions creation events by the geohash cell of the
// listing so clients can follow a neighbourhood.
func CreatedSubject(p domain.GeoPoint) string {
	return subjectCreatedRoot + geohash.EncodeWithPrecision(p.Latitude, p.Longitude, cellPrecision)
}

// StatusSubject is the subject for status changes into status.
func StatusSubject(status domain.ListingStatus) string {
	return subjectStatusRoot + string(status)
}

// NeighbourhoodSubjects returns the created subjects for the cell containing
// p and its eight neighbours.
func NeighbourhoodSubjects(p domain.GeoPoint) []string {
	cell := geohash.EncodeWithPrecision(p.Latitude, p.Longitude, cellPrecision)
	subjects := []string{subjectCreatedRoot + cell}
	for _, n := range geohash.Neighbors(cell) {
		subjects = append(subjects, subjectCreatedRoot+n)
	}
	return subjects
}
