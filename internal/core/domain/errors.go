package domain

import "errors"

var (
	// ErrInvalidRadius is returned when a search radius is not positive.
	ErrInvalidRadius = errors.New("search radius must be greater than zero")

	// ErrNotFound is returned by repositories when a listing does not exist.
	ErrNotFound = errors.New("listing not found")

	// ErrStoreUnavailable marks failures of the listing store itself, as
	// opposed to bad input or missing records.
	ErrStoreUnavailable = errors.New("listing store unavailable")

	// ErrInvalidStatus is returned for an unknown listing status.
	ErrInvalidStatus = errors.New("invalid listing status")

	// ErrInvalidCategory is returned for an unknown listing category.
	ErrInvalidCategory = errors.New("invalid listing category")

	// ErrInvalidLocation is returned when a listing is created with an
	// impossible coordinate.
	ErrInvalidLocation = errors.New("invalid listing location")

	// ErrInvalidListing is returned when a new listing is missing required
	// fields.
	ErrInvalidListing = errors.New("invalid listing")

	// ErrStatusConflict is returned when a conditional status update finds the
	// listing in a different state than expected.
	ErrStatusConflict = errors.New("listing status changed concurrently")
)
