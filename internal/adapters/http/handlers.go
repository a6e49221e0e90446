package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/core/usecases"
	"github.com/samirrijal/dongne/internal/pkg/geospatial"
	"github.com/samirrijal/dongne/internal/pkg/metrics"
)

// NearbyListingsHandler returns available listings within radius_km of
// lat/lng, nearest first. An out-of-range centre falls back to a plain
// category/price browse without distances.
func NearbyListingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		center, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		filters := domain.SearchFilters{
			Center:   center,
			RadiusKm: c.QueryFloat("radius_km", 5),
			Limit:    c.QueryInt("limit", 0),
		}
		if filters.Category, err = queryCategory(c); err != nil {
			return errBadRequest(c, err.Error())
		}
		if filters.PriceMin, err = queryOptionalInt(c, "price_min"); err != nil {
			return errBadRequest(c, err.Error())
		}
		if filters.PriceMax, err = queryOptionalInt(c, "price_max"); err != nil {
			return errBadRequest(c, err.Error())
		}

		mode := "geo"
		if !geospatial.IsValidCoordinate(center) {
			mode = "degraded"
			c.Set("X-Search-Mode", mode)
		}

		page, err := deps.Search.Search(c.UserContext(), filters, c.QueryInt("page", 1))
		if err != nil {
			outcome := "error"
			if errors.Is(err, domain.ErrInvalidRadius) {
				outcome = "invalid"
			}
			metrics.SearchRequests.WithLabelValues(mode, outcome).Inc()
			return writeError(c, err)
		}
		metrics.SearchRequests.WithLabelValues(mode, "ok").Inc()
		metrics.SearchResults.Observe(float64(len(page.Items)))

		pg := paginationOf(page)
		SetLinkHeaders(c, pg)
		c.Set("Cache-Control", "public, max-age=30")
		return c.JSON(PaginatedResponse{Data: page.Items, Pagination: pg})
	}
}

// ListListingsHandler browses listings, newest first.
func ListListingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			f   usecases.ListFilter
			err error
		)
		if f.Category, err = queryCategory(c); err != nil {
			return errBadRequest(c, err.Error())
		}
		if s := c.Query("status"); s != "" {
			status := domain.ListingStatus(s)
			if !status.Valid() {
				return errBadRequest(c, "status must be one of: available, reserved, sold")
			}
			f.Status = &status
		}
		f.SellerID = c.Query("seller_id")

		page, err := deps.Listings.List(c.UserContext(), f, c.QueryInt("page", 1), c.QueryInt("limit", 0))
		if err != nil {
			return writeError(c, err)
		}

		pg := paginationOf(page)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page.Items, Pagination: pg})
	}
}

// SellerListingsHandler returns one seller's listings in any status.
func SellerListingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sellerID := c.Params("id")
		if sellerID == "" {
			return errBadRequest(c, "seller id is required")
		}

		page, err := deps.Listings.ListBySeller(c.UserContext(), sellerID, c.QueryInt("page", 1), c.QueryInt("limit", 0))
		if err != nil {
			return writeError(c, err)
		}

		pg := paginationOf(page)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page.Items, Pagination: pg})
	}
}

// CreateListingHandler stores a new listing. The region is resolved from
// the coordinates when omitted.
func CreateListingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createListingRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if msg := validateRequest(&req); msg != "" {
			return errBadRequest(c, msg)
		}

		listing, err := deps.Listings.Create(c.UserContext(), &domain.Listing{
			SellerID:    req.SellerID,
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Price:       req.Price,
			Category:    domain.Category(req.Category),
			Location: domain.ListingLocation{
				Latitude:  *req.Latitude,
				Longitude: *req.Longitude,
				Region:    req.Region,
			},
			ImageURLs: req.ImageURLs,
		})
		if err != nil {
			return writeError(c, err)
		}
		metrics.ListingsCreated.WithLabelValues(string(listing.Category)).Inc()

		c.Location("/v1/listings/" + listing.ID)
		return c.Status(fiber.StatusCreated).JSON(listing)
	}
}

// GetListingHandler returns a single listing by ID.
func GetListingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "listing id is required")
		}

		listing, err := deps.Listings.GetByID(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(listing)
	}
}

// UpdateListingStatusHandler moves a listing to a new sale status.
func UpdateListingStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "listing id is required")
		}

		var req updateStatusRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if msg := validateRequest(&req); msg != "" {
			return errBadRequest(c, msg)
		}

		listing, err := deps.Listings.UpdateStatus(c.UserContext(), id, domain.ListingStatus(req.Status))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(listing)
	}
}

// DeleteListingHandler removes a listing.
func DeleteListingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "listing id is required")
		}

		if err := deps.Listings.Delete(c.UserContext(), id); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListCategoriesHandler returns the known listing categories.
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(domain.Categories)
	}
}

// ListRegionsHandler returns the configured region table.
func ListRegionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Regions.List())
	}
}

// ResolveRegionHandler names the region nearest to lat/lng.
func ResolveRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if !geospatial.IsValidCoordinate(p) {
			return errBadRequest(c, "lat must be -90..90 and lng must be -180..180")
		}

		region := deps.Regions.ResolveRegion(p)
		if region == "" {
			return errNotFound(c, "no regions configured")
		}
		return c.JSON(fiber.Map{
			"region":   region,
			"location": p,
		})
	}
}

// queryPoint reads the required lat/lng query parameters. Range is not
// checked here.
func queryPoint(c *fiber.Ctx) (domain.GeoPoint, error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return domain.GeoPoint{}, errors.New("lat and lng are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.GeoPoint{}, errors.New("lat must be a number")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return domain.GeoPoint{}, errors.New("lng must be a number")
	}
	return domain.GeoPoint{Latitude: lat, Longitude: lng}, nil
}

func queryCategory(c *fiber.Ctx) (*domain.Category, error) {
	s := c.Query("category")
	if s == "" {
		return nil, nil
	}
	cat := domain.Category(s)
	if !cat.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	return &cat, nil
}

func queryOptionalInt(c *fiber.Ctx, key string) (*int, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.New(key + " must be an integer")
	}
	return &n, nil
}
