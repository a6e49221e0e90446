package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/dongne/internal/core/domain"
)

const listingColumns = `id, seller_id, title, description, price, category, status,
	latitude, longitude, region, image_urls, created_at, updated_at`

// ListingRepo implements ports.ListingRepository with pgx.
type ListingRepo struct {
	db *DB
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(db *DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// Create inserts a listing.
func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	images := l.ImageURLs
	if images == nil {
		images = []string{}
	}
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, l.ID, l.SellerID, l.Title, l.Description, l.Price, string(l.Category), string(l.Status),
		l.Location.Latitude, l.Location.Longitude, l.Location.Region, images, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return storeErr("insert listing", err)
	}
	return nil
}

// GetByID returns a listing by id.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get listing", err)
	}
	return l, nil
}

// QueryListings runs q with range predicates on latitude, longitude and price.
func (r *ListingRepo) QueryListings(ctx context.Context, q domain.ListingQuery) ([]domain.Listing, error) {
	tail, args := buildListingQuery(q)
	rows, err := r.db.Pool.Query(ctx, `SELECT `+listingColumns+` FROM listings `+tail, args...)
	if err != nil {
		return nil, storeErr("query listings", err)
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, storeErr("scan listing", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("query listings", err)
	}
	return listings, nil
}

// UpdateStatus sets the status, optionally only when the current status is *from.
func (r *ListingRepo) UpdateStatus(ctx context.Context, id string, from *domain.ListingStatus, to domain.ListingStatus) (*domain.Listing, error) {
	var expected *string
	if from != nil {
		s := string(*from)
		expected = &s
	}

	row := r.db.Pool.QueryRow(ctx, `
		UPDATE listings SET status = $2, updated_at = now()
		WHERE id = $1 AND ($3::text IS NULL OR status = $3)
		RETURNING `+listingColumns, id, string(to), expected)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if from == nil {
			return nil, domain.ErrNotFound
		}
		var exists bool
		if err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, storeErr("check listing", err)
		}
		if !exists {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrStatusConflict
	}
	if err != nil {
		return nil, storeErr("update listing status", err)
	}
	return l, nil
}

// Delete removes a listing.
func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete listing", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var (
		l                domain.Listing
		category, status string
	)
	if err := row.Scan(
		&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Price, &category, &status,
		&l.Location.Latitude, &l.Location.Longitude, &l.Location.Region, &l.ImageURLs,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.Category = domain.Category(category)
	l.Status = domain.ListingStatus(status)
	return &l, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
