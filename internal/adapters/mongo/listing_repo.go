package mongoadapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/samirrijal/dongne/internal/core/domain"
)

// ListingRepo implements ports.ListingRepository on a MongoDB collection.
type ListingRepo struct {
	coll *mongo.Collection
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(db *DB) *ListingRepo {
	return &ListingRepo{coll: db.Database.Collection(listingsCollection)}
}

// Create inserts a listing.
func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	if _, err := r.coll.InsertOne(ctx, l); err != nil {
		return storeErr("insert listing", err)
	}
	return nil
}

// GetByID returns a listing by id.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("find listing", err)
	}
	return &l, nil
}

// QueryListings runs q as equality and range clauses, newest first.
func (r *ListingRepo) QueryListings(ctx context.Context, q domain.ListingQuery) ([]domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.coll.Find(ctx, BuildFilter(q), opts)
	if err != nil {
		return nil, storeErr("query listings", err)
	}
	defer cur.Close(ctx)

	listings := []domain.Listing{}
	if err := cur.All(ctx, &listings); err != nil {
		return nil, storeErr("decode listings", err)
	}
	return listings, nil
}

// UpdateStatus sets the status, optionally only when the current status is *from.
func (r *ListingRepo) UpdateStatus(ctx context.Context, id string, from *domain.ListingStatus, to domain.ListingStatus) (*domain.Listing, error) {
	filter := bson.D{{Key: "_id", Value: id}}
	if from != nil {
		filter = append(filter, bson.E{Key: "status", Value: string(*from)})
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(to)},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	var l domain.Listing
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if from == nil {
			return nil, domain.ErrNotFound
		}
		n, cerr := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
		if cerr != nil {
			return nil, storeErr("count listing", cerr)
		}
		if n == 0 {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrStatusConflict
	}
	if err != nil {
		return nil, storeErr("update listing status", err)
	}
	return &l, nil
}

// Delete removes a listing.
func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return storeErr("delete listing", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// BuildFilter translates q into a Mongo filter document. Two or more
// longitude ranges become an $or of range clauses.
func BuildFilter(q domain.ListingQuery) bson.D {
	f := bson.D{}
	if q.Status != nil {
		f = append(f, bson.E{Key: "status", Value: string(*q.Status)})
	}
	if q.Category != nil {
		f = append(f, bson.E{Key: "category", Value: string(*q.Category)})
	}
	if q.SellerID != "" {
		f = append(f, bson.E{Key: "seller_id", Value: q.SellerID})
	}
	if q.Latitude != nil {
		f = append(f, bson.E{Key: "location.latitude", Value: between(*q.Latitude)})
	}
	switch len(q.Longitude) {
	case 0:
	case 1:
		f = append(f, bson.E{Key: "location.longitude", Value: between(q.Longitude[0])})
	default:
		or := bson.A{}
		for _, rg := range q.Longitude {
			or = append(or, bson.D{{Key: "location.longitude", Value: between(rg)}})
		}
		f = append(f, bson.E{Key: "$or", Value: or})
	}
	if q.PriceMin != nil || q.PriceMax != nil {
		price := bson.D{}
		if q.PriceMin != nil {
			price = append(price, bson.E{Key: "$gte", Value: *q.PriceMin})
		}
		if q.PriceMax != nil {
			price = append(price, bson.E{Key: "$lte", Value: *q.PriceMax})
		}
		f = append(f, bson.E{Key: "price", Value: price})
	}
	return f
}

func between(r domain.Range) bson.D {
	return bson.D{{Key: "$gte", Value: r.Min}, {Key: "$lte", Value: r.Max}}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
