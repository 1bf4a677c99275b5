package donationstore

import (
	"context"
	"fmt"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads paid donations for reports and exports.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

var paidOnly = bson.M{"payment_status": models.PaymentPaid}

// Insert adds a donation. CreatedAt defaults to now.
func (s *Store) Insert(ctx context.Context, d models.Donation) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

// SumPaid returns the total amount of paid donations, or 0 when there are none.
func (s *Store) SumPaid(ctx context.Context) (float64, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: paidOnly}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$toDecimal": "$amount"}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return 0, fmt.Errorf("sum paid donations: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return 0, fmt.Errorf("sum paid donations: %w", err)
		}
		return 0, nil
	}
	var row struct {
		Total primitive.Decimal128 `bson:"total"`
	}
	if err := cur.Decode(&row); err != nil {
		return 0, fmt.Errorf("decode donation total: %w", err)
	}
	return impact.DecimalToFloat(row.Total), nil
}

// SumPaidByMonth sums paid donations per creation month of year.
func (s *Store) SumPaidByMonth(ctx context.Context, year int) (map[time.Month]float64, error) {
	start, end := impact.YearWindow(year)
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"payment_status": models.PaymentPaid,
			"created_at":     bson.M{"$gte": start, "$lt": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$created_at"},
			"total": bson.M{"$sum": bson.M{"$toDecimal": "$amount"}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("aggregate donations by month: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[time.Month]float64)
	for cur.Next(ctx) {
		var row struct {
			Month int                  `bson:"_id"`
			Total primitive.Decimal128 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode donation month: %w", err)
		}
		out[time.Month(row.Month)] = impact.DecimalToFloat(row.Total)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate donation months: %w", err)
	}
	return out, nil
}

// PaidYears returns the distinct years that have a paid donation, newest first.
func (s *Store) PaidYears(ctx context.Context) ([]int, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: paidOnly}},
		{{Key: "$group", Value: bson.M{"_id": bson.M{"$year": "$created_at"}}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("aggregate donation years: %w", err)
	}
	defer cur.Close(ctx)

	years := []int{}
	for cur.Next(ctx) {
		var row struct {
			Year int `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode donation year: %w", err)
		}
		years = append(years, row.Year)
	}
	return years, cur.Err()
}

// RecentPaid returns the newest paid donations, at most limit of them.
func (s *Store) RecentPaid(ctx context.Context, limit int) ([]models.Donation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	return s.find(ctx, paidOnly, opts)
}

// ListPaid returns every paid donation created in year, oldest first.
// Used by the staff exports.
func (s *Store) ListPaid(ctx context.Context, year int) ([]models.Donation, error) {
	start, end := impact.YearWindow(year)
	filter := bson.M{
		"payment_status": models.PaymentPaid,
		"created_at":     bson.M{"$gte": start, "$lt": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, filter, opts)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Donation, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find donations: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Donation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode donations: %w", err)
	}
	return out, nil
}
