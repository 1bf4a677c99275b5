// internal/app/store/trees/treestore.go
package treestore

import (
	"context"
	"fmt"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/impact"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides read access to the trees collection for impact reports,
// plus the insert used by the seed command.
type Store struct {
	c *mongo.Collection
}

// New creates a new trees store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("trees")}
}

// Insert adds a tree. CreatedAt defaults to now.
func (s *Store) Insert(ctx context.Context, t models.Tree) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert tree %s: %w", t.TreeID, err)
	}
	return nil
}

// CountActive counts trees with is_active = true.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, fmt.Errorf("count active trees: %w", err)
	}
	return n, nil
}

// CountByMonth counts trees planted in each month of year.
// Months with no plantings are absent from the map.
func (s *Store) CountByMonth(ctx context.Context, year int) (map[time.Month]int64, error) {
	start, end := impact.YearWindow(year)
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"planted_date": bson.M{"$gte": start, "$lt": end}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$planted_date"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("aggregate trees by month: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[time.Month]int64)
	for cur.Next(ctx) {
		var row struct {
			Month int   `bson:"_id"`
			Count int64 `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode tree month: %w", err)
		}
		out[time.Month(row.Month)] = row.Count
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate tree months: %w", err)
	}
	return out, nil
}

// Years returns the distinct planting years.
func (s *Store) Years(ctx context.Context) ([]int, error) {
	return distinctYears(ctx, s.c, bson.M{"planted_date": bson.M{"$ne": nil}}, "$planted_date")
}

// TopLocations returns up to limit locations ordered by tree count, highest
// first, with ties ordered by location. Locations are trimmed before
// grouping, and blank or whitespace-only ones are excluded ahead of the limit.
func (s *Store) TopLocations(ctx context.Context, limit int) ([]impact.LocationCount, error) {
	if limit <= 0 {
		limit = impact.DefaultTopLocations
	}
	pipe := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"loc": bson.M{"$trim": bson.M{"input": bson.M{"$ifNull": bson.A{"$location", ""}}}},
		}}},
		{{Key: "$match", Value: bson.M{"loc": bson.M{"$ne": ""}}}},
		{{Key: "$group", Value: bson.M{"_id": "$loc", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("aggregate tree locations: %w", err)
	}
	defer cur.Close(ctx)

	out := []impact.LocationCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode tree locations: %w", err)
	}
	return out, nil
}

// Geocoded returns trees that carry both latitude and longitude, ordered by _id.
func (s *Store) Geocoded(ctx context.Context) ([]models.Tree, error) {
	filter := bson.M{
		"latitude":  bson.M{"$ne": nil},
		"longitude": bson.M{"$ne": nil},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{
			"tree_id":      1,
			"species":      1,
			"planted_date": 1,
			"latitude":     1,
			"longitude":    1,
		})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find geocoded trees: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Tree
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode geocoded trees: %w", err)
	}
	return out, nil
}

// distinctYears groups the matching documents by the calendar year of
// dateField and returns the years newest first.
func distinctYears(ctx context.Context, c *mongo.Collection, match bson.M, dateField string) ([]int, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": bson.M{"$year": dateField}}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
	}

	cur, err := c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s years: %w", c.Name(), err)
	}
	defer cur.Close(ctx)

	years := []int{}
	for cur.Next(ctx) {
		var row struct {
			Year int `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode %s year: %w", c.Name(), err)
		}
		years = append(years, row.Year)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s years: %w", c.Name(), err)
	}
	return years, nil
}
