package orderstore

import (
	"context"
	"fmt"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store reads shop orders.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("orders")}
}

// CupsSold sums item quantities across orders whose status counts as sold.
func (s *Store) CupsSold(ctx context.Context) (int64, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$in": models.SoldOrderStatuses}}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$items.quantity"},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return 0, fmt.Errorf("sum cups sold: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode cups sold: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// Insert adds an order.
func (s *Store) Insert(ctx context.Context, o models.Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}
