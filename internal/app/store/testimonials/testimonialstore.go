package testimonialstore

import (
	"context"
	"fmt"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads testimonials shown on the impact pages.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("testimonials")}
}

// Featured returns up to limit featured testimonials, newest first.
func (s *Store) Featured(ctx context.Context, limit int) ([]models.Testimonial, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.c.Find(ctx, bson.M{"is_featured": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find featured testimonials: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Testimonial{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode testimonials: %w", err)
	}
	return out, nil
}

// Insert adds a testimonial.
func (s *Store) Insert(ctx context.Context, t models.Testimonial) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}
	return nil
}
