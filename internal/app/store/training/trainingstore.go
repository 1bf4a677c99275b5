package trainingstore

import (
	"context"
	"fmt"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store reads barista training applications.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("training_applications")}
}

// CountSelected counts applicants selected for training.
func (s *Store) CountSelected(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"selected_for_training": true})
	if err != nil {
		return 0, fmt.Errorf("count selected trainees: %w", err)
	}
	return n, nil
}

// Insert adds an application.
func (s *Store) Insert(ctx context.Context, a models.TrainingApplication) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert training application: %w", err)
	}
	return nil
}
