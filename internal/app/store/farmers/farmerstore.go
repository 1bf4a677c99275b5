package farmerstore

import (
	"context"
	"fmt"
	"time"

	"github.com/onecuponetree/onecup/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store counts farmers and their published success stories.
type Store struct {
	farmers *mongo.Collection
	stories *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		farmers: db.Collection("farmers"),
		stories: db.Collection("farmer_stories"),
	}
}

// Count returns the number of farmer records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.farmers.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count farmers: %w", err)
	}
	return n, nil
}

// CountPublished returns the number of published success stories.
func (s *Store) CountPublished(ctx context.Context) (int64, error) {
	n, err := s.stories.CountDocuments(ctx, bson.M{"is_published": true})
	if err != nil {
		return 0, fmt.Errorf("count published stories: %w", err)
	}
	return n, nil
}

// Insert adds a farmer and returns it with its generated ID.
func (s *Store) Insert(ctx context.Context, f models.Farmer) (models.Farmer, error) {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if _, err := s.farmers.InsertOne(ctx, f); err != nil {
		return models.Farmer{}, fmt.Errorf("insert farmer: %w", err)
	}
	return f, nil
}

// InsertStory adds a success story for a farmer.
func (s *Store) InsertStory(ctx context.Context, st models.FarmerStory) error {
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	if _, err := s.stories.InsertOne(ctx, st); err != nil {
		return fmt.Errorf("insert farmer story: %w", err)
	}
	return nil
}
