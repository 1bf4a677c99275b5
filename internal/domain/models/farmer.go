package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Farmer is a supported farming household. Impact reports only count them.
type Farmer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseholdID string             `bson:"household_id,omitempty" json:"household_id,omitempty"`
	FullName    string             `bson:"full_name" json:"full_name"`
	Village     string             `bson:"village,omitempty" json:"village,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// FarmerStory is a published success story about a farmer.
// Content is admin-authored HTML and must be sanitized before display.
type FarmerStory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FarmerID    primitive.ObjectID `bson:"farmer_id" json:"farmer_id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	IsPublished bool               `bson:"is_published" json:"is_published"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
