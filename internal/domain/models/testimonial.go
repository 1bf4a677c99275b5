package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Testimonial is a quote shown on the impact pages when featured.
type Testimonial struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author     string             `bson:"author" json:"author"`
	Role       string             `bson:"role,omitempty" json:"role,omitempty"`
	Quote      string             `bson:"quote" json:"quote"`
	IsFeatured bool               `bson:"is_featured" json:"is_featured"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
