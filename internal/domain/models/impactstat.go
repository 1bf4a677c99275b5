package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImpactStat is an administrator override for one impact metric.
// Metric holds the canonical metric key; a unique index keeps one row per key.
type ImpactStat struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Metric    string             `bson:"metric" json:"metric"`
	Value     int64              `bson:"value" json:"value"`
	Icon      string             `bson:"icon,omitempty" json:"icon,omitempty"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
