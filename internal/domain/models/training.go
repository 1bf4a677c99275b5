package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingApplication is an application to the barista training programme.
type TrainingApplication struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName            string             `bson:"full_name" json:"full_name"`
	Email               string             `bson:"email" json:"email"`
	SelectedForTraining bool               `bson:"selected_for_training" json:"selected_for_training"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
}
