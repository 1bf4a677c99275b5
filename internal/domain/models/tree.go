package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tree species values stored in trees.species.
const (
	SpeciesCoffee     = "coffee"
	SpeciesAvocado    = "avocado"
	SpeciesBanana     = "banana"
	SpeciesGrevillea  = "grevillea"
	SpeciesEucalyptus = "eucalyptus"
)

var speciesLabels = map[string]string{
	SpeciesCoffee:     "Coffee Plant",
	SpeciesAvocado:    "Avocado",
	SpeciesBanana:     "Banana",
	SpeciesGrevillea:  "Grevillea",
	SpeciesEucalyptus: "Eucalyptus",
}

// SpeciesLabel returns the display label for a species value.
// Unknown values are returned unchanged.
func SpeciesLabel(species string) string {
	if l, ok := speciesLabels[species]; ok {
		return l
	}
	return species
}

// IsKnownSpecies reports whether species is one of the enumerated values.
func IsKnownSpecies(species string) bool {
	_, ok := speciesLabels[species]
	return ok
}

// Tree is a planted tree record. Trees are soft-deactivated through IsActive
// and never hard-deleted by the impact reports.
type Tree struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TreeID      string              `bson:"tree_id" json:"tree_id"`
	Species     string              `bson:"species" json:"species"`
	PlantedDate time.Time           `bson:"planted_date" json:"planted_date"` // UTC midnight
	Location    string              `bson:"location,omitempty" json:"location,omitempty"`
	Latitude    *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	FarmerID    *primitive.ObjectID `bson:"farmer_id,omitempty" json:"farmer_id,omitempty"`
	CO2OffsetKg float64             `bson:"co2_offset" json:"co2_offset"`
	IsActive    bool                `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (t *Tree) HasCoordinates() bool {
	return t.Latitude != nil && t.Longitude != nil
}
