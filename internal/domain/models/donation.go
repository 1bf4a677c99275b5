package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation payment statuses. Only PaymentPaid counts toward totals.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Donation is a single gift. Amount is stored as Decimal128 so totals are
// summed without float rounding on the database side.
type Donation struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	DonorName     string               `bson:"donor_name" json:"donor_name"`
	DonorEmail    string               `bson:"donor_email" json:"donor_email"`
	Amount        primitive.Decimal128 `bson:"amount" json:"amount"`
	Currency      string               `bson:"currency" json:"currency"`
	DonationType  string               `bson:"donation_type,omitempty" json:"donation_type,omitempty"`
	Purpose       string               `bson:"purpose,omitempty" json:"purpose,omitempty"`
	PaymentStatus string               `bson:"payment_status" json:"payment_status"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
}
