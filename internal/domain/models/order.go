package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Paid and confirmed orders count as sold.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderConfirmed = "confirmed"
	OrderFailed    = "failed"
)

// SoldOrderStatuses lists the statuses whose items count as sold.
var SoldOrderStatuses = []string{OrderPaid, OrderConfirmed}

// OrderItem is one cart line captured on an order.
type OrderItem struct {
	ProductName string  `bson:"product_name" json:"product_name"`
	Quantity    int64   `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unit_price" json:"unit_price"`
}

// Order is a shop checkout.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName    string             `bson:"full_name" json:"full_name"`
	Email       string             `bson:"email" json:"email"`
	Items       []OrderItem        `bson:"items" json:"items"`
	TotalAmount float64            `bson:"total_amount" json:"total_amount"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
