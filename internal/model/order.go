package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatusPaid is the only status issued today; there is no payment
// gateway behind checkout, so an order is "paid" the moment it exists.
const OrderStatusPaid = "paid"

// OrderItem is a snapshot of a catalog entry at purchase time. Later catalog
// edits or deletions never change these fields.
type OrderItem struct {
	GameID      primitive.ObjectID `bson:"gameId" json:"gameId"`
	Title       string             `bson:"title" json:"title"`
	Price       float64            `bson:"price" json:"price"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl"`
	Platform    string             `bson:"platform,omitempty" json:"platform"`
	Genre       string             `bson:"genre,omitempty" json:"genre"`
	Developer   string             `bson:"developer,omitempty" json:"developer"`
	SizeGB      float64            `bson:"sizeGB,omitempty" json:"sizeGB"`
	Description string             `bson:"description,omitempty" json:"description"`
	Quantity    int                `bson:"quantity" json:"quantity"`
}

// Order is immutable once created: no mutation or deletion path exists.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
