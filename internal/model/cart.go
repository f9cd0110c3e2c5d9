package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a cart.
type CartItem struct {
	GameID   primitive.ObjectID `bson:"gameId" json:"gameId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart is the single cart document for a user. The document is deleted
// outright when its last item is removed and after a successful checkout.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Find returns the index of the item for gameID, or -1.
func (c *Cart) Find(gameID primitive.ObjectID) int {
	for i, it := range c.Items {
		if it.GameID == gameID {
			return i
		}
	}
	return -1
}
