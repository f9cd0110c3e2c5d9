package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameKey statuses. The only allowed transition is unused -> used.
const (
	KeyStatusUnused = "unused"
	KeyStatusUsed   = "used"
)

// GameKey is one redeemable license key: one document per purchased unit.
// The key string carries a unique index, which is the real uniqueness
// backstop behind the generator's check-then-use protocol.
type GameKey struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	GameID  primitive.ObjectID `bson:"gameId" json:"gameId"`
	OrderID primitive.ObjectID `bson:"orderId" json:"orderId"`

	Key    string     `bson:"key" json:"key"`
	Status string     `bson:"status" json:"status"`
	UsedAt *time.Time `bson:"usedAt,omitempty" json:"usedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
