package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gamevault-api/internal/model"
)

// MongoCartRepository implements CartRepository using MongoDB.
type MongoCartRepository struct {
	coll *mongo.Collection
}

// NewMongoCartRepository creates a new cart repository.
func NewMongoCartRepository(m *Mongo) *MongoCartRepository {
	return &MongoCartRepository{coll: m.db.Collection(collCarts)}
}

func (r *MongoCartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.Cart, error) {
	var c model.Cart
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return &c, nil
}

func (r *MongoCartRepository) Save(ctx context.Context, cart *model.Cart) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}

	filter := bson.M{"userId": cart.UserID}
	update := bson.M{
		"$set": bson.M{
			"items":     cart.Items,
			"updatedAt": cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"userId":    cart.UserID,
			"createdAt": cart.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *MongoCartRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

var _ CartRepository = (*MongoCartRepository)(nil)
