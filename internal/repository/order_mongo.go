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

// MongoOrderRepository implements OrderRepository using MongoDB. Orders are
// write-once; there is no update or delete method on purpose.
type MongoOrderRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderRepository creates a new order repository.
func NewMongoOrderRepository(m *Mongo) *MongoOrderRepository {
	return &MongoOrderRepository{coll: m.db.Collection(collOrders)}
}

func (r *MongoOrderRepository) Create(ctx context.Context, o *model.Order) error {
	o.CreatedAt = time.Now().UTC()

	res, err := r.coll.InsertOne(ctx, o)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []model.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []model.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

var _ OrderRepository = (*MongoOrderRepository)(nil)
