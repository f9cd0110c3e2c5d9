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

// MongoGameKeyRepository implements GameKeyRepository using MongoDB.
type MongoGameKeyRepository struct {
	coll *mongo.Collection
}

// NewMongoGameKeyRepository creates a new game key repository.
func NewMongoGameKeyRepository(m *Mongo) *MongoGameKeyRepository {
	return &MongoGameKeyRepository{coll: m.db.Collection(collGameKeys)}
}

func (r *MongoGameKeyRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"key": key},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check key: %w", err)
	}
	return true, nil
}

func (r *MongoGameKeyRepository) InsertMany(ctx context.Context, keys []model.GameKey) error {
	if len(keys) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(keys))
	for i := range keys {
		keys[i].CreatedAt = now
		docs[i] = keys[i]
	}

	// Ordered insert: a duplicate key aborts the batch and surfaces the
	// unique-index violation to the caller.
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert keys: %w", err)
	}
	return nil
}

func (r *MongoGameKeyRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.GameKey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer cur.Close(ctx)

	keys := []model.GameKey{}
	if err := cur.All(ctx, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *MongoGameKeyRepository) FindByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*model.GameKey, error) {
	var k model.GameKey
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&k)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find key: %w", err)
	}
	return &k, nil
}

func (r *MongoGameKeyRepository) MarkUsed(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"userId": userID,
		"status": model.KeyStatusUnused,
	}
	update := bson.M{
		"$set": bson.M{
			"status": model.KeyStatusUsed,
			"usedAt": time.Now().UTC(),
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark key used: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoGameKeyRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"status": status})
}

var _ GameKeyRepository = (*MongoGameKeyRepository)(nil)
