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

// MongoGameRepository implements GameRepository using MongoDB.
type MongoGameRepository struct {
	coll *mongo.Collection
}

// NewMongoGameRepository creates a new game repository.
func NewMongoGameRepository(m *Mongo) *MongoGameRepository {
	return &MongoGameRepository{coll: m.db.Collection(collGames)}
}

func (r *MongoGameRepository) List(ctx context.Context) ([]model.Game, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer cur.Close(ctx)

	games := []model.Game{}
	if err := cur.All(ctx, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *MongoGameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Game, error) {
	var g model.Game
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game: %w", err)
	}
	return &g, nil
}

func (r *MongoGameRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.Game, error) {
	out := make(map[primitive.ObjectID]model.Game, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find games: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var g model.Game
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		out[g.ID] = g
	}
	return out, cur.Err()
}

func (r *MongoGameRepository) Create(ctx context.Context, g *model.Game) error {
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, g)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	g.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoGameRepository) Update(ctx context.Context, g *model.Game) error {
	g.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": g.ID}, g)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoGameRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

func (r *MongoGameRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

var _ GameRepository = (*MongoGameRepository)(nil)
