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

// MongoCommentRepository implements CommentRepository using MongoDB.
type MongoCommentRepository struct {
	coll *mongo.Collection
}

// NewMongoCommentRepository creates a new comment repository.
func NewMongoCommentRepository(m *Mongo) *MongoCommentRepository {
	return &MongoCommentRepository{coll: m.db.Collection(collComments)}
}

func (r *MongoCommentRepository) ListByPost(ctx context.Context, postID primitive.ObjectID, limit int) ([]model.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer cur.Close(ctx)

	comments := []model.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *MongoCommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	var c model.Comment
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return &c, nil
}

func (r *MongoCommentRepository) Create(ctx context.Context, c *model.Comment) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoCommentRepository) Update(ctx context.Context, c *model.Comment) error {
	c.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{"text": c.Text, "updatedAt": c.UpdatedAt}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return nil
}

var _ CommentRepository = (*MongoCommentRepository)(nil)
