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

// MongoPostRepository implements PostRepository using MongoDB.
type MongoPostRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository creates a new post repository.
func NewMongoPostRepository(m *Mongo) *MongoPostRepository {
	return &MongoPostRepository{coll: m.db.Collection(collPosts)}
}

func (r *MongoPostRepository) List(ctx context.Context, limit int) ([]model.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var p model.Post
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return &p, nil
}

func (r *MongoPostRepository) Create(ctx context.Context, p *model.Post) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoPostRepository) Update(ctx context.Context, p *model.Post) error {
	p.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"text":        p.Text,
			"media":       p.Media,
			"youtubeUrls": p.YoutubeURLs,
			"updatedAt":   p.UpdatedAt,
		},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) SetLike(ctx context.Context, postID, userID primitive.ObjectID, liked bool) (int, error) {
	var update bson.M
	if liked {
		update = bson.M{
			"$addToSet": bson.M{"likes": userID},
			"$inc":      bson.M{"likesCount": 1},
		}
	} else {
		update = bson.M{
			"$pull": bson.M{"likes": userID},
			"$inc":  bson.M{"likesCount": -1},
		}
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likesCount": 1})

	var p model.Post
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return 0, mongo.ErrNoDocuments
	}
	if err != nil {
		return 0, fmt.Errorf("failed to set like: %w", err)
	}
	if p.LikesCount < 0 {
		return 0, nil
	}
	return p.LikesCount, nil
}

func (r *MongoPostRepository) IncComments(ctx context.Context, postID primitive.ObjectID, delta int) (int, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"commentsCount": 1})

	var p model.Post
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"commentsCount": delta}}, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust comment count: %w", err)
	}
	return p.CommentsCount, nil
}

var _ PostRepository = (*MongoPostRepository)(nil)
