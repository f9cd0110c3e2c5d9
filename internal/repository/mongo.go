package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	collUsers    = "users"
	collGames    = "games"
	collCarts    = "carts"
	collOrders   = "orders"
	collGameKeys = "gamekeys"
	collPosts    = "posts"
	collComments = "comments"
)

// Mongo wraps a MongoDB connection shared by all repositories.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("[MongoDB] Connected to %s", database)
	return &Mongo{
		client: client,
		db:     client.Database(database),
	}, nil
}

// EnsureIndexes creates the indexes the flows rely on:
//   - unique user email
//   - partial TTL on unverified users (storage-layer cleanup, no worker)
//   - unique license key string (the real uniqueness backstop)
//   - one cart per user
//   - lookup indexes on keys, orders, posts and comments
func (m *Mongo) EnsureIndexes(ctx context.Context, unverifiedTTL time.Duration) error {
	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(int32(unverifiedTTL.Seconds())).
				SetPartialFilterExpression(bson.M{"isVerified": false}),
		},
	}
	if _, err := m.db.Collection(collUsers).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	keys := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "gameId", Value: 1}}},
		{Keys: bson.D{{Key: "orderId", Value: 1}}},
	}
	if _, err := m.db.Collection(collGameKeys).Indexes().CreateMany(ctx, keys); err != nil {
		return fmt.Errorf("gamekeys indexes: %w", err)
	}

	carts := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := m.db.Collection(collCarts).Indexes().CreateOne(ctx, carts); err != nil {
		return fmt.Errorf("carts index: %w", err)
	}

	orders := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}
	if _, err := m.db.Collection(collOrders).Indexes().CreateOne(ctx, orders); err != nil {
		return fmt.Errorf("orders index: %w", err)
	}

	posts := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	if _, err := m.db.Collection(collPosts).Indexes().CreateOne(ctx, posts); err != nil {
		return fmt.Errorf("posts index: %w", err)
	}

	comments := mongo.IndexModel{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}}}
	if _, err := m.db.Collection(collComments).Indexes().CreateOne(ctx, comments); err != nil {
		return fmt.Errorf("comments index: %w", err)
	}

	return nil
}

// Ping checks the connection; used by the readiness endpoint.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// MongoTxnRunner runs checkout's multi-document sequence inside a session
// transaction when the deployment supports one (replica set). On standalone
// servers StartSession still works but the transaction commit fails, so the
// runner detects that and re-runs fn without a transaction.
type MongoTxnRunner struct {
	client *mongo.Client
}

// NewMongoTxnRunner creates a transaction runner for the connection.
func NewMongoTxnRunner(m *Mongo) *MongoTxnRunner {
	return &MongoTxnRunner{client: m.client}
}

// Run implements TxnRunner.
func (t *MongoTxnRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		// No session support at all: run plainly.
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		var cmdErr mongo.CommandError
		// Code 20 (IllegalOperation): "Transaction numbers are only allowed
		// on a replica set member". Nothing has committed at that point, so
		// re-run the plain sequence.
		if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
			log.Printf("[MongoTxnRunner] Transactions unsupported, running without: %v", cmdErr.Message)
			return fn(ctx)
		}
		return err
	}
	return nil
}
