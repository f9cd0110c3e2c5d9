package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
)

// ErrDuplicate is returned when an insert violates a unique index
// (user email, license key string).
var ErrDuplicate = errors.New("duplicate key")

// Repositories return (nil, nil) when a single document is not found; callers
// decide whether that is an error.

// UserRepository defines account data access methods.
type UserRepository interface {
	// FindByEmail looks up a user by normalized email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID looks up a user by ID.
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)

	// FindByIDs returns the users for the given IDs, keyed by ID.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.User, error)

	// Create inserts a new user and fills in its ID.
	Create(ctx context.Context, u *model.User) error

	// Update replaces the stored document for u.ID.
	Update(ctx context.Context, u *model.User) error

	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)
}

// GameRepository defines catalog data access methods.
type GameRepository interface {
	List(ctx context.Context) ([]model.Game, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Game, error)

	// FindByIDs returns the games that still exist, keyed by ID. Missing IDs
	// are simply absent from the map.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.Game, error)

	Create(ctx context.Context, g *model.Game) error
	Update(ctx context.Context, g *model.Game) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// CartRepository defines cart data access methods. One cart document per
// user; an emptied cart is deleted, not kept around.
type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.Cart, error)

	// Save upserts the cart document for cart.UserID.
	Save(ctx context.Context, cart *model.Cart) error

	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// OrderRepository defines order data access methods. Orders are append-only.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	Count(ctx context.Context) (int64, error)
}

// GameKeyRepository defines license key data access methods.
type GameKeyRepository interface {
	// KeyExists reports whether the formatted key string is already issued.
	KeyExists(ctx context.Context, key string) (bool, error)

	// InsertMany bulk-inserts freshly issued keys. The unique index on the
	// key string makes a duplicate insert fail here.
	InsertMany(ctx context.Context, keys []model.GameKey) error

	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.GameKey, error)

	// FindByIDForUser returns the key only if it belongs to userID.
	FindByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*model.GameKey, error)

	// MarkUsed performs the unused -> used transition atomically. Returns
	// false if the key was missing, owned by someone else, or already used.
	MarkUsed(ctx context.Context, id, userID primitive.ObjectID) (bool, error)

	CountByStatus(ctx context.Context, status string) (int64, error)
}

// PostRepository defines feed post data access methods.
type PostRepository interface {
	List(ctx context.Context, limit int) ([]model.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	Create(ctx context.Context, p *model.Post) error
	Update(ctx context.Context, p *model.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// SetLike adds or removes userID from the likes list and adjusts
	// likesCount atomically. Returns the new count.
	SetLike(ctx context.Context, postID, userID primitive.ObjectID, liked bool) (int, error)

	// IncComments adjusts commentsCount by delta and returns the new count.
	IncComments(ctx context.Context, postID primitive.ObjectID, delta int) (int, error)
}

// CommentRepository defines comment data access methods.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID primitive.ObjectID, limit int) ([]model.Comment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	Create(ctx context.Context, c *model.Comment) error
	Update(ctx context.Context, c *model.Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
}

// TxnRunner executes fn within a storage transaction where the deployment
// supports one. Implementations without transaction support run fn directly,
// in which case the unique key index remains the correctness backstop for
// checkout.
type TxnRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}
