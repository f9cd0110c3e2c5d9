package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a feed entry. LikesCount and CommentsCount are denormalized and
// maintained with atomic $inc updates.
type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID      primitive.ObjectID   `bson:"userId" json:"userId"`
	Text        string               `bson:"text" json:"text"`
	Media       []string             `bson:"media,omitempty" json:"media"`
	YoutubeURLs []string             `bson:"youtubeUrls,omitempty" json:"youtubeUrls"`
	Likes       []primitive.ObjectID `bson:"likes,omitempty" json:"-"`
	LikesCount  int                  `bson:"likesCount" json:"likesCount"`

	CommentsCount int `bson:"commentsCount" json:"commentsCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// LikedBy reports whether userID is in the likes list.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment belongs to a post.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
