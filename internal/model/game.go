package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Requirements describes a hardware requirement block.
type Requirements struct {
	OS      string `bson:"os,omitempty" json:"os"`
	CPU     string `bson:"cpu,omitempty" json:"cpu"`
	RAM     string `bson:"ram,omitempty" json:"ram"`
	GPU     string `bson:"gpu,omitempty" json:"gpu"`
	Storage string `bson:"storage,omitempty" json:"storage"`
}

// Game is a catalog entry. Only admins mutate it; orders snapshot the fields
// they need so later edits never affect past purchases.
type Game struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Price       float64            `bson:"price" json:"price"`
	Developer   string             `bson:"developer,omitempty" json:"developer"`
	SizeGB      float64            `bson:"sizeGB,omitempty" json:"sizeGB"`
	Platform    string             `bson:"platform,omitempty" json:"platform"`
	Genre       string             `bson:"genre,omitempty" json:"genre"`
	Description string             `bson:"description,omitempty" json:"description"`

	CoverMedia  string   `bson:"coverMedia,omitempty" json:"coverMedia"`
	Screenshots []string `bson:"screenshots,omitempty" json:"screenshots"`
	TrailerURL  string   `bson:"trailerUrl,omitempty" json:"trailerUrl"`

	Modes             []string `bson:"modes,omitempty" json:"modes"`
	OnlineRequired    bool     `bson:"onlineRequired,omitempty" json:"onlineRequired"`
	Crossplay         bool     `bson:"crossplay,omitempty" json:"crossplay"`
	ControllerSupport bool     `bson:"controllerSupport,omitempty" json:"controllerSupport"`
	Languages         []string `bson:"languages,omitempty" json:"languages"`

	MinimumRequirements     Requirements `bson:"minimumRequirements,omitempty" json:"minimumRequirements"`
	RecommendedRequirements Requirements `bson:"recommendedRequirements,omitempty" json:"recommendedRequirements"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
