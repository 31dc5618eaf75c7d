package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Title        string             `bson:"title" json:"title"`
	Media        string             `bson:"media" json:"media"`
	CloudinaryID string             `bson:"cloudinaryId" json:"-"`
	Caption      string             `bson:"caption" json:"caption"`
	Edited       bool               `bson:"edited" json:"edited"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	DeletedAt    *int64             `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`

	// Populated in responses only.
	Likes     []Like `bson:"-" json:"likes"`
	LikeCount int    `bson:"-" json:"likeCount"`
	User      *User  `bson:"-" json:"user,omitempty"`
}
