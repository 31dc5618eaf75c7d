package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Like is unique per (userId, postId); the pair carries a unique index so a
// concurrent double-toggle cannot create two documents. Like counts are
// always derived by counting these documents, never stored on the post.
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
