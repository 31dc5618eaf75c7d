package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Comment stores flat in Mongo; ParentID is nil for root comments. The
// nested Comments slice is assembled per post by the commenttree package.
type Comment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID  `bson:"postId" json:"postId"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	ParentID  *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	Text      string              `bson:"text" json:"text"`
	CreatedAt int64               `bson:"createdAt" json:"createdAt"`
	DeletedAt *int64              `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`

	// Populated in responses only.
	User     *User      `bson:"-" json:"user,omitempty"`
	Comments []*Comment `bson:"-" json:"comments"`
}
