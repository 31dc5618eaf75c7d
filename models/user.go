package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserName     string             `bson:"userName" json:"userName"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
}

// Profile is a user together with their hydrated follow edges, as returned
// by GET /api/profile/:userIdOrName.
type Profile struct {
	User      `bson:",inline"`
	Followers []Follow `bson:"-" json:"followers"`
	Following []Follow `bson:"-" json:"following"`
}
