package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Follow is a directed edge: sender follows receiver. Unique per pair.
type Follow struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`

	// Populated in responses only.
	Sender   *User `bson:"-" json:"sender,omitempty"`
	Receiver *User `bson:"-" json:"receiver,omitempty"`
}
