package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"snapgram/database"
	"snapgram/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// hydrateFollows resolves both endpoints of each edge with a single $in
// query so callers can update follower and followee views without
// re-fetching.
func hydrateFollows(ctx context.Context, edges []models.Follow) error {
	if len(edges) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(edges)*2)
	seen := make(map[primitive.ObjectID]bool, len(edges)*2)
	for _, edge := range edges {
		for _, id := range []primitive.ObjectID{edge.SenderID, edge.ReceiverID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	cursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range edges {
		edges[i].Sender = byID[edges[i].SenderID]
		edges[i].Receiver = byID[edges[i].ReceiverID]
	}
	return nil
}

// FollowUser creates the directed edge sender -> receiver. Repeat follows
// are idempotent: the unique (senderId, receiverId) index rejects the
// duplicate and the existing edge is returned instead.
func FollowUser(c *gin.Context) {
	senderID, ok := currentUserID(c)
	if !ok {
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if senderID == receiverID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	count, err := database.Users.CountDocuments(ctx, bson.M{"_id": receiverID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	edge := models.Follow{
		ID:         primitive.NewObjectID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  time.Now().Unix(),
	}
	if _, err := database.Follows.InsertOne(ctx, edge); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			log.Printf("FollowUser insert error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
			return
		}
		if ferr := database.Follows.FindOne(ctx, bson.M{"senderId": senderID, "receiverId": receiverID}).Decode(&edge); ferr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
			return
		}
	}

	edges := []models.Follow{edge}
	if err := hydrateFollows(ctx, edges); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve users"})
		return
	}
	c.JSON(http.StatusCreated, edges[0])
}

// UnfollowUser removes the edge and returns it, hydrated, so both sides'
// local lists can drop it by id.
func UnfollowUser(c *gin.Context) {
	senderID, ok := currentUserID(c)
	if !ok {
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var edge models.Follow
	err = database.Follows.FindOneAndDelete(ctx, bson.M{"senderId": senderID, "receiverId": receiverID}).Decode(&edge)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following this user"})
		return
	}
	if err != nil {
		log.Printf("UnfollowUser delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}

	edges := []models.Follow{edge}
	if err := hydrateFollows(ctx, edges); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve users"})
		return
	}
	c.JSON(http.StatusOK, edges[0])
}
