package handlers

import (
	"context"
	"log"
	"net/http"

	"snapgram/database"
	"snapgram/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetFeed lists non-deleted posts newest first with likes attached. Feed
// type "following" narrows to authors the viewer follows; any other type
// is the global feed. A viewer following nobody gets an empty following
// feed, not everything.
func GetFeed(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	match := bson.M{"deletedAt": bson.M{"$exists": false}}
	if c.Param("type") == "following" {
		authors, err := followedAuthors(ctx, viewerID)
		if err != nil {
			log.Printf("GetFeed follows error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch follows"})
			return
		}
		match["userId"] = bson.M{"$in": authors}
	}

	posts, err := findPostsWithLikes(ctx, match)
	if err != nil {
		log.Printf("GetFeed posts error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

func followedAuthors(ctx context.Context, viewerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := database.Follows.Find(ctx, bson.M{"senderId": viewerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edges []models.Follow
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, err
	}

	authors := make([]primitive.ObjectID, 0, len(edges))
	for _, edge := range edges {
		authors = append(authors, edge.ReceiverID)
	}
	return authors, nil
}
