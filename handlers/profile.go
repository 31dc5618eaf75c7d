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
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProfile returns a user (looked up by ObjectID hex or by user name)
// with hydrated follower/following edges, plus their non-deleted posts with
// likes attached. An unknown user is an empty result, not an error.
func GetProfile(c *gin.Context) {
	idOrName := c.Param("userIdOrName")

	filter := bson.M{"userName": idOrName}
	if oid, err := primitive.ObjectIDFromHex(idOrName); err == nil {
		filter = bson.M{"_id": oid}
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusOK, gin.H{"user": nil, "posts": []models.Post{}})
		return
	}
	if err != nil {
		log.Printf("GetProfile find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	profile, err := buildProfile(ctx, user)
	if err != nil {
		log.Printf("GetProfile follows error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch follows"})
		return
	}

	posts, err := findPostsWithLikes(ctx, bson.M{
		"userId":    user.ID,
		"deletedAt": bson.M{"$exists": false},
	})
	if err != nil {
		log.Printf("GetProfile posts error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile, "posts": posts})
}

// buildProfile attaches both follow directions to a user: followers are
// edges pointing at them, following are edges they sent.
func buildProfile(ctx context.Context, user models.User) (*models.Profile, error) {
	followers, err := findFollows(ctx, bson.M{"receiverId": user.ID})
	if err != nil {
		return nil, err
	}
	following, err := findFollows(ctx, bson.M{"senderId": user.ID})
	if err != nil {
		return nil, err
	}
	return &models.Profile{User: user, Followers: followers, Following: following}, nil
}

func findFollows(ctx context.Context, filter bson.M) ([]models.Follow, error) {
	cursor, err := database.Follows.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	edges := []models.Follow{}
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, err
	}
	if err := hydrateFollows(ctx, edges); err != nil {
		return nil, err
	}
	return edges, nil
}
