package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"snapgram/commenttree"
	"snapgram/database"
	"snapgram/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// loadPostComments fetches a post's full flat comment list, oldest first,
// with authors attached. Soft-deleted comments are included; root-level
// filtering is the caller's concern and descendant tombstones belong in
// the tree.
func loadPostComments(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := database.Comments.Find(ctx, bson.M{"postId": postID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	if err := attachCommentUsers(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// attachCommentUsers resolves authors with one $in query and a map, the
// same way profile hydration does.
func attachCommentUsers(ctx context.Context, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(comments))
	seen := make(map[primitive.ObjectID]bool, len(comments))
	for _, comment := range comments {
		if !seen[comment.UserID] {
			seen[comment.UserID] = true
			ids = append(ids, comment.UserID)
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
	for i := range comments {
		comments[i].User = byID[comments[i].UserID]
	}
	return nil
}

func findComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, bool, error) {
	var comment models.Comment
	err := database.Comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &comment, true, nil
}

// CreateComment adds a comment to a post. With a parentId form field it
// becomes a reply; the parent must belong to the same post and must not
// already be deleted.
func CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	text := strings.TrimSpace(c.PostForm("text"))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	post, found, err := findPost(ctx, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if !found || post.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var parentID *primitive.ObjectID
	if raw, has := c.GetPostForm("parentId"); has && raw != "" {
		id, perr := primitive.ObjectIDFromHex(raw)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent comment ID"})
			return
		}
		parent, found, perr := findComment(ctx, id)
		if perr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parent comment"})
			return
		}
		if !found || parent.PostID != postID || parent.DeletedAt != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found"})
			return
		}
		parentID = &id
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    userID,
		ParentID:  parentID,
		Text:      text,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		log.Printf("CreateComment insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&author); err == nil {
		comment.User = &author
	}
	comment.Comments = []*models.Comment{}
	c.JSON(http.StatusCreated, comment)
}

func EditComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	text := strings.TrimSpace(c.PostForm("text"))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	comment, found, err := findComment(ctx, commentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}
	if !found || comment.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your comment"})
		return
	}

	if _, err := database.Comments.UpdateOne(ctx, bson.M{"_id": commentID}, bson.M{"$set": bson.M{"text": text}}); err != nil {
		log.Printf("EditComment update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}
	comment.Text = text

	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&author); err == nil {
		comment.User = &author
	}
	comment.Comments = []*models.Comment{}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment either tombstones the comment (soft mode, returning the
// tombstone for in-place replacement) or removes the comment and its whole
// descendant subtree (hard mode, returning null so the client splices).
func DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	comment, found, err := findComment(ctx, commentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}
	if !found || comment.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your comment"})
		return
	}

	if softDeletes() {
		now := time.Now().Unix()
		if _, err := database.Comments.UpdateOne(ctx, bson.M{"_id": commentID}, bson.M{"$set": bson.M{"deletedAt": now}}); err != nil {
			log.Printf("DeleteComment update error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
			return
		}
		comment.DeletedAt = &now
		comment.Comments = []*models.Comment{}
		c.JSON(http.StatusOK, comment)
		return
	}

	cursor, err := database.Comments.Find(ctx, bson.M{"postId": comment.PostID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	var flat []models.Comment
	if err := cursor.All(ctx, &flat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	ids := commenttree.SubtreeIDs(flat, commentID)
	if _, err := database.Comments.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		log.Printf("DeleteComment cascade error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	log.Printf("Comment %s and %d descendants deleted", commentID.Hex(), len(ids)-1)
	c.JSON(http.StatusOK, nil)
}
