package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"snapgram/commenttree"
	"snapgram/database"
	"snapgram/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// findPostsWithLikes runs the listing pipeline: match, newest first, likes
// attached via $lookup. Like counts are derived from the attached
// documents, never read from a stored counter.
func findPostsWithLikes(ctx context.Context, match bson.M) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "likes"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "postId"},
			{Key: "as", Value: "likes"},
		}}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		models.Post `bson:",inline"`
		Likes       []models.Like `bson:"likes"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	posts := make([]models.Post, len(rows))
	for i, row := range rows {
		post := row.Post
		post.Likes = row.Likes
		if post.Likes == nil {
			post.Likes = []models.Like{}
		}
		post.LikeCount = len(post.Likes)
		posts[i] = post
	}
	return posts, nil
}

// attachLikes populates a single post's like collection and derived count.
func attachLikes(ctx context.Context, post *models.Post) error {
	cursor, err := database.Likes.Find(ctx, bson.M{"postId": post.ID})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	likes := []models.Like{}
	if err := cursor.All(ctx, &likes); err != nil {
		return err
	}
	post.Likes = likes
	post.LikeCount = len(likes)
	return nil
}

// findPost loads a post by id. Missing and soft-deleted posts both report
// not found, distinct from backend failure.
func findPost(ctx context.Context, id primitive.ObjectID) (*models.Post, bool, error) {
	var post models.Post
	err := database.Posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &post, true, nil
}

// GetPost returns the fully hydrated post aggregate: the post with its
// likes, plus the nested comment forest with authors attached. Soft-deleted
// root comments are dropped here; deleted descendants stay in the tree as
// tombstones for the client to render in place.
func GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	post, found, err := findPost(ctx, postID)
	if err != nil {
		log.Printf("GetPost find error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if !found || post.DeletedAt != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if err := attachLikes(ctx, post); err != nil {
		log.Printf("GetPost likes error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch likes"})
		return
	}

	flat, err := loadPostComments(ctx, postID)
	if err != nil {
		log.Printf("GetPost comments error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	forest := commenttree.Build(flat)
	roots := []*models.Comment{}
	for _, root := range forest {
		if root.DeletedAt == nil {
			roots = append(roots, root)
		}
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "comments": roots})
}

func CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	caption := c.PostForm("caption")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No media file provided"})
		return
	}
	defer file.Close()

	uploadCtx, cancelUpload := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancelUpload()

	mediaURL, publicID, err := uploadMedia(uploadCtx, file)
	if err != nil {
		log.Printf("CreatePost upload error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload media"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	post := models.Post{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Title:        title,
		Media:        mediaURL,
		CloudinaryID: publicID,
		Caption:      caption,
		CreatedAt:    time.Now().Unix(),
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("CreatePost insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	post.Likes = []models.Like{}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// LikePost toggles the caller's like on a post and reports the delta. The
// unique (userId, postId) index makes the toggle safe under concurrent
// double-submits: delete first, and if nothing was deleted insert, treating
// a duplicate-key rejection as the like already being in place. In that
// race the response still reports 1: the like exists after the call, even
// though a concurrent request inserted it.
func LikePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
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

	result, err := database.Likes.DeleteOne(ctx, bson.M{"userId": userID, "postId": postID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}
	if result.DeletedCount > 0 {
		c.JSON(http.StatusOK, -1)
		return
	}

	like := models.Like{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := database.Likes.InsertOne(ctx, like); err != nil && !mongo.IsDuplicateKeyError(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}
	c.JSON(http.StatusOK, 1)
}

// DeletePost soft-deletes when SOFT_DELETES is set, otherwise runs the hard
// cascade. The hard path marks the post deleted before touching anything
// else, so a partial failure leaves a recoverable soft-deleted record
// instead of media or comments outliving a vanished post.
func DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	post, found, err := findPost(ctx, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your post"})
		return
	}

	now := time.Now().Unix()
	if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": bson.M{"deletedAt": now}}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	post.DeletedAt = &now

	if softDeletes() {
		log.Printf("Post %s soft deleted", postID.Hex())
		c.JSON(http.StatusOK, gin.H{"post": post})
		return
	}

	if err := destroyMedia(ctx, post.CloudinaryID); err != nil {
		// Best effort: the post is already tombstoned, so a stranded asset
		// can be cleaned up on retry.
		log.Printf("DeletePost media destroy error for %s: %v", post.CloudinaryID, err)
	}

	flat, err := loadPostComments(ctx, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if ids := commenttree.ForestIDs(flat); len(ids) > 0 {
		if _, err := database.Comments.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
			return
		}
	}
	if _, err := database.Likes.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if _, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	log.Printf("Post %s deleted", postID.Hex())
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// applyPostEdits applies the per-field dirty check: a field only changes
// (and only marks the post edited) when it was supplied and differs from
// the stored value. Resending the original caption is a no-op.
func applyPostEdits(post *models.Post, title, caption *string) bool {
	changed := false
	if title != nil && *title != post.Title {
		post.Title = *title
		changed = true
	}
	if caption != nil && *caption != post.Caption {
		post.Caption = *caption
		changed = true
	}
	return changed
}

func EditPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
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
	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your post"})
		return
	}

	var titlePtr, captionPtr *string
	if title, has := c.GetPostForm("title"); has {
		titlePtr = &title
	}
	if caption, has := c.GetPostForm("caption"); has {
		captionPtr = &caption
	}
	changed := applyPostEdits(post, titlePtr, captionPtr)

	if file, _, ferr := c.Request.FormFile("file"); ferr == nil {
		defer file.Close()
		if err := destroyMedia(ctx, post.CloudinaryID); err != nil {
			log.Printf("EditPost media destroy error for %s: %v", post.CloudinaryID, err)
		}
		mediaURL, publicID, uerr := uploadMedia(ctx, file)
		if uerr != nil {
			log.Printf("EditPost upload error: %v", uerr)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload media"})
			return
		}
		post.Media = mediaURL
		post.CloudinaryID = publicID
		changed = true
	}

	if changed {
		post.Edited = true
		update := bson.M{"$set": bson.M{
			"title":        post.Title,
			"caption":      post.Caption,
			"media":        post.Media,
			"cloudinaryId": post.CloudinaryID,
			"edited":       true,
		}}
		if _, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, update); err != nil {
			log.Printf("EditPost update error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
			return
		}
	}

	if err := attachLikes(ctx, post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch likes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}
