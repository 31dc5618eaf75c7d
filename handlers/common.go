package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared constants and helpers used across the handler files.

const dbTimeout = 10 * time.Second
const uploadTimeout = 30 * time.Second

// softDeletes reports whether post/comment deletion tombstones records
// instead of removing them. The flag is process-wide operator policy.
func softDeletes() bool {
	return os.Getenv("SOFT_DELETES") == "true"
}

// currentUserID reads the authenticated user id placed in the context by
// the JWT middleware. On failure it has already written the 401 response.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
