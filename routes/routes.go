package routes

import (
	"strings"
	"time"

	"snapgram/handlers"
	"snapgram/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Auth is public but rate limited.
	auth := router.Group("/api/auth")
	auth.Use(middleware.RateLimitMiddleware())
	auth.POST("/signup", handlers.Signup)
	auth.POST("/login", handlers.Login)

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	protected.GET("/profile/:userIdOrName", handlers.GetProfile)
	protected.GET("/feed/:type", handlers.GetFeed)

	post := protected.Group("/post")
	post.GET("/:id", handlers.GetPost)
	post.POST("/createPost", handlers.CreatePost)
	post.PUT("/likePost/:id", handlers.LikePost)
	post.DELETE("/deletePost/:id", handlers.DeletePost)
	post.PATCH("/editPost/:id", handlers.EditPost)

	comment := protected.Group("/comment")
	comment.POST("/createComment/:postId", handlers.CreateComment)
	comment.PATCH("/editComment/:id", handlers.EditComment)
	comment.DELETE("/deleteComment/:id", handlers.DeleteComment)

	follow := protected.Group("/follow")
	follow.POST("/followUser/:id", handlers.FollowUser)
	follow.DELETE("/unfollowUser/:id", handlers.UnfollowUser)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
