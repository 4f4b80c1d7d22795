package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"picfeed/handlers"
)

// Deps carries the wired handlers and middleware into the router.
type Deps struct {
	Auth      *handlers.AuthHandler
	Posts     *handlers.PostHandler
	Session   gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := router.Group("/api/auth")
	authGroup.Use(deps.RateLimit)
	authGroup.POST("/register", deps.Auth.Register)
	authGroup.POST("/login", deps.Auth.Login)
	authGroup.POST("/logout", deps.Auth.Logout)
	authGroup.GET("/me", deps.Session, deps.Auth.Me)

	posts := router.Group("/api/posts")
	posts.Use(deps.Session)
	posts.POST("", deps.Posts.Create)
	posts.GET("", deps.Posts.List)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"message": "endpoint not found"})
	})

	return router
}
