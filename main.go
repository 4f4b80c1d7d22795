package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"picfeed/auth"
	"picfeed/config"
	"picfeed/database"
	"picfeed/handlers"
	"picfeed/middleware"
	"picfeed/routes"
	"picfeed/services"
	"picfeed/store"
)

const sessionTTL = 7 * 24 * time.Hour

func main() {
	log.Println("🚀 Starting picfeed server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Config error: ", err)
	}

	ctx := context.Background()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal("❌ Failed to connect to MongoDB: ", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Printf("MongoDB disconnect: %v", err)
		}
	}()
	log.Println("✅ MongoDB connected")

	db := client.Database(cfg.DatabaseName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("❌ Failed to create indexes: ", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	uploads, err := services.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		log.Fatal("❌ Cloudinary configuration error: ", err)
	}

	users := store.NewMongoUserStore(db)
	posts := store.NewMongoPostStore(db)
	tokens := auth.NewTokenService(cfg.JWTSecret, sessionTTL)
	captions := services.NewGeminiCaptioner(cfg.GeminiAPIKey)

	router := routes.SetupRouter(routes.Deps{
		Auth:      handlers.NewAuthHandler(users, tokens),
		Posts:     handlers.NewPostHandler(posts, captions, uploads),
		Session:   middleware.SessionAuth(tokens, users),
		RateLimit: middleware.RateLimit(middleware.NewIPRateLimiter(60, time.Minute)),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown: ", err)
	}

	log.Println("👋 Server stopped gracefully")
}
