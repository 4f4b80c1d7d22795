package handlers

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"picfeed/middleware"
	"picfeed/models"
	"picfeed/services"
	"picfeed/store"
)

type PostHandler struct {
	posts    store.PostStore
	captions services.CaptionGenerator
	uploads  services.Uploader
}

func NewPostHandler(posts store.PostStore, captions services.CaptionGenerator, uploads services.Uploader) *PostHandler {
	return &PostHandler{posts: posts, captions: captions, uploads: uploads}
}

// Create runs the post pipeline: file check, caption, upload, insert.
// Captioning comes before the upload so a caption failure never leaves
// an orphaned object behind. There are no retries; the first failure
// aborts the request.
func (h *PostHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no file uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to read uploaded file"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	caption, err := h.captions.Caption(ctx, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		log.Printf("caption generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate caption"})
		return
	}

	imageURL, err := h.uploads.Upload(ctx, data)
	if err != nil {
		log.Printf("image upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to upload image"})
		return
	}

	post := &models.Post{
		ImageURL:  imageURL,
		Caption:   caption,
		UserID:    user.ID,
		CreatedAt: time.Now().Unix(),
	}

	if err := h.posts.Insert(ctx, post); err != nil {
		log.Printf("post insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "post created successfully",
		"post": models.FeedPost{
			Post:   *post,
			Author: models.Author{ID: user.ID, Username: user.Username},
		},
	})
}

// List returns every post, newest first, with author usernames resolved.
func (h *PostHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	posts, err := h.posts.ListNewestFirst(ctx)
	if err != nil {
		log.Printf("feed fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch posts"})
		return
	}

	if posts == nil {
		posts = []models.FeedPost{}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "posts fetched successfully",
		"posts":   posts,
	})
}
