package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"picfeed/models"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrUserNotFound      = errors.New("user not found")
)

// UserStore persists user accounts. Users are created once and never
// updated or deleted.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// PostStore persists posts and serves the feed.
type PostStore interface {
	Insert(ctx context.Context, post *models.Post) error
	ListNewestFirst(ctx context.Context) ([]models.FeedPost, error)
}
