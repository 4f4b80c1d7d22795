package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ImageURL  string             `bson:"image" json:"image"`
	Caption   string             `bson:"caption" json:"caption"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

// Author is the resolved user reference attached to feed entries.
type Author struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
}

// FeedPost is a post with its author resolved, as returned by the feed
// and by post creation.
type FeedPost struct {
	Post   `bson:",inline"`
	Author Author `bson:"author" json:"author"`
}
