package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"picfeed/models"
)

type MongoPostStore struct {
	coll *mongo.Collection
}

func NewMongoPostStore(db *mongo.Database) *MongoPostStore {
	return &MongoPostStore{coll: db.Collection("posts")}
}

func (s *MongoPostStore) Insert(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	_, err := s.coll.InsertOne(ctx, post)
	return err
}

// ListNewestFirst returns every post with its author resolved, newest first.
// The _id sort key breaks ties between posts created in the same second.
func (s *MongoPostStore) ListNewestFirst(ctx context.Context) ([]models.FeedPost, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.FeedPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
