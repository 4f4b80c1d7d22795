package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"picfeed/models"
)

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection("users")}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	err := s.coll.FindOne(ctx, bson.M{"username": user.Username}).Err()
	if err == nil {
		return ErrDuplicateUsername
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	user.ID = primitive.NewObjectID()
	_, err = s.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the race against a concurrent registration; the unique
		// index caught what the existence check above could not.
		return ErrDuplicateUsername
	}
	return err
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
