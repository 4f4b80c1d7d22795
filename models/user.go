package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
}

// PublicUser is the shape of a user in API responses.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
	}
}
