package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"picfeed/auth"
	"picfeed/models"
	"picfeed/store"
)

const userKey = "currentUser"

// SessionAuth resolves the session cookie into the authenticated user and
// attaches it to the request context. Every failure mode gets the same
// uniform 401 so callers cannot probe which check tripped.
func SessionAuth(tokens *auth.TokenService, users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(auth.CookieName)
		if err != nil || tokenString == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		objectID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := users.FindByID(c.Request.Context(), objectID)
		if err != nil {
			if err != store.ErrUserNotFound {
				log.Printf("session user lookup failed: %v", err)
			}
			abortUnauthorized(c)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user attached by SessionAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
}
