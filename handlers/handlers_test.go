package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"picfeed/auth"
	"picfeed/handlers"
	"picfeed/middleware"
	"picfeed/models"
	"picfeed/routes"
	"picfeed/store"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users []models.User
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return store.ErrDuplicateUsername
		}
	}
	user.ID = primitive.NewObjectID()
	s.users = append(s.users, *user)
	return nil
}

func (s *fakeUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type fakePostStore struct {
	mu        sync.Mutex
	users     *fakeUserStore
	posts     []models.Post
	insertErr error
	listErr   error
}

func (s *fakePostStore) Insert(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertErr != nil {
		return s.insertErr
	}
	post.ID = primitive.NewObjectID()
	s.posts = append(s.posts, *post)
	return nil
}

func (s *fakePostStore) ListNewestFirst(ctx context.Context) ([]models.FeedPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listErr != nil {
		return nil, s.listErr
	}

	feed := make([]models.FeedPost, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		post := s.posts[i]
		author := models.Author{ID: post.UserID}
		if user, err := s.users.FindByID(ctx, post.UserID); err == nil {
			author.Username = user.Username
		}
		feed = append(feed, models.FeedPost{Post: post, Author: author})
	}
	return feed, nil
}

func (s *fakePostStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

type fakeCaptioner struct {
	mu        sync.Mutex
	caption   string
	err       error
	calls     int
	lastImage string
}

func (f *fakeCaptioner) Caption(ctx context.Context, base64Image string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.lastImage = base64Image
	if f.err != nil {
		return "", f.err
	}
	return f.caption, nil
}

type fakeUploader struct {
	mu    sync.Mutex
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type env struct {
	router   *gin.Engine
	tokens   *auth.TokenService
	users    *fakeUserStore
	posts    *fakePostStore
	captions *fakeCaptioner
	uploads  *fakeUploader
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &fakeUserStore{}
	posts := &fakePostStore{users: users}
	captions := &fakeCaptioner{caption: "a sunny day at the beach"}
	uploads := &fakeUploader{url: "https://cdn.example.com/picfeed/posts/test.jpg"}
	tokens := auth.NewTokenService("test-secret", time.Hour)

	router := routes.SetupRouter(routes.Deps{
		Auth:      handlers.NewAuthHandler(users, tokens),
		Posts:     handlers.NewPostHandler(posts, captions, uploads),
		Session:   middleware.SessionAuth(tokens, users),
		RateLimit: middleware.RateLimit(middleware.NewIPRateLimiter(1000, time.Minute)),
	})

	return &env{
		router:   router,
		tokens:   tokens,
		users:    users,
		posts:    posts,
		captions: captions,
		uploads:  uploads,
	}
}

func (e *env) doJSON(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) upload(t *testing.T, field string, content []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := w.CreateFormFile(field, "photo.jpg")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns the session
// cookie plus the decoded response body.
func (e *env) register(t *testing.T, username, password string) (*http.Cookie, map[string]any) {
	t.Helper()

	rec := e.doJSON(t, http.MethodPost, "/api/auth/register", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie, "register should set a session cookie")
	return cookie, decodeBody(t, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.CookieName {
			return cookie
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
