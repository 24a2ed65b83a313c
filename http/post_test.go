package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"groupblog/crud"
	"groupblog/domain"
	"groupblog/feed"
	"groupblog/storage"
)

// newTestServer builds a full server over a throwaway sqlite database.
// Handler tests call the handler methods directly, with the authenticated
// user placed in the request context the same way the authUser middleware
// would.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Follow{},
	))
	services, err := crud.NewServices(
		db,
		crud.WithUser("test-hmac-key", "test-pepper"),
		crud.WithGroup(),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithFollow(),
	)
	require.NoError(t, err)
	feeds := feed.NewService(services.Post, services.Group, services.User, services.Follow)
	return NewServer(false, "32-byte-long-auth-key-for-tests!", services, feeds, storage.NewImageService()), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		RememberHash: "remember-" + username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, author *domain.User, text string) *domain.Post {
	t.Helper()
	post := &domain.Post{
		Text:      text,
		AuthorID:  author.ID,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Omit(clause.Associations).Create(post).Error)
	return post
}

// editRequest builds an authenticated edit request for the given post.
func editRequest(user *domain.User, postID int, text string) *http.Request {
	body := strings.NewReader(fmt.Sprintf(`{"text": %q}`, text))
	r := httptest.NewRequest("POST", fmt.Sprintf("/posts/%d/edit", postID), body)
	r = mux.SetURLVars(r, map[string]string{"post_id": fmt.Sprint(postID)})
	return r.WithContext(setUserInContext(r.Context(), user))
}

func TestHandleEditPost_AsAuthor(t *testing.T) {
	s, db := newTestServer(t)
	author := seedUser(t, db, "leo")
	post := seedPost(t, db, author, "the original text of this blog post az")

	w := httptest.NewRecorder()
	s.handleEditPost(w, editRequest(author, post.ID, "the edited text of this blog post, longer"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), w.Header().Get("Location"))

	var got domain.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, "the edited text of this blog post, longer", got.Text)
}

func TestHandleEditPost_AsOtherUser(t *testing.T) {
	s, db := newTestServer(t)
	author := seedUser(t, db, "leo")
	intruder := seedUser(t, db, "mia")
	post := seedPost(t, db, author, "the original text of this blog post az")

	w := httptest.NewRecorder()
	s.handleEditPost(w, editRequest(intruder, post.ID, "an edit that must never be persisted az"))

	// The refusal is silent: same redirect as a successful edit.
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), w.Header().Get("Location"))

	var got domain.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, "the original text of this blog post az", got.Text, "the stored text is unchanged")
}

func TestHandleEditPost_UnknownPost(t *testing.T) {
	s, db := newTestServer(t)
	user := seedUser(t, db, "leo")

	w := httptest.NewRecorder()
	s.handleEditPost(w, editRequest(user, 999, "an edit of a post that does not exist az"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCreatePost(t *testing.T) {
	s, db := newTestServer(t)
	user := seedUser(t, db, "leo")

	body := strings.NewReader(`{"text": "a brand new post with enough characters"}`)
	r := httptest.NewRequest("POST", "/create", body)
	r = r.WithContext(setUserInContext(r.Context(), user))
	w := httptest.NewRecorder()
	s.handleCreatePost(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/leo", w.Header().Get("Location"))

	var got domain.Post
	require.NoError(t, db.First(&got, "author_id = ?", user.ID).Error)
	assert.Equal(t, "a brand new post with enough characters", got.Text)
}

func TestHandleCreatePost_TooShort(t *testing.T) {
	s, db := newTestServer(t)
	user := seedUser(t, db, "leo")

	body := strings.NewReader(`{"text": "way too short"}`)
	r := httptest.NewRequest("POST", "/create", body)
	r = r.WithContext(setUserInContext(r.Context(), user))
	w := httptest.NewRecorder()
	s.handleCreatePost(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&domain.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHandleCreateComment_UnknownPost(t *testing.T) {
	s, db := newTestServer(t)
	user := seedUser(t, db, "leo")

	body := strings.NewReader(`{"text": "shouting into the void"}`)
	r := httptest.NewRequest("POST", "/posts/999/comment", body)
	r = mux.SetURLVars(r, map[string]string{"post_id": "999"})
	r = r.WithContext(setUserInContext(r.Context(), user))
	w := httptest.NewRecorder()
	s.handleCreateComment(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequireAuth_RedirectsToLogin(t *testing.T) {
	s, _ := newTestServer(t)

	called := false
	handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest("POST", "/create", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.False(t, called)
	assert.Equal(t, http.StatusFound, w.Code)
	// The original target rides along, so login can send the caller back.
	assert.Equal(t, "/login?next=%2Fcreate", w.Header().Get("Location"))
}

func TestRequireAuth_PassesAuthenticatedUser(t *testing.T) {
	s, db := newTestServer(t)
	user := seedUser(t, db, "leo")

	called := false
	handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest("GET", "/follow", nil)
	r = r.WithContext(setUserInContext(r.Context(), user))
	w := httptest.NewRecorder()
	handler(w, r)

	assert.True(t, called)
}
