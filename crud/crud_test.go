package crud

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"groupblog/domain"
)

// testDB opens a throwaway sqlite database with the full schema migrated.
func testDB(t *testing.T) *gorm.DB {
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
	return db
}

// seedUser inserts a user record directly, bypassing the auth validations
// the tests don't care about.
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

// seedPost inserts a post record directly with an explicit creation time,
// so ordering tests can control the timeline.
func seedPost(t *testing.T, db *gorm.DB, author *domain.User, text string, createdAt time.Time, group *domain.Group) *domain.Post {
	t.Helper()
	post := &domain.Post{
		Text:      text,
		AuthorID:  author.ID,
		CreatedAt: createdAt,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(post).Error)
	return post
}
