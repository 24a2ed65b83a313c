package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupblog/domain"
	"groupblog/errs"
)

func edgeCount(t *testing.T, fs *FollowService, userID, authorID int) int64 {
	t.Helper()
	var count int64
	require.NoError(t, fs.db.Model(&domain.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error)
	return count
}

func TestFollowService_Create_Idempotent(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	require.NoError(t, fs.Create(&domain.Follow{UserID: a.ID, AuthorID: b.ID}))
	require.NoError(t, fs.Create(&domain.Follow{UserID: a.ID, AuthorID: b.ID}))

	assert.EqualValues(t, 1, edgeCount(t, fs, a.ID, b.ID), "a duplicate follow must not create a second edge")
}

func TestFollowService_Create_SelfFollowIsNoop(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	a := seedUser(t, db, "a")

	require.NoError(t, fs.Create(&domain.Follow{UserID: a.ID, AuthorID: a.ID}))
	assert.EqualValues(t, 0, edgeCount(t, fs, a.ID, a.ID), "following yourself must never create an edge")
}

func TestFollowService_Create_UnknownUsers(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	a := seedUser(t, db, "a")

	err := fs.Create(&domain.Follow{UserID: a.ID, AuthorID: 999})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	err = fs.Create(&domain.Follow{UserID: 999, AuthorID: a.ID})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestFollowService_Delete(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	require.NoError(t, fs.Create(&domain.Follow{UserID: a.ID, AuthorID: b.ID}))
	require.NoError(t, fs.Delete(&domain.Follow{UserID: a.ID, AuthorID: b.ID}))
	assert.EqualValues(t, 0, edgeCount(t, fs, a.ID, b.ID))

	// Unfollowing a pair with no edge is a no-op, not an error.
	require.NoError(t, fs.Delete(&domain.Follow{UserID: a.ID, AuthorID: b.ID}))
}

func TestFollowService_IsFollowing(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	following, err := fs.IsFollowing(a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, fs.Create(&domain.Follow{UserID: a.ID, AuthorID: b.ID}))

	following, err = fs.IsFollowing(a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The edge is directed.
	following, err = fs.IsFollowing(b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// An anonymous viewer follows no one.
	following, err = fs.IsFollowing(0, b.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowService_FollowersOf(t *testing.T) {
	db := testDB(t)
	fs := NewFollowService(db)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	c := seedUser(t, db, "c")

	require.NoError(t, fs.Create(&domain.Follow{UserID: a.ID, AuthorID: c.ID}))
	require.NoError(t, fs.Create(&domain.Follow{UserID: b.ID, AuthorID: c.ID}))

	followers, err := fs.FollowersOf(c.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	names := []string{followers[0].Username, followers[1].Username}
	assert.ElementsMatch(t, []string{"a", "b"}, names)

	followers, err = fs.FollowersOf(a.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
}
