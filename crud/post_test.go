package crud

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupblog/domain"
	"groupblog/errs"
)

func TestPostService_Create_TextLengthBoundary(t *testing.T) {
	db := testDB(t)
	ps := NewPostService(db)
	author := seedUser(t, db, "leo")

	tooShort := &domain.Post{
		AuthorID: author.ID,
		Text:     strings.Repeat("a", domain.MinPostTextLength-1),
	}
	err := ps.Create(tooShort)
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	longEnough := &domain.Post{
		AuthorID: author.ID,
		Text:     strings.Repeat("a", domain.MinPostTextLength),
	}
	require.NoError(t, ps.Create(longEnough))
	assert.NotZero(t, longEnough.ID)
	assert.False(t, longEnough.CreatedAt.IsZero())
	assert.Equal(t, "leo", longEnough.Author.Username)
}

func TestPostService_Create_RequiresAuthor(t *testing.T) {
	db := testDB(t)
	ps := NewPostService(db)

	err := ps.Create(&domain.Post{Text: strings.Repeat("a", 30)})
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestPostService_Create_UnknownGroup(t *testing.T) {
	db := testDB(t)
	ps := NewPostService(db)
	author := seedUser(t, db, "leo")

	missing := 999
	err := ps.Create(&domain.Post{
		AuthorID: author.ID,
		Text:     strings.Repeat("a", 30),
		GroupID:  &missing,
	})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestPostService_All_NewestFirst(t *testing.T) {
	db := testDB(t)
	ps := NewPostService(db)
	author := seedUser(t, db, "leo")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// Insert out of order on purpose.
	seedPost(t, db, author, "the post from the middle of the timeline", base.Add(time.Hour), nil)
	seedPost(t, db, author, "the oldest post of the whole timeline az", base, nil)
	seedPost(t, db, author, "the newest post of the whole timeline az", base.Add(2*time.Hour), nil)

	posts, err := ps.All()
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt),
			"posts must be ordered by descending creation time")
	}
	assert.Contains(t, posts[0].Text, "newest")
	assert.Contains(t, posts[2].Text, "oldest")
}

func TestPostService_Update_KeepsCreationTime(t *testing.T) {
	db := testDB(t)
	ps := NewPostService(db)
	author := seedUser(t, db, "leo")

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	post := seedPost(t, db, author, "the original text of this blog post az", created, nil)

	post.Text = "the edited text of this blog post, still long"
	require.NoError(t, ps.Update(post))

	got, err := ps.ByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "the edited text of this blog post, still long", got.Text)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestPostService_Delete_CascadesComments(t *testing.T) {
	db := testDB(t)
	ps := NewPostService(db)
	cs := NewCommentService(db)
	author := seedUser(t, db, "leo")
	reader := seedUser(t, db, "mia")

	post := seedPost(t, db, author, "a post that is about to collect comments", time.Now(), nil)
	other := seedPost(t, db, author, "a post that keeps its comments untouched", time.Now(), nil)

	require.NoError(t, cs.Create(&domain.Comment{AuthorID: reader.ID, PostID: post.ID, Text: "first"}))
	require.NoError(t, cs.Create(&domain.Comment{AuthorID: reader.ID, PostID: post.ID, Text: "second"}))
	require.NoError(t, cs.Create(&domain.Comment{AuthorID: reader.ID, PostID: other.ID, Text: "elsewhere"}))

	require.NoError(t, ps.Delete(post))

	_, err := ps.ByID(post.ID)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	var count int64
	require.NoError(t, db.Model(&domain.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count, "comments must die with their post")

	remaining, err := cs.ByPostID(other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "comments of other posts must survive")
}

func TestGroupService_Delete_NullifiesPostReferences(t *testing.T) {
	db := testDB(t)
	ps := NewPostService(db)
	gs := NewGroupService(db)
	cs := NewCommentService(db)
	author := seedUser(t, db, "leo")
	reader := seedUser(t, db, "mia")

	group := &domain.Group{Title: "Cats", Slug: "cats", Description: "all about cats"}
	require.NoError(t, gs.Create(group))

	post := seedPost(t, db, author, "a post filed into the cats group for now", time.Now(), group)
	require.NoError(t, cs.Create(&domain.Comment{AuthorID: reader.ID, PostID: post.ID, Text: "nice"}))

	require.NoError(t, gs.Delete(group))

	got, err := ps.ByID(post.ID)
	require.NoError(t, err, "the post must survive its group")
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)
	assert.Len(t, got.Comments, 1, "comments are unaffected by a group deletion")
}

func TestGroupService_BySlug(t *testing.T) {
	db := testDB(t)
	gs := NewGroupService(db)

	require.NoError(t, gs.Create(&domain.Group{Title: "Cats", Slug: "cats"}))

	group, err := gs.BySlug("cats")
	require.NoError(t, err)
	assert.Equal(t, "Cats", group.Title)

	_, err = gs.BySlug("dogs")
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestGroupService_Create_SlugTaken(t *testing.T) {
	db := testDB(t)
	gs := NewGroupService(db)

	require.NoError(t, gs.Create(&domain.Group{Title: "Cats", Slug: "cats"}))
	err := gs.Create(&domain.Group{Title: "More Cats", Slug: "cats"})
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestCommentService_Create_UnknownPost(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	reader := seedUser(t, db, "mia")

	err := cs.Create(&domain.Comment{AuthorID: reader.ID, PostID: 999, Text: "into the void"})
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestCommentService_Create_NoMinimumLength(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	author := seedUser(t, db, "leo")

	post := seedPost(t, db, author, "a post waiting for a very short comment", time.Now(), nil)

	comment := &domain.Comment{AuthorID: author.ID, PostID: post.ID, Text: "ok"}
	require.NoError(t, cs.Create(comment))
	assert.Equal(t, "leo", comment.Author.Username)
}
