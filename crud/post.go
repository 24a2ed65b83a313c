package crud

import (
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"groupblog/domain"
	"groupblog/errs"
)

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
func (pv *postValidator) Create(post *domain.Post) error {
	err := runPostValFns(post,
		pv.authorIdValid,
		pv.groupExists,
		pv.textMinLength)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(post)
}

// Update runs validations needed for saving changes to a Post record.
// Whether the caller is allowed to edit the post at all is decided at the
// request boundary, not here.
func (pv *postValidator) Update(post *domain.Post) error {
	err := runPostValFns(post,
		pv.idValid,
		pv.groupExists,
		pv.textMinLength)
	if err != nil {
		return err
	}
	return pv.postGorm.Update(post)
}

// Delete runs validations needed for deleting existing Post database records.
func (pv *postValidator) Delete(post *domain.Post) error {
	err := runPostValFns(post, pv.idValid)
	if err != nil {
		return err
	}
	return pv.postGorm.Delete(post)
}

// runPostValFns runs any number of functions of type postValFn on the passed in Post object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object and returns an error.
type postValFn func(post *domain.Post) error

// authorIdValid ensures that the author ID is not empty.
func (pv *postValidator) authorIdValid(post *domain.Post) error {
	if post.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "An author is required.")
	}
	return nil
}

// groupExists makes sure that the post's group actually exists.
// This check only runs if the incoming Post object references a group.
func (pv *postValidator) groupExists(post *domain.Post) error {
	if post.GroupID != nil {
		err := pv.db.First(&domain.Group{}, "id = ?", *post.GroupID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.Errorf(errs.ENOTFOUND, "The group does not exist.")
			}
			return err
		}
	}
	return nil
}

// idValid makes sure that the passed in ID of a Post is greater than 0.
func (pv *postValidator) idValid(post *domain.Post) error {
	if post.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid post ID.")
	}
	return nil
}

// textMinLength makes sure that the post text has the required minimum length.
func (pv *postValidator) textMinLength(post *domain.Post) error {
	if utf8.RuneCountInString(post.Text) < domain.MinPostTextLength {
		return errs.Errorf(errs.EINVALID, "The post text must have at least %d characters.", domain.MinPostTextLength)
	}
	return nil
}

// ByID retrieves a single Post by ID, along with its author, group and
// comments (each comment with its author).
func (pg *postGorm) ByID(id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.
		Preload("Author").
		Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at asc")
		}).
		Preload("Comments.Author").
		First(&post, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	return &post, nil
}

// All retrieves every Post, newest first.
func (pg *postGorm) All() ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Preload("Author").
		Preload("Group").
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByGroupID retrieves the Posts of a single group, newest first.
func (pg *postGorm) ByGroupID(groupID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Where("group_id = ?", groupID).
		Preload("Author").
		Preload("Group").
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByAuthorID retrieves the Posts of a single author, newest first.
func (pg *postGorm) ByAuthorID(authorID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Where("author_id = ?", authorID).
		Preload("Author").
		Preload("Group").
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByFollowedAuthors retrieves the Posts of every author the given user
// follows, newest first.
func (pg *postGorm) ByFollowedAuthors(userID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Create stores the data from the Post object in a new database record.
// The creation timestamp is assigned by the store on insert. Associations
// are references here, never written through the post.
func (pg *postGorm) Create(post *domain.Post) error {
	if err := pg.db.Omit(clause.Associations).Create(post).Error; err != nil {
		return err
	}
	return pg.db.Preload("Author").Preload("Group").First(post, "id = ?", post.ID).Error
}

// Update saves changes to an existing post record. The creation timestamp
// is left untouched.
func (pg *postGorm) Update(post *domain.Post) error {
	return pg.db.Omit("created_at", clause.Associations).Save(post).Error
}

// Delete removes a Post record from the database, together with its
// Comments. The cascade is applied explicitly here rather than left to the
// database.
func (pg *postGorm) Delete(post *domain.Post) error {
	return pg.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("post_id = ?", post.ID).Delete(&domain.Comment{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}
