package crud

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"groupblog/domain"
	"groupblog/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the domain.CommentService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
// Comments have no minimum length, only a non-empty text.
func (cv *commentValidator) Create(comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.authorIdValid,
		cv.postExists,
		cv.textRequired)
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(comment)
}

// runCommentValFns runs any number of functions of type commentValFn on the passed in Comment object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment object and returns an error.
type commentValFn func(comment *domain.Comment) error

// authorIdValid ensures that the author ID is not empty.
func (cv *commentValidator) authorIdValid(comment *domain.Comment) error {
	if comment.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "An author is required.")
	}
	return nil
}

// postExists makes sure that the commented post actually exists.
func (cv *commentValidator) postExists(comment *domain.Comment) error {
	err := cv.db.First(&domain.Post{}, "id = ?", comment.PostID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return err
	}
	return nil
}

// textRequired makes sure that the comment text is not empty.
func (cv *commentValidator) textRequired(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return errs.Errorf(errs.EINVALID, "The comment text must not be empty.")
	}
	return nil
}

// ByPostID retrieves the Comments of a single post, oldest first, each with
// its author.
func (cg *commentGorm) ByPostID(postID int) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := cg.db.
		Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(comment *domain.Comment) error {
	if err := cg.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return err
	}
	return cg.db.Preload("Author").First(comment, "id = ?", comment.ID).Error
}
