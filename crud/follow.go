package crud

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"groupblog/domain"
	"groupblog/errs"
)

// FollowService manages the directed follow relation between users.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
// Otherwise, it returns the error of the validation that has failed.
type followValidator struct {
	followGorm
}

// followGorm runs CRUD operations on the database using incoming Follow data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Create adds a follow edge from follow.UserID to follow.AuthorID. Following
// yourself and following someone twice are silent no-ops, never errors, so
// a probing caller cannot tell them apart from a successful follow. It only
// fails if one of the two users does not exist.
func (fv *followValidator) Create(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.followerExists,
		fv.followedUserExists)
	if err != nil {
		return err
	}
	if follow.UserID == follow.AuthorID {
		return nil
	}
	exists, err := fv.followGorm.edgeExists(follow.UserID, follow.AuthorID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return fv.followGorm.Create(follow)
}

// Delete removes the follow edge from follow.UserID to follow.AuthorID.
// Removing an edge that does not exist is a silent no-op. It only fails if
// one of the two users does not exist.
func (fv *followValidator) Delete(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.followerExists,
		fv.followedUserExists)
	if err != nil {
		return err
	}
	return fv.followGorm.Delete(follow)
}

// runFollowValFns runs any number of functions of type followValFn on the passed in Follow object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			return err
		}
	}
	return nil
}

// A followValFn is any function that takes in a pointer to a domain.Follow object and returns an error.
type followValFn func(follow *domain.Follow) error

// followerExists makes sure that the following user actually exists.
func (fv *followValidator) followerExists(follow *domain.Follow) error {
	err := fv.db.First(&domain.User{}, "id = ?", follow.UserID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The following user does not exist.")
		}
		return err
	}
	return nil
}

// followedUserExists makes sure that the user to be followed actually exists.
func (fv *followValidator) followedUserExists(follow *domain.Follow) error {
	err := fv.db.First(&domain.User{}, "id = ?", follow.AuthorID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		}
		return err
	}
	return nil
}

// IsFollowing reports whether userID follows authorID. An anonymous user
// (userID 0) never follows anyone.
func (fg *followGorm) IsFollowing(userID, authorID int) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	return fg.edgeExists(userID, authorID)
}

// FollowersOf returns the users following the given author.
func (fg *followGorm) FollowersOf(authorID int) ([]domain.User, error) {
	var followers []domain.User
	err := fg.db.
		Joins("JOIN follows ON follows.user_id = users.id").
		Where("follows.author_id = ?", authorID).
		Order("follows.created_at desc").
		Find(&followers).Error
	if err != nil {
		return nil, err
	}
	return followers, nil
}

// edgeExists reports whether a follow edge exists for the given pair.
func (fg *followGorm) edgeExists(userID, authorID int) (bool, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the follow edge. A concurrent identical request may win the
// race between the existence check and the insert; the composite unique
// index turns that into a constraint violation, which is swallowed to keep
// Create idempotent.
func (fg *followGorm) Create(follow *domain.Follow) error {
	err := fg.db.Omit(clause.Associations).Create(follow).Error
	if err != nil {
		exists, checkErr := fg.edgeExists(follow.UserID, follow.AuthorID)
		if checkErr == nil && exists {
			return nil
		}
		return err
	}
	return fg.db.Preload("User").Preload("Author").First(follow, "id = ?", follow.ID).Error
}

// Delete removes the follow edge for the pair, if present.
func (fg *followGorm) Delete(follow *domain.Follow) error {
	return fg.db.
		Where("user_id = ? AND author_id = ?", follow.UserID, follow.AuthorID).
		Delete(&domain.Follow{}).Error
}
