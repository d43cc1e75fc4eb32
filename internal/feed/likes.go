package feed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusbuzz/campusbuzz/internal/models"
)

// ToggleResult is the like state after a toggle and the post's new like count.
type ToggleResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// Action is the wire name of the toggle outcome.
func (r ToggleResult) Action() string {
	if r.Liked {
		return "liked"
	}
	return "unliked"
}

// LikeService flips a user's like on a post.
type LikeService struct {
	DB *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{DB: db}
}

// ToggleLike removes userID's like on postID if it exists, otherwise adds it.
//
// The like row is never read before it is written: a delete that hits a row
// means "unliked", and otherwise an insert guarded by the (post_id, user_id)
// key means "liked". A concurrent request that inserted first leaves the
// insert with nothing to do, which is the same outcome.
func (s *LikeService) ToggleLike(ctx context.Context, userID, postID uint) (*ToggleResult, error) {
	if postID == 0 {
		return nil, &ValidationError{Field: "post_id", Message: "Invalid post ID"}
	}

	var result ToggleResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("post %d: %w", postID, ErrNotFound)
			}
			return err
		}

		del := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if del.Error != nil {
			return fmt.Errorf("delete like: %w", del.Error)
		}

		if del.RowsAffected == 0 {
			like := models.Like{PostID: postID, UserID: userID}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).Omit(clause.Associations).Create(&like).Error
			if err != nil && !isDuplicateKey(err) {
				return fmt.Errorf("insert like: %w", err)
			}
			result.Liked = true
		}

		if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&result.LikeCount).Error; err != nil {
			return fmt.Errorf("count likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Liked reports whether userID currently likes postID.
func (s *LikeService) Liked(ctx context.Context, userID, postID uint) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("lookup like: %w", err)
	}
	return n > 0, nil
}
