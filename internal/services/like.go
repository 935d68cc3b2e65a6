package services

import (
	"errors"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/DavidAcosta7/local-commerce-platform/pkg/logger"
	"gorm.io/gorm"
)

// LikeService maintains the (comment, user) like registry. Membership is the
// only state: inserting the row likes, deleting it unlikes, and the author's
// counters follow the final registry membership.
type LikeService struct {
	db           *gorm.DB
	ledger       *ReputationService
	achievements *AchievementService
}

func NewLikeService(db *gorm.DB, ledger *ReputationService, achievements *AchievementService) *LikeService {
	return &LikeService{db: db, ledger: ledger, achievements: achievements}
}

type ToggleResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// Toggle likes the comment if the caller has not liked it yet, otherwise
// unlikes it. Only approved comments can be liked. Two concurrent toggles by
// the same user are serialized by the pair uniqueness constraint: the loser of
// an insert race rolls back and reports the current membership, leaving the
// counters consistent with the registry.
func (s *LikeService) Toggle(commentID, userID uint) (*ToggleResult, error) {
	var authorID uint
	var liked bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("id = ? AND is_approved = ?", commentID, true).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("comment %d not found", commentID)
			}
			return persistenceError("load comment", err)
		}
		authorID = comment.UserID

		result := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if result.Error != nil {
			return persistenceError("delete like", result.Error)
		}
		if result.RowsAffected == 1 {
			liked = false
			return s.ledger.DebitTx(tx, authorID, models.PointsPerLikeReceived, 0, 1)
		}

		like := models.CommentLike{CommentID: commentID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a double-toggle race; the winner already counted it.
				return errDuplicateLike
			}
			return persistenceError("create like", err)
		}
		liked = true
		return s.ledger.CreditTx(tx, authorID, models.PointsPerLikeReceived, 0, 1)
	})
	if err != nil {
		if errors.Is(err, errDuplicateLike) {
			liked = true
		} else {
			return nil, err
		}
	}

	if liked {
		if _, err := s.achievements.Evaluate(authorID); err != nil {
			logger.Error("achievement evaluation failed for user ", authorID, ": ", err)
		}
	}

	var likeCount int64
	if err := s.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&likeCount).Error; err != nil {
		return nil, persistenceError("count likes", err)
	}

	return &ToggleResult{Liked: liked, LikeCount: int(likeCount)}, nil
}

// errDuplicateLike aborts the transaction when the insert loses a race; the
// toggle is then reported as a benign no-op.
var errDuplicateLike = errors.New("like already exists")
