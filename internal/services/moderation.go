package services

import (
	"errors"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/DavidAcosta7/local-commerce-platform/pkg/logger"
	"gorm.io/gorm"
)

// ModerationService drives the comment lifecycle: pending comments are either
// approved (and start counting toward ratings and reputation) or rejected
// (hard-deleted). Every transition writes exactly one audit row in the same
// transaction.
type ModerationService struct {
	db           *gorm.DB
	audit        *AuditService
	ledger       *ReputationService
	achievements *AchievementService
}

func NewModerationService(db *gorm.DB, audit *AuditService, ledger *ReputationService, achievements *AchievementService) *ModerationService {
	return &ModerationService{db: db, audit: audit, ledger: ledger, achievements: achievements}
}

// PendingComments returns the moderation queue, oldest first.
func (s *ModerationService) PendingComments() ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").Preload("Merchant").
		Where("is_approved = ?", false).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, persistenceError("list pending comments", err)
	}
	return comments, nil
}

// AllComments returns every comment regardless of approval state, newest
// first, for the admin panel.
func (s *ModerationService) AllComments() ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").Preload("Merchant").
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, persistenceError("list comments", err)
	}
	return comments, nil
}

// Approve transitions a pending comment to approved, credits the author and
// records the action. The state check and the flag write happen in a single
// guarded update, so two concurrent approvals cannot both credit.
func (s *ModerationService) Approve(commentID, adminID uint) error {
	var authorID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireAdmin(tx, adminID); err != nil {
			return err
		}

		var comment models.Comment
		if err := tx.Where("id = ?", commentID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("comment %d not found", commentID)
			}
			return persistenceError("load comment", err)
		}

		result := tx.Model(&models.Comment{}).
			Where("id = ? AND is_approved = ?", commentID, false).
			Update("is_approved", true)
		if result.Error != nil {
			return persistenceError("approve comment", result.Error)
		}
		if result.RowsAffected == 0 {
			return conflictError("comment %d is already moderated", commentID)
		}

		authorID = comment.UserID
		if err := s.ledger.CreditTx(tx, authorID, models.PointsPerApprovedComment, 1, 0); err != nil {
			return err
		}

		return s.audit.Record(tx, adminID, models.ActionApproveComment, models.TargetComment, commentID, map[string]interface{}{
			"merchant_id": comment.MerchantID,
			"author_id":   comment.UserID,
		})
	})
	if err != nil {
		return err
	}

	s.evaluateAchievements(authorID)
	return nil
}

// Reject hard-deletes a pending comment. Only the reject_comment audit row
// survives; the author was never credited, so there is no reputation effect.
func (s *ModerationService) Reject(commentID, adminID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireAdmin(tx, adminID); err != nil {
			return err
		}

		var comment models.Comment
		if err := tx.Where("id = ?", commentID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("comment %d not found", commentID)
			}
			return persistenceError("load comment", err)
		}
		if comment.IsApproved {
			return conflictError("comment %d is already approved", commentID)
		}

		result := tx.Where("id = ? AND is_approved = ?", commentID, false).Delete(&models.Comment{})
		if result.Error != nil {
			return persistenceError("delete comment", result.Error)
		}
		if result.RowsAffected == 0 {
			return conflictError("comment %d is already moderated", commentID)
		}

		return s.audit.Record(tx, adminID, models.ActionRejectComment, models.TargetComment, commentID, map[string]interface{}{
			"merchant_id": comment.MerchantID,
			"author_id":   comment.UserID,
		})
	})
}

// Delete removes any comment, approved or not. For approved comments the
// author's earlier credit is reversed, including the likes received on the
// comment; the ledger clamps at zero if the reversal would go negative.
func (s *ModerationService) Delete(commentID, adminID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireAdmin(tx, adminID); err != nil {
			return err
		}
		return deleteCommentTx(tx, s.audit, s.ledger, commentID, adminID, models.ActionDeleteComment, true)
	})
}

// deleteCommentTx is the shared cascade for removing a single comment inside
// an open transaction. Merchant and user deletion reuse it so the reversal
// rules stay in one place. When recordAction is false the caller owns the
// audit trail (the cascade is covered by its own delete_merchant or
// delete_user entry).
func deleteCommentTx(tx *gorm.DB, audit *AuditService, ledger *ReputationService, commentID, adminID uint, actionType string, recordAction bool) error {
	var comment models.Comment
	if err := tx.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("comment %d not found", commentID)
		}
		return persistenceError("load comment", err)
	}

	var likeCount int64
	if err := tx.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&likeCount).Error; err != nil {
		return persistenceError("count likes", err)
	}

	if err := tx.Where("comment_id = ?", commentID).Delete(&models.CommentLike{}).Error; err != nil {
		return persistenceError("delete likes", err)
	}
	if err := tx.Where("id = ?", commentID).Delete(&models.Comment{}).Error; err != nil {
		return persistenceError("delete comment", err)
	}

	if comment.IsApproved {
		points := models.PointsPerApprovedComment + int(likeCount)*models.PointsPerLikeReceived
		if err := ledger.DebitTx(tx, comment.UserID, points, 1, int(likeCount)); err != nil {
			return err
		}
	}

	if !recordAction {
		return nil
	}
	return audit.Record(tx, adminID, actionType, models.TargetComment, commentID, map[string]interface{}{
		"merchant_id":  comment.MerchantID,
		"author_id":    comment.UserID,
		"was_approved": comment.IsApproved,
		"like_count":   likeCount,
	})
}

// evaluateAchievements runs after the triggering transaction commits. A
// failure here never rolls back the moderation decision; the unlock is simply
// deferred to the next stats change.
func (s *ModerationService) evaluateAchievements(userID uint) {
	if _, err := s.achievements.Evaluate(userID); err != nil {
		logger.Error("achievement evaluation failed for user ", userID, ": ", err)
	}
}
