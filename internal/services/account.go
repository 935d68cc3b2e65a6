package services

import (
	"errors"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/DavidAcosta7/local-commerce-platform/internal/utils"
	"github.com/DavidAcosta7/local-commerce-platform/pkg/logger"
	"gorm.io/gorm"
)

// AccountService covers admin-side user management: role changes, password
// resets and account deletion. Authentication itself belongs to the identity
// provider; this service only manages the local profile rows.
type AccountService struct {
	db     *gorm.DB
	audit  *AuditService
	ledger *ReputationService
	email  *EmailService
}

func NewAccountService(db *gorm.DB, audit *AuditService, ledger *ReputationService, email *EmailService) *AccountService {
	return &AccountService{db: db, audit: audit, ledger: ledger, email: email}
}

// ListUsers returns active users, newest first.
func (s *AccountService) ListUsers(page, limit int) ([]models.User, error) {
	var users []models.User
	offset := (page - 1) * limit
	err := s.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, persistenceError("list users", err)
	}
	return users, nil
}

// UpdateRole changes a user's role and records the transition.
func (s *AccountService) UpdateRole(userID, adminID uint, role string) error {
	if !utils.IsValidRole(role) {
		return validationError("invalid role %q", role)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireAdmin(tx, adminID); err != nil {
			return err
		}

		var user models.User
		if err := tx.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("user %d not found", userID)
			}
			return persistenceError("load user", err)
		}
		if user.Role == role {
			return nil
		}

		if err := tx.Model(&user).Update("role", role).Error; err != nil {
			return persistenceError("update role", err)
		}

		return s.audit.Record(tx, adminID, models.ActionUpdateUserRole, models.TargetUser, userID, map[string]interface{}{
			"old_role": user.Role,
			"new_role": role,
		})
	})
}

// ChangePassword sets a new password for the user and notifies them by email
// after the transaction commits.
func (s *AccountService) ChangePassword(userID, adminID uint, newPassword string) error {
	if !utils.IsValidPassword(newPassword) {
		return validationError("password must be at least 8 characters")
	}

	var userEmail string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireAdmin(tx, adminID); err != nil {
			return err
		}

		var user models.User
		if err := tx.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("user %d not found", userID)
			}
			return persistenceError("load user", err)
		}

		if err := user.UpdatePassword(newPassword); err != nil {
			return persistenceError("hash password", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("password", user.Password).Error; err != nil {
			return persistenceError("update password", err)
		}
		userEmail = user.Email

		return s.audit.Record(tx, adminID, models.ActionChangeUserPassword, models.TargetUser, userID, nil)
	})
	if err != nil {
		return err
	}

	go func() {
		if err := s.email.SendPasswordChangedNotice(userEmail); err != nil {
			logger.Warn("failed to send password change notice to ", userEmail, ": ", err)
		}
	}()

	return nil
}

// DeleteUser removes an account and everything hanging off it: merchants they
// own (with the comment cascade), their own comments, likes they placed on
// other users' comments, and their stats and achievements. Authors of
// comments the deleted user had liked are debited so the ledger stays equal
// to a recompute.
func (s *AccountService) DeleteUser(userID, adminID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := requireAdmin(tx, adminID); err != nil {
			return err
		}
		if userID == adminID {
			return conflictError("admin %d cannot delete their own account", adminID)
		}

		var user models.User
		if err := tx.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("user %d not found", userID)
			}
			return persistenceError("load user", err)
		}

		// Likes placed by this user on other users' comments.
		var placedLikes []models.CommentLike
		if err := tx.Preload("Comment").Where("user_id = ?", userID).Find(&placedLikes).Error; err != nil {
			return persistenceError("list placed likes", err)
		}
		for _, like := range placedLikes {
			if err := tx.Where("id = ?", like.ID).Delete(&models.CommentLike{}).Error; err != nil {
				return persistenceError("delete like", err)
			}
			if like.Comment.UserID != userID && like.Comment.IsApproved {
				if err := s.ledger.DebitTx(tx, like.Comment.UserID, models.PointsPerLikeReceived, 0, 1); err != nil {
					return err
				}
			}
		}

		// Merchants they own, with the full comment cascade.
		var merchants []models.Merchant
		if err := tx.Where("owner_id = ?", userID).Find(&merchants).Error; err != nil {
			return persistenceError("list owned merchants", err)
		}
		for _, merchant := range merchants {
			var comments []models.Comment
			if err := tx.Where("merchant_id = ?", merchant.ID).Find(&comments).Error; err != nil {
				return persistenceError("list merchant comments", err)
			}
			for _, comment := range comments {
				if err := deleteCommentTx(tx, s.audit, s.ledger, comment.ID, adminID, models.ActionDeleteComment, false); err != nil {
					return err
				}
			}
			if err := tx.Where("id = ?", merchant.ID).Delete(&models.Merchant{}).Error; err != nil {
				return persistenceError("delete merchant", err)
			}
		}

		// Their own comments elsewhere. No reputation reversal needed: the
		// stats row is removed outright below.
		var comments []models.Comment
		if err := tx.Where("user_id = ?", userID).Find(&comments).Error; err != nil {
			return persistenceError("list user comments", err)
		}
		for _, comment := range comments {
			if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{}).Error; err != nil {
				return persistenceError("delete comment likes", err)
			}
			if err := tx.Where("id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
				return persistenceError("delete comment", err)
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserAchievement{}).Error; err != nil {
			return persistenceError("delete user achievements", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ReputationStats{}).Error; err != nil {
			return persistenceError("delete reputation stats", err)
		}
		if err := tx.Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
			return persistenceError("delete user", err)
		}

		return s.audit.Record(tx, adminID, models.ActionDeleteUser, models.TargetUser, userID, map[string]interface{}{
			"email":          user.Email,
			"role":           user.Role,
			"merchant_count": len(merchants),
			"comment_count":  len(comments),
		})
	})
}

// DashboardStats returns the admin dashboard counters.
func (s *AccountService) DashboardStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	counts := []struct {
		key   string
		model interface{}
		where []interface{}
	}{
		{"total_users", &models.User{}, []interface{}{"is_active = ?", true}},
		{"total_merchants", &models.Merchant{}, []interface{}{"is_active = ?", true}},
		{"verified_merchants", &models.Merchant{}, []interface{}{"is_verified = ? AND is_active = ?", true, true}},
		{"total_comments", &models.Comment{}, []interface{}{"is_approved = ?", true}},
		{"pending_comments", &models.Comment{}, []interface{}{"is_approved = ?", false}},
		{"total_likes", &models.CommentLike{}, nil},
	}

	for _, c := range counts {
		var n int64
		query := s.db.Model(c.model)
		if c.where != nil {
			query = query.Where(c.where[0], c.where[1:]...)
		}
		if err := query.Count(&n).Error; err != nil {
			return nil, persistenceError("count "+c.key, err)
		}
		stats[c.key] = n
	}

	return stats, nil
}
