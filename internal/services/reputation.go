package services

import (
	"errors"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/DavidAcosta7/local-commerce-platform/pkg/logger"
	"gorm.io/gorm"
)

// ReputationService owns the per-user point and counter aggregates. It is the
// only mutation surface for ReputationStats: moderation, likes and achievement
// unlocks all go through CreditTx/DebitTx instead of writing rows directly.
type ReputationService struct {
	db *gorm.DB
}

func NewReputationService(db *gorm.DB) *ReputationService {
	return &ReputationService{db: db}
}

const debitRetries = 3

// ensureStats makes sure a stats row exists for the user. A concurrent create
// losing on the user_id uniqueness constraint is absorbed by re-reading.
func (s *ReputationService) ensureStats(tx *gorm.DB, userID uint) (*models.ReputationStats, error) {
	var stats models.ReputationStats
	err := tx.Where("user_id = ?", userID).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistenceError("load reputation stats", err)
	}

	stats = models.ReputationStats{UserID: userID}
	if err := tx.Create(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.Where("user_id = ?", userID).First(&stats).Error; err != nil {
				return nil, persistenceError("load reputation stats", err)
			}
			return &stats, nil
		}
		return nil, persistenceError("create reputation stats", err)
	}
	return &stats, nil
}

// CreditTx applies deltas as atomic in-database increments, never as a
// read-modify-write of a value held in memory.
func (s *ReputationService) CreditTx(tx *gorm.DB, userID uint, points, comments, likesReceived int) error {
	if _, err := s.ensureStats(tx, userID); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"total_points": gorm.Expr("total_points + ?", points),
	}
	if comments != 0 {
		updates["total_comments"] = gorm.Expr("total_comments + ?", comments)
	}
	if likesReceived != 0 {
		updates["total_likes_received"] = gorm.Expr("total_likes_received + ?", likesReceived)
	}

	err := tx.Model(&models.ReputationStats{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
	if err != nil {
		return persistenceError("credit reputation stats", err)
	}
	return nil
}

// DebitTx subtracts deltas, clamping every column at zero. Clamping needs the
// current values, so it runs as a compare-and-set on total_points with a
// bounded retry instead of a blind decrement.
func (s *ReputationService) DebitTx(tx *gorm.DB, userID uint, points, comments, likesReceived int) error {
	for attempt := 0; attempt < debitRetries; attempt++ {
		stats, err := s.ensureStats(tx, userID)
		if err != nil {
			return err
		}

		newPoints := stats.TotalPoints - points
		newComments := stats.TotalComments - comments
		newLikes := stats.TotalLikesReceived - likesReceived
		clamped := false
		if newPoints < 0 {
			newPoints = 0
			clamped = true
		}
		if newComments < 0 {
			newComments = 0
			clamped = true
		}
		if newLikes < 0 {
			newLikes = 0
			clamped = true
		}

		// The guard must cover every column the write replaces, or a
		// concurrent debit landing on the same point total could swallow a
		// counter decrement.
		result := tx.Model(&models.ReputationStats{}).
			Where("user_id = ? AND total_points = ? AND total_comments = ? AND total_likes_received = ?",
				userID, stats.TotalPoints, stats.TotalComments, stats.TotalLikesReceived).
			Updates(map[string]interface{}{
				"total_points":         newPoints,
				"total_comments":       newComments,
				"total_likes_received": newLikes,
			})
		if result.Error != nil {
			return persistenceError("debit reputation stats", result.Error)
		}
		if result.RowsAffected == 1 {
			if clamped {
				logger.Warn("reputation debit clamped at zero for user ", userID, ", needs reconciliation")
			}
			return nil
		}
		// Lost the compare-and-set to a concurrent writer, re-read and retry.
	}
	return conflictError("reputation stats for user %d changed concurrently", userID)
}

// GetStats returns the current aggregate, zero-valued if the user has no
// activity yet.
func (s *ReputationService) GetStats(userID uint) (*models.ReputationStats, error) {
	var stats models.ReputationStats
	err := s.db.Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ReputationStats{UserID: userID}, nil
		}
		return nil, persistenceError("load reputation stats", err)
	}
	return &stats, nil
}

// Recompute rebuilds a user's stats from the authoritative event sources:
// approved comments authored, likes received on those comments, and unlocked
// achievement points. Used for repair; under normal operation the result
// equals the incrementally maintained row.
func (s *ReputationService) Recompute(userID uint) (*models.ReputationStats, error) {
	var stats *models.ReputationStats

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		stats, err = s.ensureStats(tx, userID)
		if err != nil {
			return err
		}

		var approvedComments int64
		if err := tx.Model(&models.Comment{}).
			Where("user_id = ? AND is_approved = ?", userID, true).
			Count(&approvedComments).Error; err != nil {
			return persistenceError("count approved comments", err)
		}

		var likesReceived int64
		if err := tx.Model(&models.CommentLike{}).
			Joins("JOIN comments ON comments.id = comment_likes.comment_id").
			Where("comments.user_id = ? AND comments.is_approved = ?", userID, true).
			Count(&likesReceived).Error; err != nil {
			return persistenceError("count likes received", err)
		}

		var achievementPoints int64
		row := tx.Model(&models.UserAchievement{}).
			Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
			Where("user_achievements.user_id = ?", userID).
			Select("COALESCE(SUM(achievements.points), 0)").
			Row()
		if err := row.Scan(&achievementPoints); err != nil {
			return persistenceError("sum achievement points", err)
		}

		stats.TotalComments = int(approvedComments)
		stats.TotalLikesReceived = int(likesReceived)
		stats.TotalPoints = int(approvedComments)*models.PointsPerApprovedComment +
			int(likesReceived)*models.PointsPerLikeReceived +
			int(achievementPoints)

		err = tx.Model(&models.ReputationStats{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"total_points":         stats.TotalPoints,
				"total_comments":       stats.TotalComments,
				"total_likes_received": stats.TotalLikesReceived,
			}).Error
		if err != nil {
			return persistenceError("store recomputed stats", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
