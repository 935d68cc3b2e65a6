package services

import (
	"errors"
	"time"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"gorm.io/gorm"
)

// AchievementService evaluates the unlock catalog against a user's stats.
// Unlocks are terminal: once a UserAchievement row exists it is never revoked,
// even if a later reversal drops the stats below the predicate threshold.
type AchievementService struct {
	db     *gorm.DB
	ledger *ReputationService
}

func NewAchievementService(db *gorm.DB, ledger *ReputationService) *AchievementService {
	return &AchievementService{db: db, ledger: ledger}
}

// Evaluate walks the catalog once, cheapest achievement first, testing each
// locked achievement against a stats snapshot taken before the pass. Point
// credits applied during the pass never feed back into the snapshot, and
// predicates are over activity counters rather than points, so an unlock can
// never trigger another unlock within the same pass.
func (s *AchievementService) Evaluate(userID uint) ([]models.Achievement, error) {
	stats, err := s.ledger.GetStats(userID)
	if err != nil {
		return nil, err
	}

	var catalog []models.Achievement
	if err := s.db.Order("points ASC, id ASC").Find(&catalog).Error; err != nil {
		return nil, persistenceError("load achievement catalog", err)
	}

	unlockedIDs, err := s.unlockedIDs(userID)
	if err != nil {
		return nil, err
	}

	var newlyUnlocked []models.Achievement
	for _, achievement := range catalog {
		if unlockedIDs[achievement.ID] {
			continue
		}
		if !achievement.Satisfied(stats) {
			continue
		}

		won, err := s.unlock(userID, achievement)
		if err != nil {
			return newlyUnlocked, err
		}
		if won {
			newlyUnlocked = append(newlyUnlocked, achievement)
		}
	}

	return newlyUnlocked, nil
}

// unlock inserts the UserAchievement row and credits its points in one
// transaction. A concurrent evaluation inserting the same row first makes the
// create fail on the (user, achievement) uniqueness constraint; the loser
// rolls back and treats it as a no-op.
func (s *AchievementService) unlock(userID uint, achievement models.Achievement) (bool, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		record := models.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
			EarnedAt:      time.Now(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return s.ledger.CreditTx(tx, userID, achievement.Points, 0, 0)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		if errors.Is(err, ErrPersistence) || errors.Is(err, ErrStateConflict) {
			return false, err
		}
		return false, persistenceError("unlock achievement", err)
	}
	return true, nil
}

func (s *AchievementService) unlockedIDs(userID uint) (map[uint]bool, error) {
	var records []models.UserAchievement
	if err := s.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, persistenceError("load user achievements", err)
	}
	ids := make(map[uint]bool, len(records))
	for _, record := range records {
		ids[record.AchievementID] = true
	}
	return ids, nil
}

// Catalog returns every achievement ordered by ascending point value.
func (s *AchievementService) Catalog() ([]models.Achievement, error) {
	var catalog []models.Achievement
	if err := s.db.Order("points ASC, id ASC").Find(&catalog).Error; err != nil {
		return nil, persistenceError("load achievement catalog", err)
	}
	return catalog, nil
}

// UserAchievements returns the user's unlocks, most recent first.
func (s *AchievementService) UserAchievements(userID uint) ([]models.UserAchievement, error) {
	var records []models.UserAchievement
	err := s.db.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, persistenceError("load user achievements", err)
	}
	return records, nil
}
