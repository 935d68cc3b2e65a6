package services

import (
	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"gorm.io/gorm"
)

// RankingService is a read-only total ordering over users by point total.
// Ties break by earliest stats-row creation, then by row id, so repeated
// reads without intervening writes always see the same order.
type RankingService struct {
	db *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{db: db}
}

type LeaderboardEntry struct {
	Rank               int    `json:"rank"`
	UserID             uint   `json:"user_id"`
	DisplayName        string `json:"display_name"`
	TotalPoints        int    `json:"total_points"`
	TotalComments      int    `json:"total_comments"`
	TotalLikesReceived int    `json:"total_likes_received"`
}

const rankingOrder = "total_points DESC, created_at ASC, id ASC"

// TopN returns the first n leaderboard entries.
func (s *RankingService) TopN(n int) ([]LeaderboardEntry, error) {
	if n < 1 || n > 100 {
		n = 20
	}

	var stats []models.ReputationStats
	err := s.db.Preload("User").
		Order(rankingOrder).
		Limit(n).
		Find(&stats).Error
	if err != nil {
		return nil, persistenceError("load leaderboard", err)
	}

	entries := make([]LeaderboardEntry, 0, len(stats))
	for i, row := range stats {
		entries = append(entries, LeaderboardEntry{
			Rank:               i + 1,
			UserID:             row.UserID,
			DisplayName:        row.User.DisplayName,
			TotalPoints:        row.TotalPoints,
			TotalComments:      row.TotalComments,
			TotalLikesReceived: row.TotalLikesReceived,
		})
	}
	return entries, nil
}

// RankOf returns the user's 1-based position by scanning the same total
// order TopN uses. Linear in the user count, which is fine at this scale.
func (s *RankingService) RankOf(userID uint) (int, error) {
	var stats []models.ReputationStats
	err := s.db.Select("user_id").
		Order(rankingOrder).
		Find(&stats).Error
	if err != nil {
		return 0, persistenceError("load ranking", err)
	}

	for i, row := range stats {
		if row.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, notFoundError("user %d has no ranking entry", userID)
}
