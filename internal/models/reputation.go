package models

import (
	"time"
)

// Point values credited by the reputation ledger.
const (
	PointsPerApprovedComment = 10
	PointsPerLikeReceived    = 5
)

// ReputationStats is the incrementally maintained aggregate per user. It must
// always equal what Recompute derives from approved comments, likes received
// and unlocked achievements.
type ReputationStats struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UserID             uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	TotalPoints        int       `json:"total_points" gorm:"default:0"`
	TotalComments      int       `json:"total_comments" gorm:"default:0"`
	TotalLikesReceived int       `json:"total_likes_received" gorm:"default:0"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Relations
	User User `json:"user,omitempty"`
}

// Achievement criteria kinds. Predicates are over activity counters only,
// never over the point total, so one unlock's point credit can never satisfy
// another achievement in the same evaluation pass.
const (
	CriteriaCommentsCount = "comments_count"
	CriteriaLikesReceived = "likes_received"
)

type Achievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Code          string    `json:"code" gorm:"unique;not null"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description"`
	Points        int       `json:"points" gorm:"not null"`
	CriteriaType  string    `json:"criteria_type" gorm:"not null"`
	CriteriaValue int       `json:"criteria_value" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Satisfied reports whether the unlock predicate holds for the given stats.
func (a *Achievement) Satisfied(stats *ReputationStats) bool {
	switch a.CriteriaType {
	case CriteriaCommentsCount:
		return stats.TotalComments >= a.CriteriaValue
	case CriteriaLikesReceived:
		return stats.TotalLikesReceived >= a.CriteriaValue
	default:
		return false
	}
}

// UserAchievement records a terminal, non-revocable unlock. Exactly one row
// may ever exist per (user, achievement).
type UserAchievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_achievements_user_achievement"`
	AchievementID uint      `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievements_user_achievement"`
	EarnedAt      time.Time `json:"earned_at"`

	// Relations
	User        User        `json:"user,omitempty"`
	Achievement Achievement `json:"achievement,omitempty"`
}
