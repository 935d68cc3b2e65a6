package handlers

import (
	"strconv"

	"github.com/DavidAcosta7/local-commerce-platform/internal/services"
	"github.com/DavidAcosta7/local-commerce-platform/internal/utils"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	rankingService     *services.RankingService
	reputationService  *services.ReputationService
	achievementService *services.AchievementService
}

func NewLeaderboardHandler(rankingService *services.RankingService, reputationService *services.ReputationService, achievementService *services.AchievementService) *LeaderboardHandler {
	return &LeaderboardHandler{
		rankingService:     rankingService,
		reputationService:  reputationService,
		achievementService: achievementService,
	}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.rankingService.TopN(limit)
	if err != nil {
		sendServiceError(c, "Failed to fetch leaderboard", err)
		return
	}

	utils.SendSuccess(c, "Leaderboard retrieved successfully", entries)
}

// GetMyStanding returns the caller's stats and rank
func (h *LeaderboardHandler) GetMyStanding(c *gin.Context) {
	userID := c.GetUint("user_id")

	stats, err := h.reputationService.GetStats(userID)
	if err != nil {
		sendServiceError(c, "Failed to fetch stats", err)
		return
	}

	response := map[string]interface{}{
		"stats": stats,
	}
	if rank, err := h.rankingService.RankOf(userID); err == nil {
		response["rank"] = rank
	}

	utils.SendSuccess(c, "Standing retrieved successfully", response)
}

func (h *LeaderboardHandler) GetAchievements(c *gin.Context) {
	catalog, err := h.achievementService.Catalog()
	if err != nil {
		sendServiceError(c, "Failed to fetch achievements", err)
		return
	}

	utils.SendSuccess(c, "Achievements retrieved successfully", catalog)
}

func (h *LeaderboardHandler) GetMyAchievements(c *gin.Context) {
	userID := c.GetUint("user_id")

	records, err := h.achievementService.UserAchievements(userID)
	if err != nil {
		sendServiceError(c, "Failed to fetch achievements", err)
		return
	}

	utils.SendSuccess(c, "Achievements retrieved successfully", records)
}
